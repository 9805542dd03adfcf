package apierr_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/dalemusser/studyhub/internal/app/system/apierr"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err    *apierr.Error
		status int
		code   string
	}{
		{apierr.Validation("bad"), http.StatusBadRequest, apierr.CodeValidation},
		{apierr.NotFound("missing"), http.StatusNotFound, apierr.CodeNotFound},
		{apierr.Forbidden("no"), http.StatusForbidden, apierr.CodeForbidden},
		{apierr.AlreadyCreator("own group"), http.StatusBadRequest, apierr.CodeAlreadyCreator},
		{apierr.AlreadyAdmin("again"), http.StatusConflict, apierr.CodeAlreadyAdmin},
		{apierr.NotAdmin("never was"), http.StatusBadRequest, apierr.CodeNotAdmin},
		{apierr.LimitExceeded("full"), http.StatusBadRequest, apierr.CodeLimitExceeded},
	}

	for _, c := range cases {
		if c.err.Status != c.status {
			t.Errorf("%s: status got %d, want %d", c.code, c.err.Status, c.status)
		}
		if c.err.Code != c.code {
			t.Errorf("code got %q, want %q", c.err.Code, c.code)
		}
	}
}

func TestFrom(t *testing.T) {
	orig := apierr.NotFound("group not found")

	// Direct value
	e, ok := apierr.From(orig)
	if !ok || e != orig {
		t.Error("From failed on a direct *Error")
	}

	// Wrapped value
	wrapped := fmt.Errorf("loading group: %w", orig)
	e, ok = apierr.From(wrapped)
	if !ok || e.Code != apierr.CodeNotFound {
		t.Error("From failed on a wrapped *Error")
	}

	// Unrelated error
	if _, ok := apierr.From(fmt.Errorf("boom")); ok {
		t.Error("From matched a plain error")
	}
}

func TestErrorMessage(t *testing.T) {
	err := apierr.Forbidden("only admins can approve members")
	if err.Error() != "only admins can approve members" {
		t.Errorf("Error(): got %q", err.Error())
	}
}
