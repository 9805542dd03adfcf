// internal/app/system/jsonutil/jsonutil.go

// Package jsonutil holds the JSON response helpers shared by API handlers.
//
// Success responses are 200 with {"success":true, ...}. Expected failures
// (apierr.Error) keep their mapped status; anything else becomes a 500 with
// {"success":false, "error":..., "details":...}.
package jsonutil

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/studyhub/internal/app/system/apierr"
	"go.uber.org/zap"
)

// OK writes a 200 success envelope. Extra fields are merged alongside
// "success": true, so callers pass e.g. map[string]any{"group": g}.
func OK(w http.ResponseWriter, extra map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range extra {
		body[k] = v
	}
	write(w, http.StatusOK, body)
}

// Fail writes the error envelope for an expected *apierr.Error.
func Fail(w http.ResponseWriter, e *apierr.Error) {
	write(w, e.Status, map[string]any{
		"success": false,
		"error":   e.Code,
		"message": e.Message,
	})
}

// ServerError logs err and writes the generic 500 envelope. The persistence
// failure never reaches the client verbatim beyond the details string.
func ServerError(w http.ResponseWriter, log *zap.Logger, msg string, err error) {
	log.Error(msg, zap.Error(err))
	write(w, http.StatusInternalServerError, map[string]any{
		"success": false,
		"error":   apierr.CodeUnhandled,
		"details": err.Error(),
	})
}

// Error dispatches err to Fail or ServerError depending on whether it is an
// expected API error.
func Error(w http.ResponseWriter, log *zap.Logger, msg string, err error) {
	if e, ok := apierr.From(err); ok {
		Fail(w, e)
		return
	}
	ServerError(w, log, msg, err)
}

// Decode reads a JSON request body into dst, returning a ValidationError on
// malformed input.
func Decode(r *http.Request, dst any) error {
	if r.Body == nil {
		return apierr.Validation("request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apierr.Validation("invalid JSON body")
	}
	return nil
}

func write(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
