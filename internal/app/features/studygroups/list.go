// internal/app/features/studygroups/list.go
package studygroups

import (
	"context"
	"net/http"

	groupstore "github.com/dalemusser/studyhub/internal/app/store/groups"
	messagestore "github.com/dalemusser/studyhub/internal/app/store/messages"
	"github.com/dalemusser/studyhub/internal/app/system/apierr"
	"github.com/dalemusser/studyhub/internal/app/system/jsonutil"
	"github.com/dalemusser/studyhub/internal/app/system/normalize"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// HandleListGroups handles GET /api/study-groups/{id}?email=...
// where {id} is the caller's userID. Returns every group the user created
// or belongs to, each annotated with its full message log.
func (h *Handler) HandleListGroups(w http.ResponseWriter, r *http.Request) {
	userID := normalize.QueryParam(chi.URLParam(r, "id"))
	email := normalize.Email(r.URL.Query().Get("email"))
	if userID == "" || email == "" {
		jsonutil.Fail(w, apierr.Validation("userId and email are required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	groups, err := groupstore.New(h.DB).ListForUser(ctx, userID, email)
	if err != nil {
		jsonutil.ServerError(w, h.Log, "list groups failed", err)
		return
	}

	msgStore := messagestore.New(h.DB)
	out := make([]groupWithMessages, 0, len(groups))
	for _, g := range groups {
		msgs, err := msgStore.ListByGroup(ctx, g.ID)
		if err != nil {
			jsonutil.ServerError(w, h.Log, "list group messages failed", err)
			return
		}
		if msgs == nil {
			msgs = []models.GroupMessage{}
		}
		out = append(out, groupWithMessages{
			Group:    g.Redacted(userID),
			Messages: msgs,
		})
	}

	jsonutil.OK(w, map[string]any{"groups": out})
}
