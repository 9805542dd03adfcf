// internal/app/features/studygroups/pending.go
package studygroups

import (
	"context"
	"net/http"

	"github.com/dalemusser/studyhub/internal/app/policy/grouppolicy"
	"github.com/dalemusser/studyhub/internal/app/system/apierr"
	"github.com/dalemusser/studyhub/internal/app/system/jsonutil"
	"github.com/dalemusser/studyhub/internal/app/system/normalize"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
)

// HandleListPending handles GET /api/study-groups/{id}/pending-members
// with ?adminUserId=... Admin only.
func (h *Handler) HandleListPending(w http.ResponseWriter, r *http.Request) {
	adminUserID := normalize.QueryParam(r.URL.Query().Get("adminUserId"))
	if adminUserID == "" {
		jsonutil.Fail(w, apierr.Validation("adminUserId is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	group, err := h.loadGroup(ctx, r)
	if err != nil {
		jsonutil.Error(w, h.Log, "load group for pending list", err)
		return
	}
	if !grouppolicy.CanModerate(group, adminUserID) {
		jsonutil.Fail(w, apierr.Forbidden("only group admins can view pending requests"))
		return
	}

	jsonutil.OK(w, map[string]any{"pendingMembers": group.PendingMembers})
}
