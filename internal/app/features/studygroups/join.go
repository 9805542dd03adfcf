// internal/app/features/studygroups/join.go
package studygroups

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/studyhub/internal/app/realtime"
	groupstore "github.com/dalemusser/studyhub/internal/app/store/groups"
	"github.com/dalemusser/studyhub/internal/app/system/apierr"
	"github.com/dalemusser/studyhub/internal/app/system/jsonutil"
	"github.com/dalemusser/studyhub/internal/app/system/normalize"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HandleJoinGroup handles POST /api/study-groups/join.
//
// State machine entry point: NONE -> PENDING. The creator cannot request
// to join their own group; an existing member gets an idempotent success
// with the group; an already-pending email gets a pending status without
// duplicating the request.
func (h *Handler) HandleJoinGroup(w http.ResponseWriter, r *http.Request) {
	var req joinGroupRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		jsonutil.Error(w, h.Log, "decode join group", err)
		return
	}

	req.Code = normalize.Code(req.Code)
	req.Email = normalize.Email(req.Email)
	req.Name = normalize.Name(req.Name)

	if missing := firstMissing(map[string]string{
		"code":   req.Code,
		"email":  req.Email,
		"name":   req.Name,
		"userId": req.UserID,
	}); missing != "" {
		jsonutil.Fail(w, apierr.Validation(missing+" is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()
	store := groupstore.New(h.DB)

	group, err := store.GetByCode(ctx, req.Code)
	if err == mongo.ErrNoDocuments {
		jsonutil.Fail(w, apierr.NotFound("no group with that code"))
		return
	}
	if err != nil {
		jsonutil.ServerError(w, h.Log, "lookup group by code failed", err)
		return
	}

	switch {
	case isCreatorIdentity(group, req.Email, req.UserID):
		jsonutil.Fail(w, apierr.AlreadyCreator("you created this group"))
		return
	case group.HasMemberEmail(req.Email):
		// Idempotent: already a member, return the group as a success.
		jsonutil.OK(w, map[string]any{
			"status": "member",
			"group":  group.Redacted(req.UserID),
		})
		return
	case group.HasPendingEmail(req.Email):
		jsonutil.OK(w, map[string]any{
			"status":  "pending",
			"message": "your request is already waiting for approval",
		})
		return
	}

	pending := models.PendingMember{
		Email:       req.Email,
		Name:        req.Name,
		UserID:      req.UserID,
		RequestedAt: time.Now().UTC(),
		PushToken:   req.PushToken,
	}

	changed, err := store.AddPending(ctx, group.ID, pending)
	if err != nil {
		jsonutil.ServerError(w, h.Log, "append pending member failed", err)
		return
	}
	if !changed {
		// Lost a race with a concurrent join/approve for the same email.
		// The email is in one of the two lists now either way; report pending.
		h.Log.Info("join request raced, treating as pending",
			zap.String("group_id", group.ID.Hex()),
			zap.String("email", req.Email))
	}

	h.Hub.Publish(realtime.Event{
		Type:    realtime.EventPendingRequest,
		GroupID: group.ID.Hex(),
		Data:    pending,
	})
	h.notifyAdmins(group, "Join request", req.Name+" asked to join "+group.Name)

	jsonutil.OK(w, map[string]any{
		"status":  "pending",
		"message": "join request sent",
	})
}

// isCreatorIdentity reports whether the join identity belongs to the
// group's creator, by userID or by the creator's member email.
func isCreatorIdentity(g models.Group, email, userID string) bool {
	if userID != "" && userID == g.CreatorID {
		return true
	}
	for _, m := range g.Members {
		if m.UserID == g.CreatorID {
			return m.Email == email
		}
	}
	return false
}

// notifyAdmins pushes a best-effort notification to the admins' devices.
func (h *Handler) notifyAdmins(g models.Group, title, body string) {
	adminSet := make(map[string]struct{}, len(g.Admins))
	for _, a := range g.Admins {
		adminSet[a] = struct{}{}
	}
	var tokens []string
	for _, m := range g.Members {
		if _, ok := adminSet[m.UserID]; ok && m.PushToken != "" {
			tokens = append(tokens, m.PushToken)
		}
	}
	h.Push.SendAsync(pushNotification(tokens, title, body, g.ID.Hex()))
}
