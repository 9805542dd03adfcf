// internal/app/features/studygroups/moderate.go
package studygroups

// Admin and creator actions on group membership. Every mutation here is a
// guarded single-document update: the store filter re-checks the state the
// handler saw, so a concurrent conflicting action makes the later request
// no-op and surface NotFound for the now-absent entry (last write wins).

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/studyhub/internal/app/policy/grouppolicy"
	"github.com/dalemusser/studyhub/internal/app/realtime"
	groupstore "github.com/dalemusser/studyhub/internal/app/store/groups"
	"github.com/dalemusser/studyhub/internal/app/system/apierr"
	"github.com/dalemusser/studyhub/internal/app/system/jsonutil"
	"github.com/dalemusser/studyhub/internal/app/system/normalize"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// loadGroup resolves the {id} URL parameter and fetches the group.
func (h *Handler) loadGroup(ctx context.Context, r *http.Request) (models.Group, error) {
	groupID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return models.Group{}, apierr.Validation("invalid group id")
	}
	g, err := groupstore.New(h.DB).GetByID(ctx, groupID)
	if err == mongo.ErrNoDocuments {
		return models.Group{}, apierr.NotFound("group not found")
	}
	if err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// HandleApproveMember handles POST /api/study-groups/{id}/approve-member.
// PENDING -> MEMBER, admin only.
func (h *Handler) HandleApproveMember(w http.ResponseWriter, r *http.Request) {
	var req memberActionRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		jsonutil.Error(w, h.Log, "decode approve member", err)
		return
	}
	req.Email = normalize.Email(req.Email)
	if missing := firstMissing(map[string]string{
		"email":       req.Email,
		"adminUserId": req.AdminUserID,
	}); missing != "" {
		jsonutil.Fail(w, apierr.Validation(missing+" is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	group, err := h.loadGroup(ctx, r)
	if err != nil {
		jsonutil.Error(w, h.Log, "load group for approve", err)
		return
	}
	if !grouppolicy.CanModerate(group, req.AdminUserID) {
		jsonutil.Fail(w, apierr.Forbidden("only group admins can approve members"))
		return
	}

	pending, ok := group.PendingByEmail(req.Email)
	if !ok {
		jsonutil.Fail(w, apierr.NotFound("no pending request for that email"))
		return
	}

	approvedAt := time.Now().UTC()
	changed, err := groupstore.New(h.DB).ApprovePending(ctx, group.ID, pending, approvedAt)
	if err != nil {
		jsonutil.ServerError(w, h.Log, "approve pending member failed", err)
		return
	}
	if !changed {
		jsonutil.Fail(w, apierr.NotFound("request was already handled"))
		return
	}

	member := models.Member{
		Email:     pending.Email,
		Name:      pending.Name,
		UserID:    pending.UserID,
		JoinedAt:  approvedAt,
		PushToken: pending.PushToken,
	}
	h.Hub.Publish(realtime.Event{
		Type:    realtime.EventMemberApproved,
		GroupID: group.ID.Hex(),
		Data:    member,
	})
	if pending.PushToken != "" {
		h.Push.SendAsync(pushNotification(
			[]string{pending.PushToken},
			"Request approved",
			"You joined "+group.Name,
			group.ID.Hex()))
	}

	jsonutil.OK(w, map[string]any{"member": member})
}

// HandleRejectMember handles POST /api/study-groups/{id}/reject-member.
// PENDING -> NONE, admin only.
func (h *Handler) HandleRejectMember(w http.ResponseWriter, r *http.Request) {
	var req memberActionRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		jsonutil.Error(w, h.Log, "decode reject member", err)
		return
	}
	req.Email = normalize.Email(req.Email)
	if missing := firstMissing(map[string]string{
		"email":       req.Email,
		"adminUserId": req.AdminUserID,
	}); missing != "" {
		jsonutil.Fail(w, apierr.Validation(missing+" is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	group, err := h.loadGroup(ctx, r)
	if err != nil {
		jsonutil.Error(w, h.Log, "load group for reject", err)
		return
	}
	if !grouppolicy.CanModerate(group, req.AdminUserID) {
		jsonutil.Fail(w, apierr.Forbidden("only group admins can reject members"))
		return
	}

	changed, err := groupstore.New(h.DB).RemovePending(ctx, group.ID, req.Email)
	if err != nil {
		jsonutil.ServerError(w, h.Log, "reject pending member failed", err)
		return
	}
	if !changed {
		jsonutil.Fail(w, apierr.NotFound("no pending request for that email"))
		return
	}

	h.Hub.Publish(realtime.Event{
		Type:    realtime.EventMemberRejected,
		GroupID: group.ID.Hex(),
		Data:    map[string]any{"email": req.Email},
	})

	jsonutil.OK(w, nil)
}

// HandleKickMember handles POST /api/study-groups/{id}/kick-member.
// MEMBER/ADMIN -> REMOVED, admin only. The creator can never be kicked;
// the check keys off the authoritative creator_id, not member order.
func (h *Handler) HandleKickMember(w http.ResponseWriter, r *http.Request) {
	var req memberActionRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		jsonutil.Error(w, h.Log, "decode kick member", err)
		return
	}
	req.Email = normalize.Email(req.Email)
	if missing := firstMissing(map[string]string{
		"email":       req.Email,
		"adminUserId": req.AdminUserID,
	}); missing != "" {
		jsonutil.Fail(w, apierr.Validation(missing+" is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	group, err := h.loadGroup(ctx, r)
	if err != nil {
		jsonutil.Error(w, h.Log, "load group for kick", err)
		return
	}
	if !grouppolicy.CanModerate(group, req.AdminUserID) {
		jsonutil.Fail(w, apierr.Forbidden("only group admins can kick members"))
		return
	}

	member, ok := group.MemberByEmail(req.Email)
	if !ok {
		jsonutil.Fail(w, apierr.NotFound("no member with that email"))
		return
	}
	if member.UserID == group.CreatorID {
		jsonutil.Fail(w, apierr.Forbidden("the creator cannot be removed"))
		return
	}

	changed, err := groupstore.New(h.DB).RemoveMember(ctx, group.ID, member.Email, member.UserID)
	if err != nil {
		jsonutil.ServerError(w, h.Log, "kick member failed", err)
		return
	}
	if !changed {
		jsonutil.Fail(w, apierr.NotFound("member was already removed"))
		return
	}

	h.Hub.Publish(realtime.Event{
		Type:    realtime.EventMemberKicked,
		GroupID: group.ID.Hex(),
		Data:    map[string]any{"email": member.Email, "userId": member.UserID},
	})

	jsonutil.OK(w, nil)
}

// HandlePromoteAdmin handles POST /api/study-groups/{id}/promote-admin.
// Creator only; capped at models.MaxAdmins.
func (h *Handler) HandlePromoteAdmin(w http.ResponseWriter, r *http.Request) {
	var req adminActionRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		jsonutil.Error(w, h.Log, "decode promote admin", err)
		return
	}
	if missing := firstMissing(map[string]string{
		"targetUserId": req.TargetUserID,
		"creatorId":    req.CreatorID,
	}); missing != "" {
		jsonutil.Fail(w, apierr.Validation(missing+" is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	group, err := h.loadGroup(ctx, r)
	if err != nil {
		jsonutil.Error(w, h.Log, "load group for promote", err)
		return
	}
	if !grouppolicy.CanManageAdmins(group, req.CreatorID) {
		jsonutil.Fail(w, apierr.Forbidden("only the creator can promote admins"))
		return
	}
	if grouppolicy.RoleOf(group, req.TargetUserID) == grouppolicy.RoleNone {
		jsonutil.Fail(w, apierr.NotFound("target user is not a member of this group"))
		return
	}
	if grouppolicy.RoleOf(group, req.TargetUserID) != grouppolicy.RoleMember {
		jsonutil.Fail(w, apierr.AlreadyAdmin("user is already an admin"))
		return
	}
	if grouppolicy.AdminSlotsLeft(group) == 0 {
		jsonutil.Fail(w, apierr.LimitExceeded("a group can have at most 4 admins"))
		return
	}

	changed, err := groupstore.New(h.DB).AddAdmin(ctx, group.ID, req.TargetUserID)
	if err != nil {
		jsonutil.ServerError(w, h.Log, "promote admin failed", err)
		return
	}
	if !changed {
		// Raced with a concurrent promote; re-read to report the right guard.
		fresh, ferr := groupstore.New(h.DB).GetByID(ctx, group.ID)
		if ferr == nil && grouppolicy.AdminSlotsLeft(fresh) == 0 {
			jsonutil.Fail(w, apierr.LimitExceeded("a group can have at most 4 admins"))
			return
		}
		jsonutil.Fail(w, apierr.AlreadyAdmin("user is already an admin"))
		return
	}

	h.Hub.Publish(realtime.Event{
		Type:    realtime.EventAdminPromoted,
		GroupID: group.ID.Hex(),
		Data:    map[string]any{"userId": req.TargetUserID},
	})

	jsonutil.OK(w, nil)
}

// HandleDemoteAdmin handles POST /api/study-groups/{id}/demote-admin.
// Creator only; the creator cannot demote themselves.
func (h *Handler) HandleDemoteAdmin(w http.ResponseWriter, r *http.Request) {
	var req adminActionRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		jsonutil.Error(w, h.Log, "decode demote admin", err)
		return
	}
	if missing := firstMissing(map[string]string{
		"targetUserId": req.TargetUserID,
		"creatorId":    req.CreatorID,
	}); missing != "" {
		jsonutil.Fail(w, apierr.Validation(missing+" is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	group, err := h.loadGroup(ctx, r)
	if err != nil {
		jsonutil.Error(w, h.Log, "load group for demote", err)
		return
	}
	if !grouppolicy.CanManageAdmins(group, req.CreatorID) {
		jsonutil.Fail(w, apierr.Forbidden("only the creator can demote admins"))
		return
	}
	if req.TargetUserID == group.CreatorID {
		jsonutil.Fail(w, apierr.Forbidden("the creator cannot be demoted"))
		return
	}
	if grouppolicy.RoleOf(group, req.TargetUserID) != grouppolicy.RoleAdmin {
		jsonutil.Fail(w, apierr.NotAdmin("user is not an admin"))
		return
	}

	changed, err := groupstore.New(h.DB).RemoveAdmin(ctx, group.ID, req.TargetUserID)
	if err != nil {
		jsonutil.ServerError(w, h.Log, "demote admin failed", err)
		return
	}
	if !changed {
		jsonutil.Fail(w, apierr.NotAdmin("user is not an admin"))
		return
	}

	h.Hub.Publish(realtime.Event{
		Type:    realtime.EventAdminDemoted,
		GroupID: group.ID.Hex(),
		Data:    map[string]any{"userId": req.TargetUserID},
	})

	jsonutil.OK(w, nil)
}
