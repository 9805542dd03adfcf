// internal/app/features/studygroups/routes.go
package studygroups

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the subrouter mounted at /api/study-groups.
//
// The {id} segment is a userID for the list endpoint and a groupID
// everywhere else, matching the wire protocol the mobile client speaks.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// CREATE / JOIN
	r.Post("/", h.HandleCreateGroup)
	r.Post("/join", h.HandleJoinGroup)

	// LIST (id = userID), DELETE (id = groupID)
	r.Get("/{id}", h.HandleListGroups)
	r.Delete("/{id}", h.HandleDeleteGroup)

	// MESSAGES
	r.Post("/{id}/messages", h.HandleSendMessage)
	r.Get("/{id}/messages", h.HandleListMessages)

	// MODERATION (admin / creator actions)
	r.Get("/{id}/pending-members", h.HandleListPending)
	r.Post("/{id}/approve-member", h.HandleApproveMember)
	r.Post("/{id}/reject-member", h.HandleRejectMember)
	r.Post("/{id}/kick-member", h.HandleKickMember)
	r.Post("/{id}/promote-admin", h.HandlePromoteAdmin)
	r.Post("/{id}/demote-admin", h.HandleDemoteAdmin)

	// REALTIME (WebSocket subscribe to the group channel)
	r.Get("/{id}/events", h.ServeEvents)

	return r
}
