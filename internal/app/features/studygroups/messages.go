// internal/app/features/studygroups/messages.go
package studygroups

import (
	"context"
	"net/http"

	"github.com/dalemusser/studyhub/internal/app/realtime"
	messagestore "github.com/dalemusser/studyhub/internal/app/store/messages"
	"github.com/dalemusser/studyhub/internal/app/system/apierr"
	"github.com/dalemusser/studyhub/internal/app/system/jsonutil"
	"github.com/dalemusser/studyhub/internal/app/system/normalize"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"github.com/dalemusser/studyhub/internal/domain/models"
)

// HandleSendMessage handles POST /api/study-groups/{id}/messages.
//
// Appends to the group's message log, fans the message out on the group
// channel, and pushes a best-effort notification to the other members.
// Push failure never fails the send.
func (h *Handler) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		jsonutil.Error(w, h.Log, "decode send message", err)
		return
	}

	req.SenderEmail = normalize.Email(req.SenderEmail)
	req.SenderName = normalize.Name(req.SenderName)
	// Chat text is rendered by untrusted mobile clients; strip any HTML.
	req.Message = normalize.QueryParam(h.sanitize.Sanitize(req.Message))

	if missing := firstMissing(map[string]string{
		"senderEmail": req.SenderEmail,
		"message":     req.Message,
	}); missing != "" {
		jsonutil.Fail(w, apierr.Validation(missing+" is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	group, err := h.loadGroup(ctx, r)
	if err != nil {
		jsonutil.Error(w, h.Log, "load group for send message", err)
		return
	}

	msg, err := messagestore.New(h.DB).Append(ctx, models.GroupMessage{
		GroupID:     group.ID,
		SenderEmail: req.SenderEmail,
		SenderName:  req.SenderName,
		Message:     req.Message,
		Attachments: req.Attachments,
	})
	if err != nil {
		jsonutil.ServerError(w, h.Log, "append message failed", err)
		return
	}

	h.Hub.Publish(realtime.Event{
		Type:    realtime.EventNewMessage,
		GroupID: group.ID.Hex(),
		Data:    msg,
	})
	h.notifyMembersExcept(group, req.SenderEmail, group.Name, req.SenderName+": "+req.Message)

	jsonutil.OK(w, map[string]any{"message": msg})
}

// HandleListMessages handles GET /api/study-groups/{id}/messages.
// Returns the group's messages ascending by creation time.
func (h *Handler) HandleListMessages(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	group, err := h.loadGroup(ctx, r)
	if err != nil {
		jsonutil.Error(w, h.Log, "load group for list messages", err)
		return
	}

	msgs, err := messagestore.New(h.DB).ListByGroup(ctx, group.ID)
	if err != nil {
		jsonutil.ServerError(w, h.Log, "list messages failed", err)
		return
	}
	if msgs == nil {
		msgs = []models.GroupMessage{}
	}

	jsonutil.OK(w, map[string]any{"messages": msgs})
}
