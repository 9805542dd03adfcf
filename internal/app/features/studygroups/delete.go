// internal/app/features/studygroups/delete.go
package studygroups

import (
	"context"
	"net/http"

	"github.com/dalemusser/studyhub/internal/app/realtime"
	groupstore "github.com/dalemusser/studyhub/internal/app/store/groups"
	messagestore "github.com/dalemusser/studyhub/internal/app/store/messages"
	"github.com/dalemusser/studyhub/internal/app/system/apierr"
	"github.com/dalemusser/studyhub/internal/app/system/jsonutil"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleDeleteGroup handles DELETE /api/study-groups/{id}.
// Deletes the group and cascades deletion of its messages.
func (h *Handler) HandleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonutil.Fail(w, apierr.Validation("invalid group id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	// Messages first: if the group delete then fails, orphaned messages are
	// worse than a re-runnable cascade.
	deletedMsgs, err := messagestore.New(h.DB).DeleteByGroup(ctx, groupID)
	if err != nil {
		jsonutil.ServerError(w, h.Log, "cascade message delete failed", err)
		return
	}

	deleted, err := groupstore.New(h.DB).Delete(ctx, groupID)
	if err != nil {
		jsonutil.ServerError(w, h.Log, "delete group failed", err)
		return
	}
	if deleted == 0 {
		jsonutil.Fail(w, apierr.NotFound("group not found"))
		return
	}

	h.Log.Info("group deleted",
		zap.String("group_id", groupID.Hex()),
		zap.Int64("messages_deleted", deletedMsgs))

	h.Hub.Publish(realtime.Event{
		Type:    realtime.EventGroupDeleted,
		GroupID: groupID.Hex(),
		Data:    map[string]any{"groupId": groupID.Hex()},
	})

	jsonutil.OK(w, map[string]any{"deletedMessages": deletedMsgs})
}
