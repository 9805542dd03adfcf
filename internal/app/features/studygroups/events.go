// internal/app/features/studygroups/events.go
package studygroups

import (
	"context"
	"net/http"

	"github.com/dalemusser/studyhub/internal/app/realtime"
	"github.com/dalemusser/studyhub/internal/app/system/jsonutil"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// upgrader accepts any origin: clients are native mobile apps, not
// browsers, so the Origin header carries no trust signal here.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeEvents handles GET /api/study-groups/{id}/events.
//
// Upgrades the connection and subscribes it to the group's channel. The
// client receives every event published for the group while connected;
// there is no replay of missed events, so clients re-fetch group state
// after a reconnect.
func (h *Handler) ServeEvents(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	group, err := h.loadGroup(ctx, r)
	if err != nil {
		jsonutil.Error(w, h.Log, "load group for events", err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		h.Log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := realtime.NewClient(h.Hub, conn, group.ID.Hex(), h.Log)
	h.Hub.Subscribe(client)
}
