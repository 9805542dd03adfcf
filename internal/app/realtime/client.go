// internal/app/realtime/client.go
package realtime

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024

	// sendBuffer bounds per-client queued events; a client that falls this
	// far behind is dropped by the hub.
	sendBuffer = 64
)

// Client pairs one WebSocket connection with one group channel.
type Client struct {
	id      string
	groupID string
	hub     *Hub
	conn    *websocket.Conn
	send    chan Event
	log     *zap.Logger
}

// NewClient wraps an upgraded connection for the given group.
func NewClient(hub *Hub, conn *websocket.Conn, groupID string, log *zap.Logger) *Client {
	return &Client{
		id:      uuid.NewString(),
		groupID: groupID,
		hub:     hub,
		conn:    conn,
		send:    make(chan Event, sendBuffer),
		log:     log,
	}
}

// ID returns the client's identifier, used in logs.
func (c *Client) ID() string { return c.id }

func (c *Client) start() {
	go c.writePump()
	go c.readPump()
}

// readPump drains the connection so close frames and pong responses are
// processed. Clients do not send application data on this socket; anything
// they do send is discarded.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.Warn("set read deadline failed", zap.Error(err))
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.log.Warn("unexpected websocket close", zap.Error(err))
			}
			return
		}
	}
}

// writePump delivers hub events to the connection and keeps it alive with
// periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				// Hub dropped us or is shutting down.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(ev); err != nil {
				c.log.Warn("websocket write failed", zap.Error(err))
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
