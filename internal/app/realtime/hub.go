// internal/app/realtime/hub.go

// Package realtime fans membership and chat events out to connected
// WebSocket clients. There is one logical channel per group ("group-{id}");
// a client subscribes to exactly one channel for the lifetime of its
// connection. Delivery is at-least-once while connected, with no replay:
// a client that reconnects re-fetches full group state over the REST API.
package realtime

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Event types published to group channels.
const (
	EventGroupCreated   = "group-created"
	EventPendingRequest = "pending-request"
	EventMemberApproved = "member-approved"
	EventMemberRejected = "member-rejected"
	EventMemberKicked   = "member-kicked"
	EventAdminPromoted  = "admin-promoted"
	EventAdminDemoted   = "admin-demoted"
	EventNewMessage     = "new-message"
	EventGroupDeleted   = "group-deleted"
)

// Event is one fan-out message. Data carries the event payload (a group,
// a message, or a membership change summary) and is JSON-encoded on the
// way out to each client.
type Event struct {
	Type    string `json:"type"`
	GroupID string `json:"groupId"`
	Data    any    `json:"data,omitempty"`
}

// Channel returns the logical channel name for a group.
func Channel(groupID string) string { return "group-" + groupID }

type subscription struct {
	client  *Client
	channel string
}

// Hub owns the channel -> clients index and the broadcast loop.
type Hub struct {
	log *zap.Logger

	register   chan subscription
	unregister chan *Client
	publish    chan Event

	mu   sync.RWMutex
	subs map[string]map[*Client]struct{}
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		log:        log,
		register:   make(chan subscription),
		unregister: make(chan *Client),
		publish:    make(chan Event, 256),
		subs:       make(map[string]map[*Client]struct{}),
	}
}

// Run processes subscriptions and broadcasts until ctx is canceled, then
// closes every connected client so the process can shut down cleanly.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case sub := <-h.register:
			h.mu.Lock()
			clients, ok := h.subs[sub.channel]
			if !ok {
				clients = make(map[*Client]struct{})
				h.subs[sub.channel] = clients
			}
			clients[sub.client] = struct{}{}
			n := len(clients)
			h.mu.Unlock()
			h.log.Info("realtime client subscribed",
				zap.String("channel", sub.channel),
				zap.String("client_id", sub.client.id),
				zap.Int("channel_clients", n))

		case c := <-h.unregister:
			h.drop(c)

		case ev := <-h.publish:
			h.broadcast(ev)
		}
	}
}

// Subscribe attaches a client to its group channel and starts its pumps.
func (h *Hub) Subscribe(c *Client) {
	h.register <- subscription{client: c, channel: Channel(c.groupID)}
	c.start()
}

// Publish queues an event for delivery to the group's channel. Publishing
// never blocks a request handler: if the hub's queue is full the event is
// dropped and logged, consistent with the no-replay delivery contract.
func (h *Hub) Publish(ev Event) {
	select {
	case h.publish <- ev:
	default:
		h.log.Warn("realtime publish queue full, dropping event",
			zap.String("type", ev.Type),
			zap.String("group_id", ev.GroupID))
	}
}

// ClientCount returns the number of clients subscribed to a group channel.
func (h *Hub) ClientCount(groupID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[Channel(groupID)])
}

func (h *Hub) broadcast(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.subs[Channel(ev.GroupID)]
	var stale []*Client
	for c := range clients {
		select {
		case c.send <- ev:
		default:
			// Slow consumer: its buffer is full. Drop the client rather
			// than block the channel for everyone else.
			stale = append(stale, c)
		}
	}
	for _, c := range stale {
		h.removeLocked(c)
		h.log.Warn("dropped slow realtime client",
			zap.String("client_id", c.id),
			zap.String("group_id", c.groupID))
	}
}

func (h *Hub) drop(c *Client) {
	h.mu.Lock()
	h.removeLocked(c)
	h.mu.Unlock()
	h.log.Info("realtime client disconnected",
		zap.String("channel", Channel(c.groupID)),
		zap.String("client_id", c.id))
}

// removeLocked detaches a client and closes its send channel. Caller holds mu.
func (h *Hub) removeLocked(c *Client) {
	clients, ok := h.subs[Channel(c.groupID)]
	if !ok {
		return
	}
	if _, ok := clients[c]; !ok {
		return
	}
	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(h.subs, Channel(c.groupID))
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for ch, clients := range h.subs {
		for c := range clients {
			close(c.send)
			n++
		}
		delete(h.subs, ch)
	}
	h.log.Info("realtime hub stopped", zap.Int("clients_closed", n))
}
