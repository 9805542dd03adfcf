// internal/app/system/push/push.go

// Package push sends best-effort Expo push notifications. Delivery failures
// never fail the operation that triggered them; they are logged and
// swallowed.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultEndpoint is Expo's push API.
const DefaultEndpoint = "https://exp.host/--/api/v2/push/send"

const sendTimeout = 10 * time.Second

// Notification is one push message. To holds Expo push tokens.
type Notification struct {
	To    []string       `json:"to"`
	Title string         `json:"title"`
	Body  string         `json:"body"`
	Data  map[string]any `json:"data,omitempty"`
}

// Sender posts notifications to the Expo push endpoint.
type Sender struct {
	endpoint string
	client   *http.Client
	log      *zap.Logger
	enabled  bool
}

// NewSender builds a Sender. An empty endpoint uses DefaultEndpoint;
// enabled=false makes Send a logged no-op (useful in dev and tests).
func NewSender(endpoint string, enabled bool, log *zap.Logger) *Sender {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Sender{
		endpoint: endpoint,
		client:   &http.Client{Timeout: sendTimeout},
		log:      log,
		enabled:  enabled,
	}
}

// Send delivers a notification to the given tokens. It returns nothing:
// push delivery is best-effort and the caller must not fail on it.
func (s *Sender) Send(ctx context.Context, n Notification) {
	if !s.enabled || len(n.To) == 0 {
		return
	}

	body, err := json.Marshal(n)
	if err != nil {
		s.log.Warn("push: encode notification failed", zap.Error(err))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		s.log.Warn("push: build request failed", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Warn("push: send failed", zap.Error(err), zap.Int("tokens", len(n.To)))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		s.log.Warn("push: endpoint rejected notification",
			zap.Int("status_code", resp.StatusCode),
			zap.Int("tokens", len(n.To)))
		return
	}
	s.log.Debug("push: notification sent", zap.Int("tokens", len(n.To)))
}

// SendAsync fires Send on its own goroutine with a fresh timeout, detached
// from the request context so an HTTP response does not cancel delivery.
func (s *Sender) SendAsync(n Notification) {
	if !s.enabled || len(n.To) == 0 {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		s.Send(ctx, n)
	}()
}
