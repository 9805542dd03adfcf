// internal/app/features/studygroups/notify.go
package studygroups

import (
	"github.com/dalemusser/studyhub/internal/app/system/push"
	"github.com/dalemusser/studyhub/internal/domain/models"
)

// pushNotification builds the Expo notification payload used by this
// feature. The group ID rides along in data so the client can deep-link.
func pushNotification(tokens []string, title, body, groupID string) push.Notification {
	return push.Notification{
		To:    tokens,
		Title: title,
		Body:  body,
		Data:  map[string]any{"groupId": groupID},
	}
}

// notifyMembersExcept pushes to every member except the one with the given
// email (typically the sender of the action). Best-effort only.
func (h *Handler) notifyMembersExcept(g models.Group, exceptEmail, title, body string) {
	var tokens []string
	for _, m := range g.Members {
		if m.Email == exceptEmail || m.PushToken == "" {
			continue
		}
		tokens = append(tokens, m.PushToken)
	}
	h.Push.SendAsync(pushNotification(tokens, title, body, g.ID.Hex()))
}
