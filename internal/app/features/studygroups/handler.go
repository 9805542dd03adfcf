// internal/app/features/studygroups/handler.go
package studygroups

import (
	"github.com/dalemusser/studyhub/internal/app/realtime"
	"github.com/dalemusser/studyhub/internal/app/system/push"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the study groups feature.
// All route handlers (create, join, moderation, messages, events) share the
// Mongo database, the realtime hub, the push sender, and the logger.
type Handler struct {
	DB   *mongo.Database
	Hub  *realtime.Hub
	Push *push.Sender
	Log  *zap.Logger

	// sanitize strips HTML from chat message text before it is persisted.
	sanitize *bluemonday.Policy
}

// NewHandler constructs a study groups Handler. It is called from the
// bootstrap BuildHandler function, where the application's dependencies
// are already initialized.
func NewHandler(db *mongo.Database, hub *realtime.Hub, sender *push.Sender, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Hub:      hub,
		Push:     sender,
		Log:      logger,
		sanitize: bluemonday.StrictPolicy(),
	}
}
