// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/studyhub/internal/app/realtime"
	groupstore "github.com/dalemusser/studyhub/internal/app/store/groups"
	"github.com/dalemusser/studyhub/internal/app/system/push"
	"github.com/dalemusser/studyhub/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Long-lived components created during Startup and torn down in Shutdown.
// BuildHandler wires them into the feature handlers.
var (
	eventHub       *realtime.Hub
	hubCancel      context.CancelFunc
	pushSender     *push.Sender
	pendingCleanup *workers.PendingCleanup
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It is the
// place to start background components that outlive individual requests:
// the realtime event hub and the pending-membership cleanup worker.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	hubCtx, cancel := context.WithCancel(context.Background())
	hubCancel = cancel

	eventHub = realtime.NewHub(logger)
	go eventHub.Run(hubCtx)

	pushSender = push.NewSender(appCfg.ExpoPushURL, appCfg.PushEnabled, logger)

	groups := groupstore.New(deps.StudyHubMongoDatabase)
	pendingCleanup = workers.NewPendingCleanup(groups, logger, appCfg.PendingCleanupInterval, appCfg.PendingExpiry)
	pendingCleanup.Start()

	logger.Info("background components started",
		zap.Bool("push_enabled", appCfg.PushEnabled),
		zap.Duration("pending_expiry", appCfg.PendingExpiry))
	return nil
}
