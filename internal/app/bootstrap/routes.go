// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	healthfeature "github.com/dalemusser/studyhub/internal/app/features/health"
	studygroupsfeature "github.com/dalemusser/studyhub/internal/app/features/studygroups"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// StudyHub mounts the health check endpoint and the study-group JSON API.
// The realtime hub and push sender are created in Startup and handed to
// the study-group handler here.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.StudyHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Study group API: groups, membership, chat, realtime events
	groupsHandler := studygroupsfeature.NewHandler(deps.StudyHubMongoDatabase, eventHub, pushSender, logger)
	r.Mount("/api/study-groups", studygroupsfeature.Routes(groupsHandler))

	return r, nil
}
