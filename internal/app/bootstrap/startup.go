// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/lumenlearn/lumenhub/internal/app/store/oauthstate"
	"github.com/lumenlearn/lumenhub/internal/app/system/workers"
	"go.uber.org/zap"
)

// Background workers started at boot and stopped in Shutdown.
var (
	groupRefresh *workers.GroupRefresh
	stateCleanup *workers.StateCleanup
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. LumenHub
// starts its background workers here: periodic dynamic group recomputation
// and expired OAuth state cleanup. Default dynamic groups are seeded
// per-organization through the groups API rather than at boot.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	groupRefresh = workers.NewGroupRefresh(deps.LumenHubMongoDatabase, logger, 30*time.Minute)
	groupRefresh.Start()

	stateCleanup = workers.NewStateCleanup(oauthstate.New(deps.LumenHubMongoDatabase), logger, time.Hour)
	stateCleanup.Start()

	return nil
}
