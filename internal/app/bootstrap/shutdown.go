// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown stops background workers and cleanly tears down DB
// connections and other resources.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if groupRefresh != nil {
		groupRefresh.Stop()
	}
	if stateCleanup != nil {
		stateCleanup.Stop()
	}

	if deps.LumenHubMongoClient != nil {
		logger.Info("disconnecting LumenHub MongoDB client")
		if err := deps.LumenHubMongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
