// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"github.com/lumenlearn/lumenhub/internal/app/system/indexes"
	"github.com/lumenlearn/lumenhub/internal/app/system/validators"
	"go.uber.org/zap"
)

// EnsureSchema creates the MongoDB indexes and collection validators the
// app relies on. Both are idempotent, so this runs on every startup.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := indexes.EnsureAll(ctx, deps.LumenHubMongoDatabase); err != nil {
		return err
	}
	return validators.EnsureAll(ctx, deps.LumenHubMongoDatabase)
}
