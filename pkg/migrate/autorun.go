package migrate

import (
	"context"
	"fmt"

	"github.com/fanlingworks/furniture-pos/pkg/config"
	"github.com/fanlingworks/furniture-pos/pkg/db"
	"github.com/fanlingworks/furniture-pos/pkg/logger"
)

// MaybeRun executes migrations automatically when the auto-migrate feature
// flag is enabled. The POS terminal owns its local sqlite file, so unlike a
// shared server database this is safe to run on every boot.
func MaybeRun(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dir": MigrationsDir})
	logg.Info(ctx, "running Goose migrations (auto-run)")

	if err := Run(ctx, sqlDB, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "Goose migrations completed")
	return nil
}
