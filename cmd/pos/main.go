package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/fanlingworks/furniture-pos/internal/cart"
	"github.com/fanlingworks/furniture-pos/internal/catalog"
	"github.com/fanlingworks/furniture-pos/internal/checkout"
	"github.com/fanlingworks/furniture-pos/internal/seed"
	"github.com/fanlingworks/furniture-pos/internal/terminal"
	"github.com/fanlingworks/furniture-pos/pkg/config"
	"github.com/fanlingworks/furniture-pos/pkg/db"
	"github.com/fanlingworks/furniture-pos/pkg/logger"
	"github.com/fanlingworks/furniture-pos/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "pos"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "pos",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRun(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run migrations", err)
		os.Exit(1)
	}

	catalogRepo := catalog.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())

	catalogService, err := catalog.NewService(catalogRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}
	cartService, err := cart.NewService(cartRepo, catalogRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}
	checkoutService, err := checkout.NewService(dbClient, cartRepo, catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	if cfg.FeatureFlags.SeedOnBoot {
		seeds, err := seed.Products()
		if err != nil {
			logg.Error(context.Background(), "failed to load seed catalog", err)
			os.Exit(1)
		}
		inserted, err := catalogService.Bootstrap(context.Background(), seeds)
		if err != nil {
			logg.Error(context.Background(), "failed to seed catalog", err)
			os.Exit(1)
		}
		if inserted > 0 {
			logg.Info(logg.WithField(context.Background(), "inserted", inserted), "catalog seeded")
		}
	}

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"db":  cfg.DB.Path,
	})
	logg.Info(ctx, "starting pos terminal")

	term, err := terminal.New(terminal.Options{
		Input:    os.Stdin,
		Output:   os.Stdout,
		Catalog:  catalogService,
		Cart:     cartService,
		Checkout: checkoutService,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create terminal", err)
		os.Exit(1)
	}

	if err := term.Run(ctx); err != nil {
		logg.Error(ctx, "pos terminal stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "pos terminal closed")
}
