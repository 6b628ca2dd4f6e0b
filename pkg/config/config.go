package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "furniturepos"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "FURNITUREPOS_APP_ENV"
	EnvDBDSN  = "FURNITUREPOS_DB_DSN"
	EnvDBPath = "FURNITUREPOS_DB_PATH"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FURNITUREPOS_APP_ENV" default:"development"`
	LogLevel     string `envconfig:"FURNITUREPOS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FURNITUREPOS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FURNITUREPOS_DB_DSN"`
	Driver string `envconfig:"FURNITUREPOS_DB_DRIVER" default:"sqlite"`

	// Path is the short form: a bare sqlite file that gets expanded into DSN.
	Path string `envconfig:"FURNITUREPOS_DB_PATH" default:"furniture.db"`

	// sqlite allows one writer at a time; keep the pool tiny.
	MaxOpenConns    int           `envconfig:"FURNITUREPOS_DB_MAX_OPEN_CONNS" default:"1"`
	MaxIdleConns    int           `envconfig:"FURNITUREPOS_DB_MAX_IDLE_CONNS" default:"1"`
	ConnMaxLifetime time.Duration `envconfig:"FURNITUREPOS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FURNITUREPOS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	BusyTimeout     time.Duration `envconfig:"FURNITUREPOS_DB_BUSY_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FURNITUREPOS_AUTO_MIGRATE" default:"true"`
	SeedOnBoot  bool `envconfig:"FURNITUREPOS_SEED_ON_BOOT" default:"true"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if strings.TrimSpace(db.Path) == "" {
		return fmt.Errorf("either %s or %s is required", EnvDBDSN, EnvDBPath)
	}
	db.DSN = fmt.Sprintf("file:%s?_busy_timeout=%d", db.Path, db.BusyTimeout.Milliseconds())
	return nil
}
