// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Backend selects where projects are persisted.
type Backend string

const (
	BackendHTTP     Backend = "http"
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
	BackendMySQL    Backend = "mysql"
	BackendMongo    Backend = "mongo"
)

type Config struct {
	Backend Backend `env:"RESUMECANVAS_BACKEND" envDefault:"sqlite"`

	// HTTP backend. GatewayTokenKey names a keychain entry holding the
	// token and takes precedence over GatewayToken. UploadThumbnails hosts
	// thumbnails through the image endpoint instead of inlining them.
	GatewayURL       string `env:"RESUMECANVAS_GATEWAY_URL"`
	GatewayToken     string `env:"RESUMECANVAS_GATEWAY_TOKEN"`
	GatewayTokenKey  string `env:"RESUMECANVAS_GATEWAY_TOKEN_KEY"`
	UploadThumbnails bool   `env:"RESUMECANVAS_UPLOAD_THUMBNAILS" envDefault:"false"`

	// SQL backends. For sqlite the DSN is a file path. For postgres and
	// mysql, setting DBHost builds the DSN from the DB* fields instead.
	DSN        string `env:"RESUMECANVAS_DSN" envDefault:"resumecanvas.db"`
	DBHost     string `env:"RESUMECANVAS_DB_HOST"`
	DBPort     int    `env:"RESUMECANVAS_DB_PORT"`
	DBUser     string `env:"RESUMECANVAS_DB_USER"`
	DBPassword string `env:"RESUMECANVAS_DB_PASSWORD"`
	DBName     string `env:"RESUMECANVAS_DB_NAME"`
	DBSSLMode  string `env:"RESUMECANVAS_DB_SSLMODE"`

	MongoURI      string `env:"RESUMECANVAS_MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"RESUMECANVAS_MONGO_DATABASE"`

	AutosaveWindow  time.Duration `env:"RESUMECANVAS_AUTOSAVE_WINDOW" envDefault:"5s"`
	MaxPayloadBytes int           `env:"RESUMECANVAS_MAX_PAYLOAD_BYTES" envDefault:"1048576"`
	ContentBudget   int           `env:"RESUMECANVAS_CONTENT_BUDGET" envDefault:"500"`
	MaxRevisions    int           `env:"RESUMECANVAS_MAX_REVISIONS" envDefault:"40"`

	CanvasWidth  float64 `env:"RESUMECANVAS_CANVAS_WIDTH" envDefault:"794"`
	CanvasHeight float64 `env:"RESUMECANVAS_CANVAS_HEIGHT" envDefault:"1123"`

	FontPath string `env:"RESUMECANVAS_FONT"`
	LogLevel string `env:"RESUMECANVAS_LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Backend {
	case BackendHTTP:
		if c.GatewayURL == "" {
			return fmt.Errorf("config: RESUMECANVAS_GATEWAY_URL is required for the http backend")
		}
	case BackendSQLite, BackendPostgres, BackendMySQL:
		if c.DSN == "" && (c.Backend == BackendSQLite || c.DBHost == "") {
			return fmt.Errorf("config: RESUMECANVAS_DSN is required for the %s backend", c.Backend)
		}
	case BackendMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("config: RESUMECANVAS_MONGO_URI is required for the mongo backend")
		}
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}
	if c.CanvasWidth <= 0 || c.CanvasHeight <= 0 {
		return fmt.Errorf("config: canvas size must be positive, got %vx%v", c.CanvasWidth, c.CanvasHeight)
	}
	if c.AutosaveWindow <= 0 {
		return fmt.Errorf("config: RESUMECANVAS_AUTOSAVE_WINDOW must be positive, got %v", c.AutosaveWindow)
	}
	for _, v := range []struct {
		name string
		n    int
	}{
		{"RESUMECANVAS_MAX_PAYLOAD_BYTES", c.MaxPayloadBytes},
		{"RESUMECANVAS_CONTENT_BUDGET", c.ContentBudget},
		{"RESUMECANVAS_MAX_REVISIONS", c.MaxRevisions},
	} {
		if v.n <= 0 {
			return fmt.Errorf("config: %s must be positive, got %d", v.name, v.n)
		}
	}
	return nil
}

// Level maps LogLevel to a slog level; unknown values mean info.
func (c Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
