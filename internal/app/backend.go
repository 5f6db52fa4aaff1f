package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"resumecanvas/internal/config"
	"resumecanvas/internal/domain"
	"resumecanvas/internal/gateway"
	"resumecanvas/internal/secret"
	"resumecanvas/internal/storage"
)

// Backend is the persistence side of a session.
type Backend struct {
	Gateway domain.ProjectGateway
	// Uploader is set only for the HTTP backend.
	Uploader domain.ImageUploader

	close func(context.Context) error
}

func (b *Backend) Close(ctx context.Context) error {
	if b.close == nil {
		return nil
	}
	return b.close(ctx)
}

// OpenBackend connects to the project store cfg selects.
func OpenBackend(ctx context.Context, cfg config.Config, log *slog.Logger) (*Backend, error) {
	switch cfg.Backend {
	case config.BackendHTTP:
		var tokens gateway.TokenSource = gateway.StaticToken(cfg.GatewayToken)
		if cfg.GatewayTokenKey != "" {
			tokens = secret.TokenSource{Store: secret.NewKeychainStore(), Key: cfg.GatewayTokenKey}
		}
		c, err := gateway.New(cfg.GatewayURL, tokens, gateway.WithLogger(log))
		if err != nil {
			return nil, fmt.Errorf("open gateway: %w", err)
		}
		return &Backend{Gateway: c, Uploader: c}, nil

	case config.BackendSQLite, config.BackendPostgres, config.BackendMySQL:
		db, err := storage.Open(storage.Driver(cfg.Backend), sqlDSN(cfg))
		if err != nil {
			return nil, fmt.Errorf("open %s store: %w", cfg.Backend, err)
		}
		store := storage.NewProjectStore(db)
		store.SetMaxRevisions(cfg.MaxRevisions)
		return &Backend{
			Gateway: store,
			close:   func(context.Context) error { return db.Close() },
		}, nil

	case config.BackendMongo:
		store, err := storage.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return &Backend{Gateway: store, close: store.Close}, nil
	}
	return nil, errors.New("open backend: unknown backend " + string(cfg.Backend))
}

// sqlDSN returns cfg.DSN, or a DSN built from the DB* fields when a server
// host is configured for postgres or mysql.
func sqlDSN(cfg config.Config) string {
	if cfg.DBHost == "" {
		return cfg.DSN
	}
	p := storage.ConnParams{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Database: cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	}
	switch cfg.Backend {
	case config.BackendPostgres:
		return storage.PostgresDSN(p)
	case config.BackendMySQL:
		return storage.MySQLDSN(p)
	}
	return cfg.DSN
}
