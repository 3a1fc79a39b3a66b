package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/ShipIM/database-refactoring/internal/api"
	"github.com/ShipIM/database-refactoring/internal/config"
	"github.com/ShipIM/database-refactoring/internal/platform/cache"
	"github.com/ShipIM/database-refactoring/internal/platform/memory"
	"github.com/ShipIM/database-refactoring/internal/platform/metrics"
	"github.com/ShipIM/database-refactoring/internal/platform/postgres"
	"github.com/ShipIM/database-refactoring/internal/service"
	"github.com/ShipIM/database-refactoring/internal/service/auth"
	"github.com/ShipIM/database-refactoring/internal/store"
)

// application holds the wired dependencies of the running server.
type application struct {
	config  *config.Config
	logger  *slog.Logger
	db      *sqlx.DB // nil for the memory driver
	metrics *metrics.Recorder
	handler http.Handler
}

// backend is the set of stores one database driver provides.
type backend struct {
	users   store.UserStore
	catalog service.CatalogStores
}

// newApplication opens the configured backend and wires stores, services and handlers.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		metrics: metrics.NewRecorder(),
	}

	stores, err := app.openBackend(ctx)
	if err != nil {
		return nil, err
	}

	if ttl := cfg.Cache.CategoryTTL(); ttl > 0 {
		stores.catalog.Items = cache.NewCategoryCache(stores.catalog.Items, ttl, logger)
	}

	identity, err := service.NewIdentityService(stores.users, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create identity service: %w", err)
	}

	catalog, err := service.NewCatalogService(stores.catalog, identity, app.metrics, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create catalog service: %w", err)
	}

	tokens, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	accounts, err := auth.NewService(auth.ServiceDeps{
		Users:       identity,
		Hasher:      auth.NewBcryptHasher(cfg.Auth.BCryptCost),
		Credentials: auth.NewCredentialVerifier(identity, auth.NewBcryptVerifier()),
		Tokens:      tokens,
		Logins:      app.metrics,
	}, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create auth service: %w", err)
	}

	app.handler = api.NewRouter(api.RouterDeps{
		Accounts:       accounts,
		Catalog:        catalog,
		Tokens:         tokens,
		Metrics:        app.metrics,
		MetricsHandler: app.metrics.Handler(),
		Logger:         logger,
	})
	return app, nil
}

// openBackend returns the stores of the configured driver, opening and migrating
// the database when the driver is postgres.
func (app *application) openBackend(ctx context.Context) (backend, error) {
	switch app.config.Database.Driver {
	case config.DriverMemory:
		app.logger.Warn("using the in-memory store; data is lost on restart")
		db := memory.NewDB()
		return backend{
			users: db.Users(),
			catalog: service.CatalogStores{
				Items:        db.Items(),
				Favorites:    db.Favorites(),
				Lots:         db.Lots(),
				Dependencies: db.Dependencies(),
				PriceHistory: db.PriceHistory(),
			},
		}, nil

	case config.DriverPostgres:
		db, err := setupAppDatabase(ctx, app.config.Database, app.logger)
		if err != nil {
			return backend{}, err
		}
		app.db = db

		if app.config.Database.MigrateOnStart {
			if err := postgres.Migrate(ctx, db.DB, "up", app.logger); err != nil {
				app.cleanup()
				return backend{}, fmt.Errorf("failed to apply migrations: %w", err)
			}
		}

		return backend{
			users: postgres.NewPostgresUserStore(db, app.logger),
			catalog: service.CatalogStores{
				Items:        postgres.NewPostgresItemStore(db, app.logger),
				Favorites:    postgres.NewPostgresFavoriteStore(db, app.logger),
				Lots:         postgres.NewPostgresLotStore(db, app.logger),
				Dependencies: postgres.NewPostgresDependencyStore(db, app.logger),
				PriceHistory: postgres.NewPostgresPriceHistoryStore(db, app.logger),
			},
		}, nil

	default:
		return backend{}, fmt.Errorf("unsupported database driver: %s", app.config.Database.Driver)
	}
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db == nil {
		return
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database connection", "error", err)
		return
	}
	app.db = nil
	app.logger.Info("database connection closed")
}
