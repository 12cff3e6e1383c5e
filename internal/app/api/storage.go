package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	catalogkv "github.com/crafty-aquatics/storefront/internal/domains/catalog/adapters/kv"
	catalogmemory "github.com/crafty-aquatics/storefront/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/crafty-aquatics/storefront/internal/domains/catalog/adapters/persistence/postgres"
	catalogports "github.com/crafty-aquatics/storefront/internal/domains/catalog/ports"
	checkoutkv "github.com/crafty-aquatics/storefront/internal/domains/checkout/adapters/kv"
	checkoutmemory "github.com/crafty-aquatics/storefront/internal/domains/checkout/adapters/memory"
	checkoutpostgres "github.com/crafty-aquatics/storefront/internal/domains/checkout/adapters/persistence/postgres"
	checkoutports "github.com/crafty-aquatics/storefront/internal/domains/checkout/ports"
	orderskv "github.com/crafty-aquatics/storefront/internal/domains/orders/adapters/kv"
	ordersmemory "github.com/crafty-aquatics/storefront/internal/domains/orders/adapters/memory"
	orderspostgres "github.com/crafty-aquatics/storefront/internal/domains/orders/adapters/persistence/postgres"
	ordersports "github.com/crafty-aquatics/storefront/internal/domains/orders/ports"
	userskv "github.com/crafty-aquatics/storefront/internal/domains/users/adapters/kv"
	usersmemory "github.com/crafty-aquatics/storefront/internal/domains/users/adapters/memory"
	userspostgres "github.com/crafty-aquatics/storefront/internal/domains/users/adapters/persistence/postgres"
	usersports "github.com/crafty-aquatics/storefront/internal/domains/users/ports"
	"github.com/crafty-aquatics/storefront/internal/platform/kvstore"
	"github.com/crafty-aquatics/storefront/internal/platform/migrations"
	platformmongo "github.com/crafty-aquatics/storefront/internal/platform/mongo"
	platformpostgres "github.com/crafty-aquatics/storefront/internal/platform/postgres"
	platformsqlite "github.com/crafty-aquatics/storefront/internal/platform/sqlite"
)

// Storage is the set of repositories for one persistence backend.
type Storage struct {
	Backend string
	// Degraded is set when the configured backend could not be reached and memory is used instead.
	Degraded bool
	Reason   string

	Products catalogports.Repository
	Orders   ordersports.Repository
	Users    usersports.Repository
	Sessions usersports.SessionStore
	Carts    kvstore.Store
	// Idempotency holds checkout retry keys.
	Idempotency checkoutports.IdempotencyStore
}

// OpenStorage connects the configured backend. Any failure to reach it falls back to memory;
// the returned cleanup releases connections and is never nil.
func OpenStorage(ctx context.Context, cfg Config, logger *slog.Logger) (*Storage, func()) {
	if logger == nil {
		logger = slog.Default()
	}
	storage, cleanup, err := openBackend(ctx, cfg)
	if err == nil {
		logger.Info("persistence backend ready", slog.String("backend", storage.Backend))
		return storage, cleanup
	}
	logger.Warn("persistence backend unavailable, falling back to memory",
		slog.String("backend", cfg.Backend),
		slog.String("error", err.Error()),
	)
	storage = memoryStorage()
	storage.Degraded = true
	storage.Reason = fmt.Sprintf("%s unavailable: %v", cfg.Backend, err)
	return storage, func() {}
}

func openBackend(ctx context.Context, cfg Config) (*Storage, func(), error) {
	switch cfg.Backend {
	case BackendPostgres:
		if cfg.PostgresDSN == "" {
			return nil, nil, errors.New("POSTGRES_DSN is not set")
		}
		db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN, cfg.ConnectTimeout)
		if err != nil {
			return nil, nil, err
		}
		return relationalStorage(BackendPostgres, db, cfg)
	case BackendSQLite:
		db, err := platformsqlite.Open(ctx, cfg.SQLitePath, cfg.ConnectTimeout)
		if err != nil {
			return nil, nil, err
		}
		return relationalStorage(BackendSQLite, db, cfg)
	case BackendMongo:
		db, disconnect, err := platformmongo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.ConnectTimeout)
		if err != nil {
			return nil, nil, err
		}
		store := kvstore.NewMongoStore(db)
		return &Storage{
			Backend:  BackendMongo,
			Products: catalogkv.NewRepository(store),
			Orders:   orderskv.NewRepository(store),
			Users:    userskv.NewRepository(store),
			Sessions: userskv.NewSessionStore(store),
			Carts:    store,

			Idempotency: checkoutkv.NewIdempotencyStore(store),
		}, disconnect, nil
	default:
		return memoryStorage(), func() {}, nil
	}
}

func relationalStorage(backend string, db *gorm.DB, cfg Config) (*Storage, func(), error) {
	if err := migrations.Run(db); err != nil {
		platformpostgres.Close(db)
		return nil, nil, fmt.Errorf("migrate %s: %w", backend, err)
	}
	return &Storage{
		Backend:  backend,
		Products: catalogpostgres.NewRepository(db),
		Orders:   orderspostgres.NewRepository(db),
		Users:    userspostgres.NewRepository(db),
		Sessions: userspostgres.NewSessionStore(db, cfg.SessionTTL),
		Carts:    kvstore.NewGormStore(db),

		Idempotency: checkoutpostgres.NewIdempotencyStore(db),
	}, func() { platformpostgres.Close(db) }, nil
}

func memoryStorage() *Storage {
	return &Storage{
		Backend:  BackendMemory,
		Products: catalogmemory.NewRepository(),
		Orders:   ordersmemory.NewRepository(),
		Users:    usersmemory.NewRepository(),
		Sessions: usersmemory.NewSessionStore(),
		Carts:    kvstore.NewMemory(),

		Idempotency: checkoutmemory.NewIdempotencyStore(),
	}
}
