package app

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/foodorder/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/foodorder/internal/health"
	"github.com/vladislavdragonenkov/foodorder/internal/storage/memory"
	"github.com/vladislavdragonenkov/foodorder/internal/storage/postgres"
)

const storagePingTimeout = 2 * time.Second

// runtimeDependencies - адаптеры хранилища, выбранные драйвером из конфигурации.
type runtimeDependencies struct {
	menu     domain.MenuCatalog
	orders   domain.OrderStore
	users    domain.UserDirectory
	timeline domain.TimelineRepository
	outbox   domain.OutboxRepository
	// storageChecker участвует в /healthz и /readyz.
	storageChecker healthcheck.Checker
	closeFn        func() error
}

func (d *runtimeDependencies) close(logger *log.Entry) {
	if d == nil || d.closeFn == nil {
		return
	}
	if err := d.closeFn(); err != nil {
		logger.WithError(err).Warn("failed to close storage")
	}
}

// initRuntimeDependencies создаёт адаптеры хранилища и загружает seed меню.
func initRuntimeDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*runtimeDependencies, error) {
	var deps *runtimeDependencies

	switch cfg.StorageDriver {
	case StorageDriverMemory, "":
		users := memory.NewUserDirectory()
		deps = &runtimeDependencies{
			menu:           memory.NewMenuCatalog(),
			orders:         memory.NewOrderStore(users),
			users:          users,
			timeline:       memory.NewTimelineRepository(),
			outbox:         memory.NewOutboxRepository(),
			storageChecker: healthcheck.NewSimpleChecker("storage", func() error { return nil }),
		}
	case StorageDriverPostgres:
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("postgres dsn is required for %s storage", StorageDriverPostgres)
		}
		store, err := postgres.Open(ctx, cfg.PostgresDSN, logger.WithField("layer", "storage"))
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if cfg.PostgresAutoMigrate {
			applied, err := store.MigrateUp(ctx, 0)
			if err != nil {
				_ = store.Close()
				return nil, fmt.Errorf("apply migrations: %w", err)
			}
			logger.WithField("applied", applied).Info("postgres migrations are up to date")
		}
		deps = &runtimeDependencies{
			menu:           postgres.NewMenuCatalog(store),
			orders:         postgres.NewOrderStore(store),
			users:          postgres.NewUserDirectory(store),
			timeline:       postgres.NewTimelineRepository(store),
			outbox:         postgres.NewOutboxRepository(store),
			storageChecker: healthcheck.NewPingChecker("storage", store.Ping, storagePingTimeout),
			closeFn:        store.Close,
		}
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.StorageDriver)
	}

	if cfg.MenuSeedPath != "" {
		items, err := loadMenuSeed(cfg.MenuSeedPath)
		if err == nil {
			err = seedMenu(ctx, deps.menu, items, logger)
		}
		if err != nil {
			deps.close(logger)
			return nil, err
		}
	}
	return deps, nil
}
