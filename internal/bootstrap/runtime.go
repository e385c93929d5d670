// Package bootstrap wires the configured document store, database and Redis
// client for the commands.
package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"vc7day/internal/cache"
	"vc7day/internal/config"
	"vc7day/internal/database"
	"vc7day/internal/middleware"
	"vc7day/internal/repository"
	"vc7day/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// Seed builds the document written to an empty store. Defaults to
	// seed.DefaultDocument.
	Seed repository.Seeder
	// SkipCache leaves the store undecorated even when CACHE_TTL_SECONDS > 0.
	SkipCache bool
}

// Runtime holds the initialized dependencies. DB is nil for the file store
// and Redis is nil when REDIS_URL is unset or unreachable.
type Runtime struct {
	DB    *gorm.DB
	Redis *redis.Client
	Store repository.DocumentRepository
}

// InitRuntime connects Redis and the configured document store.
func InitRuntime(cfg *config.Config, opts Options) (*Runtime, error) {
	seeder := opts.Seed
	if seeder == nil {
		seeder = seed.DefaultDocument
	}

	rt := &Runtime{Redis: cache.InitRedis(cfg.RedisURL)}

	switch cfg.StoreDriver {
	case config.StoreFile, "":
		rt.Store = repository.NewFileDocumentRepository(cfg.DataFile, seeder)
	case config.StoreSQLite, config.StorePostgres:
		db, err := database.Connect(cfg)
		if err != nil {
			rt.closeRedis()
			return nil, fmt.Errorf("database connection failed: %w", err)
		}
		rt.DB = db
		rt.Store = repository.NewGormDocumentRepository(db, seeder)
	default:
		rt.closeRedis()
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}

	if cfg.CacheTTLSeconds > 0 && !opts.SkipCache {
		ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
		rt.Store = repository.NewCachedDocumentRepository(rt.Store, cache.NewTiered(rt.Redis, ttl))
	}

	middleware.Logger.Info("Document store ready",
		slog.String("driver", cfg.StoreDriver),
		slog.Bool("redis", rt.Redis != nil),
		slog.Int("cache_ttl_seconds", cfg.CacheTTLSeconds),
	)
	return rt, nil
}

// Close releases the database and Redis connections.
func (r *Runtime) Close() error {
	var errs []error
	if r.DB != nil {
		if sqlDB, err := r.DB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	errs = append(errs, r.closeRedis())
	return errors.Join(errs...)
}

func (r *Runtime) closeRedis() error {
	if r.Redis == nil {
		return nil
	}
	err := r.Redis.Close()
	r.Redis = nil
	return err
}
