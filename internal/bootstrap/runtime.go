// Package bootstrap wires shared runtime dependencies for the cmd entrypoints.
package bootstrap

import (
	"fmt"

	"auroric/internal/cache"
	"auroric/internal/config"
	"auroric/internal/database"
	"auroric/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedOnBoot bool
}

// InitRuntime connects to the database and Redis and optionally seeds
// an empty database. The Redis client may be nil when the cache is
// unreachable; callers run degraded rather than failing.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedOnBoot && !cfg.IsProduction() {
		if _, err := seed.SeedIfEmpty(db, seed.DefaultOptions()); err != nil {
			return nil, nil, fmt.Errorf("boot seeding failed: %w", err)
		}
	}

	return db, r, nil
}
