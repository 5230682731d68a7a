// Package bootstrap wires shared runtime dependencies for the binaries.
package bootstrap

import (
	"fmt"

	"trellis/internal/cache"
	"trellis/internal/config"
	"trellis/internal/database"
	"trellis/internal/middleware"
	"trellis/internal/models"
	"trellis/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedDemoData populates an empty development database with demo
	// users and journal data.
	SeedDemoData bool
}

// InitRuntime connects to the database and Redis, configures the auth
// middleware, and optionally seeds demo data. The Redis client may be nil
// if the cache is unreachable; the app degrades gracefully without it.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	middleware.InitMiddleware(cfg, r)

	if opts.SeedDemoData && cfg.Env == "development" {
		if err := seedIfEmpty(db); err != nil {
			return nil, nil, fmt.Errorf("demo data seeding failed: %w", err)
		}
	}

	return db, r, nil
}

// seedIfEmpty only seeds when no users exist, so restarting a dev server
// never duplicates demo data.
func seedIfEmpty(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return seed.Run(db, seed.Options{NumUsers: 2, EntriesPerUser: 10})
}
