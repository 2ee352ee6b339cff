// Package bootstrap wires shared runtime dependencies for the command
// binaries.
package bootstrap

import (
	"context"
	"fmt"

	"boardswap/internal/cache"
	"boardswap/internal/config"
	"boardswap/internal/database"
	"boardswap/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedDemoData populates the database with generated profiles and
	// listings. Development convenience only.
	SeedDemoData bool
	DemoUsers    int
	DemoListings int
}

// InitRuntime connects to the database and Redis and optionally seeds demo
// data. The Redis client may be nil when the cache is unreachable; callers
// degrade to database reads.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedDemoData {
		users, listings := opts.DemoUsers, opts.DemoListings
		if users <= 0 {
			users = 10
		}
		if listings <= 0 {
			listings = 40
		}
		s := seed.NewSeeder(db, seed.Options{})
		if err := s.Populate(context.Background(), users, listings); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return db, r, nil
}
