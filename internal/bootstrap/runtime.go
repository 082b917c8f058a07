// Package bootstrap wires the database, cache and schema for the commands.
package bootstrap

import (
	"context"
	"fmt"
	"log"
	"strings"

	"marketplace/internal/cache"
	"marketplace/internal/config"
	"marketplace/internal/database"
	"marketplace/internal/models"
	"marketplace/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	ApplySchema bool
}

// InitRuntime connects to DB and Redis, applies the schema and optionally
// seeds an empty development database.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	if opts.ApplySchema {
		if err := database.ApplySchema(ctx, db, cfg); err != nil {
			return nil, nil, fmt.Errorf("schema apply failed: %w", err)
		}
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if err := ensureDevSeed(ctx, cfg, db); err != nil {
		return nil, nil, fmt.Errorf("failed to seed development data: %w", err)
	}

	return db, r, nil
}

// ensureDevSeed applies DEV_SEED_PRESET once, on an empty development database.
func ensureDevSeed(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	preset := strings.TrimSpace(cfg.DevSeedPreset)
	if preset == "" || !strings.EqualFold(cfg.Env, "development") {
		return nil
	}

	var users int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&users).Error; err != nil {
		return err
	}
	if users > 0 {
		return nil
	}

	s, err := seed.NewSeeder(db, seed.Options{})
	if err != nil {
		return err
	}
	report, err := s.ApplyPreset(ctx, preset)
	if err != nil {
		return err
	}

	log.Printf("development seed %q applied: %d users, %d products (password: %s)",
		preset, report.Users, report.Products, seed.DefaultPassword)
	return nil
}
