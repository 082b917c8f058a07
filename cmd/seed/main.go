// Command main runs the database seeder for the marketplace.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"marketplace/internal/cache"
	"marketplace/internal/config"
	"marketplace/internal/database"
	"marketplace/internal/seed"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

func run() error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: go run ./cmd/seed [flags] [seed|reset|clear-purchases]")
		fs.PrintDefaults()
	}
	numUsers := fs.Int("users", 10, "Number of users to create")
	numProducts := fs.Int("products", 50, "Number of random products to create")
	numCarts := fs.Int("carts", 5, "Number of users that get a filled cart")
	numPurchases := fs.Int("purchases", 10, "Number of past purchases to create")
	shouldClean := fs.Bool("clean", false, "Delete all marketplace data before seeding")
	preset := fs.String("preset", "", "Apply a bundled preset (minimal, demo, load); overrides counts")
	randSeed := fs.Int64("rand-seed", 0, "Seed for reproducible fake data")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	action := "seed"
	if fs.NArg() > 0 {
		action = fs.Arg(0)
	}

	log.Println("🌱 Marketplace Seeder")
	log.Println("=====================")

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() { _ = database.Close() }()

	// Cached catalog pages must not outlive a reset.
	cache.InitRedis(cfg.RedisURL)
	defer func() { _ = cache.Close() }()

	ctx := context.Background()
	s, err := seed.NewSeeder(db, seed.Options{RandSeed: *randSeed})
	if err != nil {
		return err
	}

	switch action {
	case "reset":
		_, _, err := s.Reset(ctx)
		return err
	case "clear-purchases":
		_, err := s.ClearPurchases(ctx)
		return err
	case "seed":
	default:
		fs.Usage()
		return fmt.Errorf("unknown action %q", action)
	}

	if *shouldClean {
		if err := s.ClearAll(ctx); err != nil {
			return fmt.Errorf("cleanup failed: %w", err)
		}
	}

	var report *seed.Report
	if *preset != "" {
		log.Printf("Applying preset: %s (ignoring count flags)", *preset)
		report, err = s.ApplyPreset(ctx, *preset)
	} else {
		log.Printf("Target: %d users, %d products, %d carts, %d purchases",
			*numUsers, *numProducts, *numCarts, *numPurchases)
		report, err = s.Seed(ctx, seed.Preset{
			Users:          *numUsers,
			RandomProducts: *numProducts,
			Carts:          *numCarts,
			Purchases:      *numPurchases,
		})
	}
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	log.Printf("✨ All done! %d users, %d products, %d cart items, %d purchases",
		report.Users, report.Products, report.CartItems, report.Purchases)
	log.Printf("📧 All seeded users have the password: %s (login as demo@example.com)", seed.DefaultPassword)
	return nil
}
