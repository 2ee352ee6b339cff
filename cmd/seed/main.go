// Command seed populates the database with demo profiles and listings.
package main

import (
	"context"
	"flag"
	"log"

	"boardswap/internal/bootstrap"
	"boardswap/internal/config"
	"boardswap/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of profiles to create")
	numListings := flag.Int("listings", 100, "Number of listings to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	dryRun := flag.Bool("dry-run", false, "Log planned writes without touching the database")
	flag.Parse()

	log.Printf("Seeder target: %d profiles, %d listings, clean=%v", *numUsers, *numListings, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, _, err := bootstrap.InitRuntime(cfg, bootstrap.Options{})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	s := seed.NewSeeder(db, seed.Options{DryRun: *dryRun})

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if err := s.Populate(context.Background(), *numUsers, *numListings); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
