// Command reconcile rebuilds drifted reputation scores. It sweeps every
// profile, recomputes the score from scratch and patches the rows that
// disagree. Safe to run while the API is serving traffic.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"boardswap/internal/bootstrap"
	"boardswap/internal/config"
	"boardswap/internal/models"
	"boardswap/internal/repository"
	"boardswap/internal/service"

	"golang.org/x/sync/errgroup"
)

func main() {
	workers := flag.Int("workers", 8, "Number of concurrent reconciliation workers")
	batchSize := flag.Int("batch", 500, "Profiles fetched per batch")
	timeout := flag.Duration("timeout", 10*time.Minute, "Overall sweep timeout")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, _, err := bootstrap.InitRuntime(cfg, bootstrap.Options{})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	profiles := repository.NewProfileRepository(db)
	listings := repository.NewListingRepository(db)
	svc := service.NewProfileService(profiles, listings)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	start := time.Now()
	var swept, repaired int

	lastID := ""
	for {
		var batch []models.UserProfile
		query := db.WithContext(ctx).Order("id").Limit(*batchSize)
		if lastID != "" {
			query = query.Where("id > ?", lastID)
		}
		if err := query.Find(&batch).Error; err != nil {
			log.Fatalf("Failed to fetch profiles: %v", err)
		}
		if len(batch) == 0 {
			break
		}
		lastID = batch[len(batch)-1].ID

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(*workers)
		results := make([]bool, len(batch))
		for i, profile := range batch {
			i, profile := i, profile
			g.Go(func() error {
				before := profile.VPs
				after, err := svc.RecomputeVPs(gctx, profile.ID)
				if err != nil {
					return err
				}
				results[i] = after.VPs != before
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			log.Fatalf("Reconciliation failed: %v", err)
		}

		swept += len(batch)
		for _, changed := range results {
			if changed {
				repaired++
			}
		}
	}

	log.Printf("Reconciled %d profiles (%d repaired) in %s", swept, repaired, time.Since(start).Round(time.Millisecond))
}
