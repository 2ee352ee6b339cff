// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"boardswap/internal/models"
	"boardswap/internal/points"
	"boardswap/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Options controls seeder behaviour.
type Options struct {
	// MaxDays spreads listing creation times over the past N days.
	MaxDays int
	// DryRun logs what would be written without touching the database.
	DryRun bool
}

// Seeder populates the database with generated profiles, listings and stars.
type Seeder struct {
	db   *gorm.DB
	opts Options
	rnd  *rand.Rand

	listings repository.ListingRepository
	profiles repository.ProfileRepository
}

func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:       db,
		opts:     opts,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
		listings: repository.NewListingRepository(db),
		profiles: repository.NewProfileRepository(db),
	}
}

// ClearAll truncates the seeded tables. Development convenience only.
func (s *Seeder) ClearAll() error {
	if s.opts.DryRun {
		log.Println("[dry-run] ClearAll: no DB write")
		return nil
	}
	for _, model := range []any{&models.Star{}, &models.VPAward{}, &models.Listing{}, &models.UserProfile{}} {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

// BuildProfile constructs an unsaved sample profile.
func (s *Seeder) BuildProfile() *models.UserProfile {
	return &models.UserProfile{
		ID:          "seed-" + uuid.NewString(),
		DisplayName: gofakeit.Username(),
		Email:       gofakeit.Email(),
		Location:    gofakeit.City(),
		Bio:         gofakeit.Sentence(10),
		Avatar:      fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		VPs:         points.BaselineVPs,
		JoinedAt:    s.pastTime(),
	}
}

// BuildListing constructs an unsaved sample listing for the given author.
func (s *Seeder) BuildListing(userID string) *models.Listing {
	types := []string{models.ListingTypeOffering, models.ListingTypeSelling, models.ListingTypeWanting}
	listingType := types[s.rnd.Intn(len(types))]

	listing := &models.Listing{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       gofakeit.HipsterSentence(3),
		Description: gofakeit.Paragraph(1, 2, 8, "\n"),
		Condition:   models.ConditionOptions[s.rnd.Intn(len(models.ConditionOptions))],
		Location:    gofakeit.City(),
		Type:        listingType,
		ImageURL:    fmt.Sprintf("https://picsum.photos/seed/%s/600/400", gofakeit.UUID()),
		CreatedAt:   s.pastTime(),
	}
	if listingType == models.ListingTypeSelling {
		if s.rnd.Intn(4) == 0 {
			listing.TradeOnly = true
		} else {
			price := gofakeit.Price(5, 150)
			listing.Price = &price
		}
	}
	return listing
}

// Populate creates numUsers profiles, numListings listings spread across them
// (awarding milestones through the real path so the ledgers are consistent),
// and a spread of stars.
func (s *Seeder) Populate(ctx context.Context, numUsers, numListings int) error {
	if s.opts.DryRun {
		log.Printf("[dry-run] Populate: %d users, %d listings (no DB write)", numUsers, numListings)
		return nil
	}

	users := make([]*models.UserProfile, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		profile := s.BuildProfile()
		if _, err := s.profiles.CreateIfAbsent(ctx, profile); err != nil {
			return fmt.Errorf("seed profile: %w", err)
		}
		users = append(users, profile)
	}

	listings := make([]*models.Listing, 0, numListings)
	for i := 0; i < numListings; i++ {
		author := users[s.rnd.Intn(len(users))]
		listing := s.BuildListing(author.ID)
		if err := s.listings.Create(ctx, listing); err != nil {
			return fmt.Errorf("seed listing: %w", err)
		}
		if _, err := s.profiles.AwardPostMilestone(ctx, author.ID, listing.ID, points.MilestoneDelta); err != nil {
			return fmt.Errorf("seed milestone: %w", err)
		}
		listings = append(listings, listing)
	}

	// Stars through the real toggle path keeps set and counter in lockstep.
	for _, listing := range listings {
		for _, user := range users {
			if user.ID == listing.UserID || s.rnd.Intn(5) != 0 {
				continue
			}
			if _, err := s.listings.Star(ctx, listing.ID, user.ID); err != nil {
				return fmt.Errorf("seed star: %w", err)
			}
		}
	}

	log.Printf("seeded %d profiles and %d listings", len(users), len(listings))
	return nil
}

func (s *Seeder) pastTime() time.Time {
	maxDays := s.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(s.rnd.Intn(maxDays))*24*time.Hour +
		time.Duration(s.rnd.Intn(24))*time.Hour +
		time.Duration(s.rnd.Intn(60))*time.Minute
	return time.Now().UTC().Add(-back)
}
