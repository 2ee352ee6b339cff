package repository

import (
	"testing"
	"time"

	"boardswap/internal/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRepoTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// A single connection keeps the in-memory database shared across
	// goroutines in the concurrency tests.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.UserProfile{},
		&models.Listing{},
		&models.Star{},
		&models.VPAward{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	return db
}

func makeListing(t *testing.T, db *gorm.DB, userID, listingType string, createdAt time.Time) *models.Listing {
	t.Helper()
	listing := &models.Listing{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     "Catan",
		Condition: "good",
		Location:  "Utrecht",
		Type:      listingType,
		CreatedAt: createdAt,
	}
	if err := db.Create(listing).Error; err != nil {
		t.Fatalf("create listing: %v", err)
	}
	return listing
}

func makeProfile(t *testing.T, db *gorm.DB, id string) *models.UserProfile {
	t.Helper()
	profile := &models.UserProfile{
		ID:          id,
		DisplayName: id,
		Email:       id + "@example.com",
		VPs:         1,
		PostCount:   0,
		JoinedAt:    time.Now().UTC(),
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("create profile: %v", err)
	}
	return profile
}
