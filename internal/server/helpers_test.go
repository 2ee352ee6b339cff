package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"boardswap/internal/config"
	"boardswap/internal/models"
	"boardswap/internal/repository"
	"boardswap/internal/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestServer wires real repositories and services over an in-memory
// sqlite database. Prometheus wiring is left out: registering collectors
// twice in one test binary panics.
func newTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
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

	listingRepo := repository.NewListingRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	s := &Server{
		config:      &config.Config{Env: "test", JWTSecret: "test-secret"},
		db:          db,
		listingRepo: listingRepo,
		profileRepo: profileRepo,
	}
	s.milestoneService = service.NewMilestoneService(profileRepo)
	s.listingService = service.NewListingService(listingRepo, s.milestoneService.OnListingCreated)
	s.starService = service.NewStarService(listingRepo)
	s.profileService = service.NewProfileService(profileRepo, listingRepo)

	return s, db
}

// asUser sets the authenticated user id, standing in for the JWT middleware.
func asUser(userID string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	}
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("decode body %q: %v", data, err)
	}
}
