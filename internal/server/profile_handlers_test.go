package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"boardswap/internal/models"
	"boardswap/internal/points"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMyProfileBootstraps(t *testing.T) {
	s, _ := newTestServer(t)
	app := fiber.New()
	app.Get("/users/me", asUser("newbie"), s.GetMyProfile)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/users/me", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var profile models.UserProfile
	decodeBody(t, resp, &profile)
	assert.Equal(t, "newbie", profile.ID)
	assert.Equal(t, 1, profile.VPs, "a fresh account starts with the baseline point")
	assert.Zero(t, profile.PostCount)

	// Second read returns the same row, not a reset one.
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/users/me", nil))
	require.NoError(t, err)
	decodeBody(t, resp, &profile)
	assert.Equal(t, 1, profile.VPs)
}

func TestUpdateMyProfileEndpoint(t *testing.T) {
	s, db := newTestServer(t)
	app := fiber.New()
	app.Get("/users/me", asUser("u1"), s.GetMyProfile)
	app.Put("/users/me", asUser("u1"), s.UpdateMyProfile)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/users/me", nil))
	require.NoError(t, err)
	_ = resp.Body.Close()

	req := jsonRequest(t, http.MethodPut, "/users/me", fiber.Map{
		"display_name": "Meeple Trader",
		"bio":          "Trading since 2020",
	})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var profile models.UserProfile
	decodeBody(t, resp, &profile)
	assert.Equal(t, "Meeple Trader", profile.DisplayName)

	// The ledger fields are not reachable through the edit path.
	req = jsonRequest(t, http.MethodPut, "/users/me", fiber.Map{
		"vps":        99,
		"post_count": 99,
	})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	var stored models.UserProfile
	require.NoError(t, db.First(&stored, "id = ?", "u1").Error)
	assert.Equal(t, 1, stored.VPs)
	assert.Zero(t, stored.PostCount)
}

func TestGetUserProfileEndpoint(t *testing.T) {
	s, db := newTestServer(t)
	app := fiber.New()
	app.Get("/users/:id", s.GetUserProfile)

	require.NoError(t, db.Create(&models.UserProfile{ID: "u1", DisplayName: "Resident", VPs: 4}).Error)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/users/u1", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var profile models.UserProfile
	decodeBody(t, resp, &profile)
	assert.Equal(t, "Resident", profile.DisplayName)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/users/ghost", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestRecountMyVPsEndpoint(t *testing.T) {
	s, db := newTestServer(t)
	app := fiber.New()
	app.Post("/users/me/recount", asUser("u1"), s.RecountMyVPs)

	// Drifted profile: seven creations on record, score stuck at 2, and one
	// listing that crossed the high-rated threshold.
	require.NoError(t, db.Create(&models.UserProfile{ID: "u1", VPs: 2, PostCount: 7}).Error)
	listing := seedListing(t, db, "l1", "u1", models.ListingTypeOffering)
	require.NoError(t, db.Model(listing).Update("star_count", points.HighRatedThreshold).Error)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/users/me/recount", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var profile models.UserProfile
	decodeBody(t, resp, &profile)
	assert.Equal(t, points.TotalVPs(7, 1), profile.VPs)
}
