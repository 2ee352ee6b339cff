package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"boardswap/internal/models"
	"boardswap/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStarApp(s *Server, userID string) *fiber.App {
	app := fiber.New()
	app.Post("/listings/:id/star", asUser(userID), s.StarListing)
	app.Delete("/listings/:id/star", asUser(userID), s.UnstarListing)
	app.Get("/listings/:id/star", asUser(userID), s.GetStarStatus)
	return app
}

func TestStarEndpointToggle(t *testing.T) {
	s, db := newTestServer(t)
	app := newStarApp(s, "fan")

	seedListing(t, db, "l1", "owner", models.ListingTypeOffering)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/listings/l1/star", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result service.StarResult
	decodeBody(t, resp, &result)
	assert.True(t, result.Starred)
	assert.True(t, result.Changed)
	assert.Equal(t, 1, result.StarCount)

	// Repeat is idempotent.
	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/listings/l1/star", nil))
	require.NoError(t, err)
	decodeBody(t, resp, &result)
	assert.True(t, result.Starred)
	assert.False(t, result.Changed)
	assert.Equal(t, 1, result.StarCount)

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/listings/l1/star", nil))
	require.NoError(t, err)
	decodeBody(t, resp, &result)
	assert.False(t, result.Starred)
	assert.True(t, result.Changed)
	assert.Zero(t, result.StarCount)
}

func TestStarEndpointMissingListing(t *testing.T) {
	s, _ := newTestServer(t)
	app := newStarApp(s, "fan")

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/listings/ghost/star", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body models.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, models.CodeNotFound, body.Code)
}

func TestStarStatusEndpoint(t *testing.T) {
	s, db := newTestServer(t)
	app := newStarApp(s, "fan")

	seedListing(t, db, "l1", "owner", models.ListingTypeOffering)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/listings/l1/star", nil))
	require.NoError(t, err)
	var body struct {
		Starred bool `json:"starred"`
	}
	decodeBody(t, resp, &body)
	assert.False(t, body.Starred)

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/listings/l1/star", nil))
	require.NoError(t, err)
	_ = resp.Body.Close()

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/listings/l1/star", nil))
	require.NoError(t, err)
	decodeBody(t, resp, &body)
	assert.True(t, body.Starred)

	// A different viewer's membership is independent.
	other := newStarApp(s, "rival")
	resp, err = other.Test(httptest.NewRequest(http.MethodGet, "/listings/l1/star", nil))
	require.NoError(t, err)
	decodeBody(t, resp, &body)
	assert.False(t, body.Starred)
}
