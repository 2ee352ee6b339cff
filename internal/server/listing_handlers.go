package server

import (
	"boardswap/internal/models"
	"boardswap/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateListing handles POST /api/listings
func (s *Server) CreateListing(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(string)

	var req struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Condition   string   `json:"condition"`
		Price       *float64 `json:"price"`
		TradeOnly   bool     `json:"trade_only"`
		ImageURL    string   `json:"image_url,omitempty"`
		Location    string   `json:"location"`
		Type        string   `json:"type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	// First contact bootstraps the profile so the milestone award has a
	// ledger row to land on.
	if _, err := s.profileService.EnsureProfile(ctx, userID, "", ""); err != nil {
		return models.RespondError(c, err)
	}

	listing, err := s.listingService.CreateListing(ctx, service.CreateListingInput{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Condition:   req.Condition,
		Price:       req.Price,
		TradeOnly:   req.TradeOnly,
		ImageURL:    req.ImageURL,
		Location:    req.Location,
		Type:        req.Type,
	})
	if err != nil {
		return models.RespondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(listing)
}

// GetListings handles GET /api/listings?type=offering|selling|wanting
func (s *Server) GetListings(c *fiber.Ctx) error {
	ctx := c.Context()
	listingType := c.Query("type")
	if listingType == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Query parameter type is required"))
	}

	listings, err := s.listingService.GetAllListings(ctx, listingType)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(listings)
}

// GetListing handles GET /api/listings/:id
func (s *Server) GetListing(c *fiber.Ctx) error {
	ctx := c.Context()
	id := c.Params("id")
	userID := s.optionalUserID(c)

	listing, err := s.listingService.GetListing(ctx, id, userID)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(listing)
}

// GetUserListings handles GET /api/users/:id/listings?type=
func (s *Server) GetUserListings(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Params("id")

	listings, err := s.listingService.GetUserListings(ctx, userID, c.Query("type"))
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(listings)
}

// DeleteListing handles DELETE /api/listings/:id
func (s *Server) DeleteListing(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(string)
	id := c.Params("id")

	if err := s.listingService.DeleteListing(ctx, id, userID); err != nil {
		return models.RespondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
