package server

import (
	"boardswap/internal/models"

	"github.com/gofiber/fiber/v2"
)

// StarListing handles POST /api/listings/:id/star
func (s *Server) StarListing(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(string)
	listingID := c.Params("id")

	result, err := s.starService.Star(ctx, listingID, userID)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(result)
}

// UnstarListing handles DELETE /api/listings/:id/star
func (s *Server) UnstarListing(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(string)
	listingID := c.Params("id")

	result, err := s.starService.Unstar(ctx, listingID, userID)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(result)
}

// GetStarStatus handles GET /api/listings/:id/star
func (s *Server) GetStarStatus(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(string)
	listingID := c.Params("id")

	starred, err := s.starService.IsStarred(ctx, listingID, userID)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"starred": starred})
}
