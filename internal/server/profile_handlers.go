package server

import (
	"boardswap/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me. The profile is bootstrapped on
// first contact, so a fresh account always reads back with the baseline
// point.
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(string)

	profile, err := s.profileService.EnsureProfile(ctx, userID, c.Query("display_name"), "")
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(profile)
}

// UpdateMyProfile handles PUT /api/users/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(string)

	var upd models.ProfileUpdate
	if err := c.BodyParser(&upd); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profile, err := s.profileService.UpdateProfile(ctx, userID, upd)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(profile)
}

// RecountMyVPs handles POST /api/users/me/recount, the self-service repair
// path for a drifted score.
func (s *Server) RecountMyVPs(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(string)

	profile, err := s.profileService.RecomputeVPs(ctx, userID)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(profile)
}

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Params("id")

	profile, err := s.profileService.GetProfile(ctx, userID)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(profile)
}
