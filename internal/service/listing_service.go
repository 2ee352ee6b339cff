package service

import (
	"context"
	"strings"

	"boardswap/internal/middleware"
	"boardswap/internal/models"
	"boardswap/internal/repository"

	"github.com/google/uuid"
)

type ListingService struct {
	listingRepo repository.ListingRepository
	// onCreated runs the milestone award after a successful create. Injected
	// as a callback so the listing flow does not depend on the profile store.
	onCreated func(ctx context.Context, userID, listingID string) (*repository.MilestoneResult, error)
}

func NewListingService(
	listingRepo repository.ListingRepository,
	onCreated func(ctx context.Context, userID, listingID string) (*repository.MilestoneResult, error),
) *ListingService {
	return &ListingService{
		listingRepo: listingRepo,
		onCreated:   onCreated,
	}
}

type CreateListingInput struct {
	UserID      string
	Title       string
	Description string
	Condition   string
	Price       *float64
	TradeOnly   bool
	ImageURL    string
	Location    string
	Type        string
}

func (s *ListingService) CreateListing(ctx context.Context, in CreateListingInput) (*models.Listing, error) {
	const maxTitleLen = 200
	const maxDescriptionLen = 10000

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 200 characters)")
	}
	if len(in.Description) > maxDescriptionLen {
		return nil, models.NewValidationError("Description too long (max 10000 characters)")
	}
	if !models.ValidListingType(in.Type) {
		return nil, models.NewValidationError("Invalid listing type")
	}
	if in.Condition != "" && !models.ValidCondition(in.Condition) {
		return nil, models.NewValidationError("Invalid condition")
	}
	if in.Price != nil && *in.Price < 0 {
		return nil, models.NewValidationError("Price cannot be negative")
	}
	// Selling listings need a price unless the author is trade-only.
	if in.Type == models.ListingTypeSelling && !in.TradeOnly && in.Price == nil {
		return nil, models.NewValidationError("Selling listings need a price or trade_only")
	}
	price := in.Price
	if in.TradeOnly {
		price = nil
	}

	listing := &models.Listing{
		ID:          uuid.NewString(),
		UserID:      in.UserID,
		Title:       title,
		Description: in.Description,
		Condition:   in.Condition,
		Price:       price,
		TradeOnly:   in.TradeOnly,
		ImageURL:    in.ImageURL,
		Location:    in.Location,
		Type:        in.Type,
	}
	if err := s.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}

	if s.onCreated != nil {
		// The listing exists at this point. An award failure is drift, not a
		// reason to fail the request; the reconciliation sweep repairs it.
		if _, err := s.onCreated(ctx, in.UserID, listing.ID); err != nil {
			middleware.Logger.ErrorContext(ctx, "milestone award failed",
				"listing_id", listing.ID, "user_id", in.UserID, "error", err)
		}
	}

	return listing, nil
}

func (s *ListingService) GetListing(ctx context.Context, id, currentUserID string) (*models.Listing, error) {
	return s.listingRepo.GetByID(ctx, id, currentUserID)
}

func (s *ListingService) GetUserListings(ctx context.Context, userID, typeFilter string) ([]*models.Listing, error) {
	if typeFilter != "" && !models.ValidListingType(typeFilter) {
		return nil, models.NewValidationError("Invalid listing type")
	}
	return s.listingRepo.GetByUserID(ctx, userID, typeFilter)
}

func (s *ListingService) GetAllListings(ctx context.Context, listingType string) ([]*models.Listing, error) {
	if !models.ValidListingType(listingType) {
		return nil, models.NewValidationError("Invalid listing type")
	}
	return s.listingRepo.ListByType(ctx, listingType)
}

func (s *ListingService) DeleteListing(ctx context.Context, id, requestingUserID string) error {
	listing, err := s.listingRepo.GetByID(ctx, id, requestingUserID)
	if err != nil {
		return err
	}
	if listing.UserID != requestingUserID {
		return models.NewForbiddenError("You can only delete your own listings")
	}
	return s.listingRepo.Delete(ctx, id)
}
