package service

import (
	"context"

	"boardswap/internal/models"
	"boardswap/internal/repository"
)

// StarService coordinates star toggles. The repository guarantees the
// set/counter invariant; this layer just shapes the result for handlers.
type StarService struct {
	listingRepo repository.ListingRepository
}

func NewStarService(listingRepo repository.ListingRepository) *StarService {
	return &StarService{listingRepo: listingRepo}
}

// StarResult is the toggle outcome returned to handlers. Changed is false
// when the request was an idempotent repeat.
type StarResult struct {
	Starred   bool            `json:"starred"`
	Changed   bool            `json:"changed"`
	StarCount int             `json:"star_count"`
	Listing   *models.Listing `json:"listing"`
}

func (s *StarService) Star(ctx context.Context, listingID, userID string) (*StarResult, error) {
	changed, err := s.listingRepo.Star(ctx, listingID, userID)
	if err != nil {
		return nil, err
	}
	return s.result(ctx, listingID, userID, true, changed)
}

func (s *StarService) Unstar(ctx context.Context, listingID, userID string) (*StarResult, error) {
	changed, err := s.listingRepo.Unstar(ctx, listingID, userID)
	if err != nil {
		return nil, err
	}
	return s.result(ctx, listingID, userID, false, changed)
}

func (s *StarService) IsStarred(ctx context.Context, listingID, userID string) (bool, error) {
	return s.listingRepo.IsStarred(ctx, listingID, userID)
}

func (s *StarService) result(ctx context.Context, listingID, userID string, starred, changed bool) (*StarResult, error) {
	listing, err := s.listingRepo.GetByID(ctx, listingID, userID)
	if err != nil {
		return nil, err
	}
	return &StarResult{
		Starred:   starred,
		Changed:   changed,
		StarCount: listing.StarCount,
		Listing:   listing,
	}, nil
}
