package service

import (
	"context"

	"boardswap/internal/points"
	"boardswap/internal/repository"
)

// MilestoneService applies the per-creation reputation award. The dedup key
// is the listing id, so retried creations of the same listing award nothing.
type MilestoneService struct {
	profileRepo repository.ProfileRepository
}

func NewMilestoneService(profileRepo repository.ProfileRepository) *MilestoneService {
	return &MilestoneService{profileRepo: profileRepo}
}

// OnListingCreated advances the author's post count and credits the tiered
// point delta for the transition. Safe to call concurrently and to repeat.
func (s *MilestoneService) OnListingCreated(ctx context.Context, userID, listingID string) (*repository.MilestoneResult, error) {
	return s.profileRepo.AwardPostMilestone(ctx, userID, listingID, points.MilestoneDelta)
}
