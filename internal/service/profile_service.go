package service

import (
	"context"
	"strings"
	"time"

	"boardswap/internal/models"
	"boardswap/internal/observability"
	"boardswap/internal/points"
	"boardswap/internal/repository"
)

type ProfileService struct {
	profileRepo repository.ProfileRepository
	listingRepo repository.ListingRepository
}

func NewProfileService(profileRepo repository.ProfileRepository, listingRepo repository.ListingRepository) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		listingRepo: listingRepo,
	}
}

// EnsureProfile bootstraps a profile on first contact: vps starts at the
// account-creation baseline, post_count at zero. Racing callers converge on
// one row; the losers read the winner's.
func (s *ProfileService) EnsureProfile(ctx context.Context, userID, displayName, email string) (*models.UserProfile, error) {
	if userID == "" {
		return nil, models.NewValidationError("User id is required")
	}
	if displayName == "" {
		displayName = userID
	}
	profile := &models.UserProfile{
		ID:          userID,
		DisplayName: displayName,
		Email:       email,
		VPs:         points.BaselineVPs,
		PostCount:   0,
		JoinedAt:    time.Now().UTC(),
	}
	created, err := s.profileRepo.CreateIfAbsent(ctx, profile)
	if err != nil {
		return nil, err
	}
	if created {
		return profile, nil
	}
	return s.profileRepo.GetByID(ctx, userID)
}

func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	return s.profileRepo.GetByID(ctx, userID)
}

func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.UserProfile, error) {
	const maxDisplayNameLen = 80
	const maxBioLen = 2000

	if upd.DisplayName != nil {
		name := strings.TrimSpace(*upd.DisplayName)
		if name == "" {
			return nil, models.NewValidationError("Display name cannot be empty")
		}
		if len(name) > maxDisplayNameLen {
			return nil, models.NewValidationError("Display name too long (max 80 characters)")
		}
		upd.DisplayName = &name
	}
	if upd.Bio != nil && len(*upd.Bio) > maxBioLen {
		return nil, models.NewValidationError("Bio too long (max 2000 characters)")
	}
	return s.profileRepo.UpdateFields(ctx, userID, upd)
}

// RecomputeVPs rebuilds a profile's score from scratch and patches it on.
// The post-count tier is computed from the profile's own counter, not the
// live listing count: milestones reward creations and are not clawed back
// when a listing is later deleted. High-rated credit does track the live
// star counts, so stars gained or lost since the last award are absorbed.
func (s *ProfileService) RecomputeVPs(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	highRated, err := s.listingRepo.HighRatedCount(ctx, userID, points.HighRatedThreshold)
	if err != nil {
		return nil, err
	}
	vps := points.TotalVPs(profile.PostCount, int(highRated))
	observability.VPReconciliations.Inc()
	if vps != profile.VPs {
		if err := s.profileRepo.SetVPs(ctx, userID, vps); err != nil {
			return nil, err
		}
		profile.VPs = vps
	}
	return profile, nil
}
