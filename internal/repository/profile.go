package repository

import (
	"context"
	"errors"
	"time"

	"boardswap/internal/cache"
	"boardswap/internal/models"
	"boardswap/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MilestoneResult describes the outcome of a milestone award attempt.
type MilestoneResult struct {
	// Awarded is false when the listing had already triggered its award
	// (a deduplicated retry).
	Awarded   bool
	PostCount int
	Delta     int
}

// ProfileRepository defines the interface for user profile data operations.
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*models.UserProfile, error)
	CreateIfAbsent(ctx context.Context, profile *models.UserProfile) (bool, error)
	UpdateFields(ctx context.Context, id string, upd models.ProfileUpdate) (*models.UserProfile, error)
	AwardPostMilestone(ctx context.Context, userID, listingID string, deltaFor func(oldCount, newCount int) int) (*MilestoneResult, error)
	SetVPs(ctx context.Context, userID string, vps int) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := cache.Aside(ctx, cache.ProfileKey(id), &profile, cache.ProfileTTL, func() error {
		return r.db.WithContext(ctx).First(&profile, "id = ?", id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Profile", id)
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// CreateIfAbsent inserts the profile unless one already exists for the id.
// Returns whether a row was created. The caller seeds the ledger fields
// (vps=1 baseline, postCount=0); an existing profile is left untouched.
func (r *profileRepository) CreateIfAbsent(ctx context.Context, profile *models.UserProfile) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(profile)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		cache.InvalidateProfile(ctx, profile.ID)
	}
	return res.RowsAffected > 0, nil
}

// UpdateFields patches the editable profile fields. The ledger fields (vps,
// post_count) are deliberately not reachable from here.
func (r *profileRepository) UpdateFields(ctx context.Context, id string, upd models.ProfileUpdate) (*models.UserProfile, error) {
	fields := map[string]any{}
	if upd.DisplayName != nil {
		fields["display_name"] = *upd.DisplayName
	}
	if upd.Location != nil {
		fields["location"] = *upd.Location
	}
	if upd.Bio != nil {
		fields["bio"] = *upd.Bio
	}
	if upd.Avatar != nil {
		fields["avatar"] = *upd.Avatar
	}
	if upd.FavoriteGameID != nil {
		fields["favorite_game_id"] = *upd.FavoriteGameID
	}
	if upd.FavoriteGenreID != nil {
		fields["favorite_genre_id"] = *upd.FavoriteGenreID
	}

	if len(fields) > 0 {
		res := r.db.WithContext(ctx).
			Model(&models.UserProfile{}).
			Where("id = ?", id).
			Updates(fields)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, models.NewNotFoundError("Profile", id)
		}
		cache.InvalidateProfile(ctx, id)
	}

	return r.GetByID(ctx, id)
}

// AwardPostMilestone advances the user's post count by one and applies the
// corresponding score delta, at most once per listing id.
//
// The whole award is a single transaction. The vp_awards insert deduplicates
// retried creation requests; the post_count advance is a relative UPDATE with
// RETURNING, so each of N concurrent awards observes the distinct post_count
// value it transitioned to and applies that transition's delta.
func (r *profileRepository) AwardPostMilestone(ctx context.Context, userID, listingID string, deltaFor func(oldCount, newCount int) int) (*MilestoneResult, error) {
	var result MilestoneResult
	err := withConflictRetry(ctx, "award_milestone", func() error {
		result = MilestoneResult{}
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.VPAward{ListingID: listingID, UserID: userID})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// This listing already triggered its award.
				return nil
			}

			var newCount int
			row := tx.Raw(
				"UPDATE profiles SET post_count = post_count + 1, updated_at = ? WHERE id = ? RETURNING post_count",
				time.Now().UTC(), userID,
			).Scan(&newCount)
			if row.Error != nil {
				return row.Error
			}
			if row.RowsAffected == 0 {
				return models.NewNotFoundError("Profile", userID)
			}

			delta := deltaFor(newCount-1, newCount)
			if delta != 0 {
				if err := tx.Model(&models.UserProfile{}).Where("id = ?", userID).
					UpdateColumn("vps", gorm.Expr("vps + ?", delta)).Error; err != nil {
					return err
				}
			}

			if err := tx.Model(&models.VPAward{}).Where("listing_id = ?", listingID).
				Updates(map[string]any{"post_count": newCount, "delta": delta}).Error; err != nil {
				return err
			}

			result = MilestoneResult{Awarded: true, PostCount: newCount, Delta: delta}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	outcome := "deduped"
	if result.Awarded {
		outcome = "awarded"
		cache.InvalidateProfile(ctx, userID)
	}
	observability.VPAwards.WithLabelValues(outcome).Inc()
	return &result, nil
}

// SetVPs overwrites the profile's score with a from-scratch recomputation.
func (r *profileRepository) SetVPs(ctx context.Context, userID string, vps int) error {
	res := r.db.WithContext(ctx).
		Model(&models.UserProfile{}).
		Where("id = ?", userID).
		UpdateColumn("vps", vps)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Profile", userID)
	}
	cache.InvalidateProfile(ctx, userID)
	return nil
}
