package repository

import (
	"context"
	"errors"

	"boardswap/internal/cache"
	"boardswap/internal/models"
	"boardswap/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListingRepository defines the interface for listing data operations.
type ListingRepository interface {
	Create(ctx context.Context, listing *models.Listing) error
	GetByID(ctx context.Context, id string, currentUserID string) (*models.Listing, error)
	GetByUserID(ctx context.Context, userID, listingType string) ([]*models.Listing, error)
	ListByType(ctx context.Context, listingType string) ([]*models.Listing, error)
	Delete(ctx context.Context, id string) error
	Star(ctx context.Context, listingID, userID string) (bool, error)
	Unstar(ctx context.Context, listingID, userID string) (bool, error)
	IsStarred(ctx context.Context, listingID, userID string) (bool, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	HighRatedCount(ctx context.Context, userID string, threshold int) (int64, error)
}

// listingRepository implements ListingRepository
type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository creates a new listing repository
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) Create(ctx context.Context, listing *models.Listing) error {
	return r.db.WithContext(ctx).Create(listing).Error
}

// applyStarDetails adds a subquery computing the requesting user's starred
// status in the same query, mirroring how star_count stays on the row itself.
func (r *listingRepository) applyStarDetails(db *gorm.DB, currentUserID string) *gorm.DB {
	if currentUserID != "" {
		return db.Select(
			"listings.*, EXISTS(SELECT 1 FROM stars WHERE stars.listing_id = listings.id AND stars.user_id = ?) AS starred",
			currentUserID,
		)
	}
	return db.Select("listings.*")
}

func (r *listingRepository) GetByID(ctx context.Context, id string, currentUserID string) (*models.Listing, error) {
	var listing models.Listing

	var err error
	if currentUserID == "" {
		// Anonymous reads may be served from a slightly stale snapshot.
		err = cache.Aside(ctx, cache.ListingKey(id), &listing, cache.ListingTTL, func() error {
			return r.db.WithContext(ctx).First(&listing, "id = ?", id).Error
		})
	} else {
		err = r.applyStarDetails(r.db.WithContext(ctx), currentUserID).
			First(&listing, "listings.id = ?", id).Error
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Listing", id)
	}
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) GetByUserID(ctx context.Context, userID, listingType string) ([]*models.Listing, error) {
	var listings []*models.Listing
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if listingType != "" {
		q = q.Where("type = ?", listingType)
	}
	err := q.Order("created_at DESC, id DESC").Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *listingRepository) ListByType(ctx context.Context, listingType string) ([]*models.Listing, error) {
	var listings []*models.Listing
	err := r.db.WithContext(ctx).
		Where("type = ?", listingType).
		Order("created_at DESC, id DESC").
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

// Delete removes the listing together with its star membership rows in one
// transaction, so no orphaned star entries remain reachable.
func (r *listingRepository) Delete(ctx context.Context, id string) error {
	err := withConflictRetry(ctx, "delete_listing", func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			res := tx.Delete(&models.Listing{}, "id = ?", id)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return models.NewNotFoundError("Listing", id)
			}
			return tx.Where("listing_id = ?", id).Delete(&models.Star{}).Error
		})
	})
	if err != nil {
		return err
	}
	cache.InvalidateListing(ctx, id)
	return nil
}

// Star inserts the user into the listing's star membership set and bumps the
// cached counter, as one transaction. The membership insert arbitrates
// concurrent toggles (ON CONFLICT DO NOTHING on the composite key) and the
// counter only moves when a membership row actually appeared, so
// star_count == |starredBy| holds after every call. Returns whether the
// membership set changed.
func (r *listingRepository) Star(ctx context.Context, listingID, userID string) (bool, error) {
	changed := false
	err := withConflictRetry(ctx, "star", func() error {
		changed = false
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&models.Listing{}).Where("id = ?", listingID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return models.NewNotFoundError("Listing", listingID)
			}

			res := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.Star{ListingID: listingID, UserID: userID})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// Already starred; idempotent no-op.
				return nil
			}

			bump := tx.Model(&models.Listing{}).Where("id = ?", listingID).
				UpdateColumn("star_count", gorm.Expr("star_count + ?", 1))
			if bump.Error != nil {
				return bump.Error
			}
			if bump.RowsAffected == 0 {
				// The listing was deleted after the existence check;
				// roll back the membership insert with it.
				return models.NewNotFoundError("Listing", listingID)
			}
			changed = true
			return nil
		})
	})
	if err != nil {
		return false, err
	}

	outcome := "noop"
	if changed {
		outcome = "applied"
		cache.InvalidateStar(ctx, listingID, userID)
	}
	observability.StarToggles.WithLabelValues("star", outcome).Inc()
	return changed, nil
}

// Unstar is the symmetric counterpart of Star: the counter is decremented
// only when a membership row was actually removed.
func (r *listingRepository) Unstar(ctx context.Context, listingID, userID string) (bool, error) {
	changed := false
	err := withConflictRetry(ctx, "unstar", func() error {
		changed = false
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&models.Listing{}).Where("id = ?", listingID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return models.NewNotFoundError("Listing", listingID)
			}

			res := tx.Where("listing_id = ? AND user_id = ?", listingID, userID).
				Delete(&models.Star{})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// Never starred; idempotent no-op.
				return nil
			}

			drop := tx.Model(&models.Listing{}).Where("id = ?", listingID).
				UpdateColumn("star_count", gorm.Expr("star_count - ?", 1))
			if drop.Error != nil {
				return drop.Error
			}
			if drop.RowsAffected == 0 {
				return models.NewNotFoundError("Listing", listingID)
			}
			changed = true
			return nil
		})
	})
	if err != nil {
		return false, err
	}

	outcome := "noop"
	if changed {
		outcome = "applied"
		cache.InvalidateStar(ctx, listingID, userID)
	}
	observability.StarToggles.WithLabelValues("unstar", outcome).Inc()
	return changed, nil
}

func (r *listingRepository) IsStarred(ctx context.Context, listingID, userID string) (bool, error) {
	var starred bool
	err := cache.Aside(ctx, cache.StarKey(listingID, userID), &starred, cache.StarTTL, func() error {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&models.Star{}).
			Where("listing_id = ? AND user_id = ?", listingID, userID).
			Count(&count).Error; err != nil {
			return err
		}
		starred = count > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return starred, nil
}

func (r *listingRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// HighRatedCount returns how many of the user's listings have reached the
// given star threshold. Feeds the reconciliation path of the score formula.
func (r *listingRepository) HighRatedCount(ctx context.Context, userID string, threshold int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Where("user_id = ? AND star_count >= ?", userID, threshold).
		Count(&count).Error
	return count, err
}
