package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	ListingKeyPrefix = "listing:%s"
	ProfileKeyPrefix = "profile:%s"
	StarKeyPrefix    = "listing:%s:star:%s"
)

const (
	// ListingTTL and StarTTL bound how stale the lock-free read paths can get.
	ListingTTL = 5 * time.Minute
	ProfileTTL = 5 * time.Minute
	StarTTL    = 2 * time.Minute
)

func ListingKey(listingID string) string {
	return fmt.Sprintf(ListingKeyPrefix, listingID)
}

func ProfileKey(userID string) string {
	return fmt.Sprintf(ProfileKeyPrefix, userID)
}

func StarKey(listingID, userID string) string {
	return fmt.Sprintf(StarKeyPrefix, listingID, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateListing(ctx context.Context, listingID string) {
	Invalidate(ctx, ListingKey(listingID))
}

func InvalidateProfile(ctx context.Context, userID string) {
	Invalidate(ctx, ProfileKey(userID))
}

// InvalidateStar drops both the membership snapshot and the listing snapshot,
// since a toggle changes the listing's star count too.
func InvalidateStar(ctx context.Context, listingID, userID string) {
	Invalidate(ctx, StarKey(listingID, userID))
	Invalidate(ctx, ListingKey(listingID))
}
