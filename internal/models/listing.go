// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Listing type values. A listing is either an offer to trade, an offer to
// sell, or a request for a game the user is looking for.
const (
	ListingTypeOffering = "offering"
	ListingTypeSelling  = "selling"
	ListingTypeWanting  = "wanting"
)

// ValidListingType reports whether t is one of the known listing types.
func ValidListingType(t string) bool {
	switch t {
	case ListingTypeOffering, ListingTypeSelling, ListingTypeWanting:
		return true
	}
	return false
}

// Listing represents a board-game listing in the marketplace.
//
// StarCount is the cached cardinality of the stars membership index for this
// listing. It is maintained transactionally by the listing repository and must
// always equal the number of Star rows referencing the listing.
type Listing struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	UserID      string     `gorm:"not null;index;size:128" json:"user_id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description"`
	Condition   string     `json:"condition"`
	Price       *float64   `json:"price,omitempty"`
	TradeOnly   bool       `json:"trade_only"`
	ImageURL    string     `json:"image_url"`
	Location    string     `json:"location"`
	Type        string     `gorm:"not null;index" json:"type"`
	StarCount   int        `gorm:"not null;default:0" json:"star_count"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	// Starred indicates whether the current requesting user starred this listing (computed)
	Starred bool `gorm:"->" json:"starred"`
}

// Star is one row of the listing/user star membership index.
// The composite primary key makes a (listing, user) pair unique, so inserts
// with ON CONFLICT DO NOTHING arbitrate concurrent toggles at the database.
type Star struct {
	ListingID string    `gorm:"primaryKey;size:36" json:"listing_id"`
	UserID    string    `gorm:"primaryKey;size:128" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	// The foreign key makes the store itself refuse membership rows for a
	// listing that no longer exists.
	Listing *Listing `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE" json:"-"`
}

// VPAward records that a listing creation has already triggered its milestone
// award. The listing ID primary key deduplicates retried creation requests:
// a second award attempt for the same listing is a no-op.
type VPAward struct {
	ListingID string    `gorm:"primaryKey;size:36" json:"listing_id"`
	UserID    string    `gorm:"not null;index;size:128" json:"user_id"`
	PostCount int       `gorm:"not null" json:"post_count"`
	Delta     int       `gorm:"not null" json:"delta"`
	CreatedAt time.Time `json:"created_at"`
}

// ConditionOptions are the accepted values for a listing's condition field.
var ConditionOptions = []string{"new", "likeNew", "veryGood", "good", "fair"}

// ValidCondition reports whether c is a known condition value.
func ValidCondition(c string) bool {
	for _, opt := range ConditionOptions {
		if c == opt {
			return true
		}
	}
	return false
}
