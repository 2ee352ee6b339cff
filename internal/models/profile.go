package models

import (
	"time"
)

// UserProfile represents a marketplace user. The ID is issued by the external
// identity provider and is opaque to this service.
//
// VPs and PostCount are owned by the milestone awarder (and the explicit
// reconciliation path); profile-edit flows never write them. VPs is at least 1
// once the profile exists, the baseline account-creation point. PostCount only
// ever increases.
type UserProfile struct {
	ID              string    `gorm:"primaryKey;size:128" json:"id"`
	DisplayName     string    `json:"display_name"`
	Email           string    `gorm:"index" json:"email"`
	Location        string    `json:"location"`
	Bio             string    `json:"bio"`
	Avatar          string    `json:"avatar"`
	FavoriteGameID  string    `json:"favorite_game_id"`
	FavoriteGenreID string    `json:"favorite_genre_id"`
	VPs             int       `gorm:"column:vps;not null;default:1" json:"vps"`
	PostCount       int       `gorm:"not null;default:0" json:"post_count"`
	JoinedAt        time.Time `json:"joined_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName keeps the table name distinct from any identity-provider managed
// users table.
func (UserProfile) TableName() string {
	return "profiles"
}

// ProfileUpdate carries the editable (non-ledger) profile fields for a
// partial update. Nil pointers mean "leave unchanged".
type ProfileUpdate struct {
	DisplayName     *string `json:"display_name"`
	Location        *string `json:"location"`
	Bio             *string `json:"bio"`
	Avatar          *string `json:"avatar"`
	FavoriteGameID  *string `json:"favorite_game_id"`
	FavoriteGenreID *string `json:"favorite_genre_id"`
}
