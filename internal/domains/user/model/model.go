package model

import (
	"encoding/json"

	"splitlease/shared/model"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID                = "id"
	FieldEmail             = "email"
	FieldPassword          = "password"
	FieldLevel             = "level"
	FieldGoogleID          = "google_id"
	FieldFullName          = "full_name"
	FieldProfileImage      = "profile_image"
	FieldIsVerified        = "is_verified"
	FieldLastLogin         = "last_login"
	FieldActive            = "active"
	FieldProposalsList     = "proposals_list"
	FieldFavoritedListings = "favorited_listings"
)

// User is a marketplace account. The same account can act as guest on one
// proposal and host on another.
//
// ProposalsList and FavoritedListings are JSONB arrays of foreign keys. They
// stay raw on the model and are only read through shared/jsonb normalization,
// since historical rows can hold the array's JSON text instead of the array
// itself.
type User struct {
	ID                string          `db:"id"`
	Email             string          `db:"email"`
	Password          string          `db:"password"`
	Level             string          `db:"level"`
	GoogleID          *string         `db:"google_id"`
	FullName          *string         `db:"full_name"`
	ProfileImage      *string         `db:"profile_image"`
	IsVerified        bool            `db:"is_verified"`
	LastLogin         *string         `db:"last_login"`
	Active            bool            `db:"active"`
	ProposalsList     json.RawMessage `db:"proposals_list"`
	FavoritedListings json.RawMessage `db:"favorited_listings"`
	model.Metadata
}
