package model

import (
	"encoding/json"

	"splitlease/shared/model"
)

const (
	TableName  = "listings"
	EntityName = "listing"

	FieldID               = "id"
	FieldHostID           = "host_id"
	FieldTitle            = "title"
	FieldDescription      = "description"
	FieldNeighborhood     = "neighborhood"
	FieldCity             = "city"
	FieldBedrooms         = "bedrooms"
	FieldBathrooms        = "bathrooms"
	FieldNightlyRateCents = "nightly_rate_cents"
	FieldPhoto            = "photo"
	FieldAvailableDays    = "available_days"
	FieldActive           = "active"
)

// Listing is a unit offered for part-time rental. AvailableDays is a JSONB
// column holding the nights of the week the host offers; rows written by
// older clients may carry 1-indexed day numbers instead of weekday names, so
// the column stays raw and is decoded through shared/weekday.
type Listing struct {
	ID               string          `db:"id"`
	HostID           string          `db:"host_id"`
	Title            string          `db:"title"`
	Description      string          `db:"description"`
	Neighborhood     string          `db:"neighborhood"`
	City             string          `db:"city"`
	Bedrooms         int             `db:"bedrooms"`
	Bathrooms        int             `db:"bathrooms"`
	NightlyRateCents int64           `db:"nightly_rate_cents"`
	Photo            string          `db:"photo"`
	AvailableDays    json.RawMessage `db:"available_days"`
	Active           bool            `db:"active"`
	model.Metadata
}
