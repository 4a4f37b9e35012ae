package model

import (
	"encoding/json"
	"time"

	"splitlease/shared/model"
)

const (
	TableName  = "proposals"
	EntityName = "proposal"

	FieldID                           = "id"
	FieldListingID                    = "listing_id"
	FieldGuestID                      = "guest_id"
	FieldHostID                       = "host_id"
	FieldStatus                       = "status"
	FieldUsualOrder                   = "usual_order"
	FieldRentalApplicationID          = "rental_application_id"
	FieldRentalApplicationSubmitted   = "rental_application_submitted"
	FieldHostDocumentsReviewFinalized = "host_documents_review_finalized"
	FieldDaysSelected                 = "days_selected"
	FieldMoveInDate                   = "move_in_date"
	FieldMonthlyRentCents             = "monthly_rent_cents"
)

// Proposal is one guest's offer for a listing. Status and UsualOrder are
// written together on every mutation; UsualOrder is always derived from Status
// and never accepted from a caller.
type Proposal struct {
	ID                           string          `db:"id"`
	ListingID                    string          `db:"listing_id"`
	GuestID                      string          `db:"guest_id"`
	HostID                       string          `db:"host_id"`
	Status                       string          `db:"status"`
	UsualOrder                   int             `db:"usual_order"`
	RentalApplicationID          *string         `db:"rental_application_id"`
	RentalApplicationSubmitted   bool            `db:"rental_application_submitted"`
	HostDocumentsReviewFinalized bool            `db:"host_documents_review_finalized"`
	DaysSelected                 json.RawMessage `db:"days_selected"`
	MoveInDate                   time.Time       `db:"move_in_date"`
	MonthlyRentCents             int64           `db:"monthly_rent_cents"`
	model.Metadata
}
