package dto

import (
	"encoding/json"
	"time"

	"splitlease/internal/domains/proposal/lifecycle"
	"splitlease/internal/domains/proposal/model"
	"splitlease/shared"
	gDto "splitlease/shared/dto"
	gModel "splitlease/shared/model"
	"splitlease/shared/timezone"
	"splitlease/shared/weekday"

	"github.com/google/uuid"
)

// CreateProposalRequest opens a proposal for a listing. DaysSelected is kept
// raw: clients send either weekday names or legacy 1-indexed day numbers, and
// shared/weekday sorts out which.
type CreateProposalRequest struct {
	ListingID        string          `json:"listing_id"         validate:"required"`
	DaysSelected     json.RawMessage `json:"days_selected"      validate:"required"`
	MoveInDate       string          `json:"move_in_date"       validate:"required"`
	MonthlyRentCents int64           `json:"monthly_rent_cents" validate:"required,min=0"`
}

func (c *CreateProposalRequest) ToModel(guestID, hostID, user string) (model.Proposal, error) {
	moveIn, err := time.Parse("2006-01-02", c.MoveInDate)
	if err != nil {
		return model.Proposal{}, err
	}

	status := model.StatusSubmitted

	return model.Proposal{
		ID:               uuid.NewString(),
		ListingID:        c.ListingID,
		GuestID:          guestID,
		HostID:           hostID,
		Status:           string(status),
		UsualOrder:       status.UsualOrder(),
		DaysSelected:     c.DaysSelected,
		MoveInDate:       moveIn,
		MonthlyRentCents: c.MonthlyRentCents,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

// CounterofferRequest carries the host's revised terms. Either field may be
// omitted to keep the guest's original value.
type CounterofferRequest struct {
	DaysSelected     json.RawMessage `json:"days_selected,omitempty"`
	MonthlyRentCents *int64          `json:"monthly_rent_cents,omitempty" validate:"omitempty,min=0"`
}

type SubmitRentalApplicationRequest struct {
	RentalApplicationID string `json:"rental_application_id" validate:"required"`
}

type ProposalResponse struct {
	ID                           string             `json:"id"`
	ListingID                    string             `json:"listing_id"`
	GuestID                      string             `json:"guest_id"`
	HostID                       string             `json:"host_id"`
	Status                       string             `json:"status"`
	UsualOrder                   int                `json:"usual_order"`
	RentalApplicationID          *string            `json:"rental_application_id,omitempty"`
	RentalApplicationSubmitted   bool               `json:"rental_application_submitted"`
	HostDocumentsReviewFinalized bool               `json:"host_documents_review_finalized"`
	DaysSelected                 []string           `json:"days_selected"`
	MoveInDate                   string             `json:"move_in_date"`
	MonthlyRentCents             int64              `json:"monthly_rent_cents"`
	Timeline                     lifecycle.Timeline `json:"timeline"`
	gDto.Metadata
}

func (r *ProposalResponse) FromModel(model model.Proposal) {
	r.ID = model.ID
	r.ListingID = model.ListingID
	r.GuestID = model.GuestID
	r.HostID = model.HostID
	r.Status = model.Status
	r.UsualOrder = model.UsualOrder
	r.RentalApplicationID = model.RentalApplicationID
	r.RentalApplicationSubmitted = model.RentalApplicationSubmitted
	r.HostDocumentsReviewFinalized = model.HostDocumentsReviewFinalized
	r.DaysSelected = weekday.Decode("days_selected", model.DaysSelected).SelectedNames()
	r.MoveInDate = model.MoveInDate.Format("2006-01-02")
	r.MonthlyRentCents = model.MonthlyRentCents
	r.Timeline = lifecycle.Evaluate(lifecycle.FromProposal(model))
	r.Metadata.FromModel(model.Metadata)
}

type GetProposalsResponse struct {
	Proposals []ProposalResponse `json:"proposals"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetProposalsResponse) FromModels(models []model.Proposal, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Proposals = make([]ProposalResponse, len(models))
	for i, mod := range models {
		r.Proposals[i].FromModel(mod)
	}
}
