package dto

import (
	"encoding/json"
	"mime/multipart"

	"splitlease/internal/domains/listing/model"
	"splitlease/shared"
	gDto "splitlease/shared/dto"
	gModel "splitlease/shared/model"
	"splitlease/shared/timezone"
	"splitlease/shared/weekday"

	"github.com/google/uuid"
)

type CreateListingRequest struct {
	Title            string                `json:"title"              validate:"required,max=150"`
	Description      string                `json:"description"        validate:"omitempty,max=2000"`
	Neighborhood     string                `json:"neighborhood"       validate:"omitempty,max=100"`
	City             string                `json:"city"               validate:"required,max=100"`
	Bedrooms         int                   `json:"bedrooms"           validate:"omitempty,min=0"`
	Bathrooms        int                   `json:"bathrooms"          validate:"omitempty,min=0"`
	NightlyRateCents int64                 `json:"nightly_rate_cents" validate:"required,min=0"`
	AvailableDays    []string              `json:"available_days"     validate:"omitempty,dive,oneof=Sunday Monday Tuesday Wednesday Thursday Friday Saturday"`
	Photo            *multipart.FileHeader `json:"photo"              validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	PhotoFile        multipart.File        `json:"-"`
	Active           *bool                 `json:"active"             validate:"omitempty"`
}

func (c *CreateListingRequest) ToModel(hostID, user, photoURL string) model.Listing {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	days, _ := json.Marshal(c.AvailableDays)

	return model.Listing{
		ID:               uuid.NewString(),
		HostID:           hostID,
		Title:            c.Title,
		Description:      c.Description,
		Neighborhood:     c.Neighborhood,
		City:             c.City,
		Bedrooms:         c.Bedrooms,
		Bathrooms:        c.Bathrooms,
		NightlyRateCents: c.NightlyRateCents,
		Photo:            photoURL,
		AvailableDays:    days,
		Active:           active,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateListingRequest struct {
	Title            string                `db:"title"              json:"title"              validate:"omitempty,max=150"`
	Description      string                `db:"description"        json:"description"        validate:"omitempty,max=2000"`
	Neighborhood     string                `db:"neighborhood"       json:"neighborhood"       validate:"omitempty,max=100"`
	City             string                `db:"city"               json:"city"               validate:"omitempty,max=100"`
	Bedrooms         *int                  `db:"bedrooms"           json:"bedrooms"           validate:"omitempty,min=0"`
	Bathrooms        *int                  `db:"bathrooms"          json:"bathrooms"          validate:"omitempty,min=0"`
	NightlyRateCents *int64                `db:"nightly_rate_cents" json:"nightly_rate_cents" validate:"omitempty,min=0"`
	AvailableDays    []string              `json:"available_days"   validate:"omitempty,dive,oneof=Sunday Monday Tuesday Wednesday Thursday Friday Saturday"`
	Photo            *multipart.FileHeader `json:"photo"            validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	PhotoFile        multipart.File        `json:"-"`
	Active           *bool                 `db:"active"             json:"active"             validate:"omitempty"`
}

type ListingResponse struct {
	ID               string   `json:"id"`
	HostID           string   `json:"host_id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Neighborhood     string   `json:"neighborhood"`
	City             string   `json:"city"`
	Bedrooms         int      `json:"bedrooms"`
	Bathrooms        int      `json:"bathrooms"`
	NightlyRateCents int64    `json:"nightly_rate_cents"`
	Photo            string   `json:"photo"`
	AvailableDays    []string `json:"available_days"`
	Active           bool     `json:"active"`
	gDto.Metadata
}

func (r *ListingResponse) FromModel(model model.Listing) {
	r.ID = model.ID
	r.HostID = model.HostID
	r.Title = model.Title
	r.Description = model.Description
	r.Neighborhood = model.Neighborhood
	r.City = model.City
	r.Bedrooms = model.Bedrooms
	r.Bathrooms = model.Bathrooms
	r.NightlyRateCents = model.NightlyRateCents
	r.Photo = model.Photo
	r.AvailableDays = weekday.Decode("available_days", model.AvailableDays).SelectedNames()
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetListingsResponse struct {
	Listings  []ListingResponse `json:"listings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetListingsResponse) FromModels(models []model.Listing, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Listings = make([]ListingResponse, len(models))
	for i, mod := range models {
		r.Listings[i].FromModel(mod)
	}
}
