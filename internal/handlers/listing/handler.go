package listing

import (
	"net/http"
	"strings"

	"splitlease/infras/otel"
	"splitlease/internal/domains/listing/model"
	"splitlease/internal/domains/listing/model/dto"
	"splitlease/internal/domains/listing/service"
	"splitlease/shared"
	"splitlease/shared/constant"
	gDto "splitlease/shared/dto"
	"splitlease/shared/validator"
	"splitlease/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Listing
	otel    otel.Otel
}

func New(service service.Listing, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/listings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateListing)
		routerGroup.Get("/", handler.GetListings)
		routerGroup.Get("/{id}", handler.GetListingByID)
		routerGroup.Patch("/{id}", handler.UpdateListing)
		routerGroup.Delete("/{id}", handler.DeleteListing)
	})
}

// splitDays parses the comma-separated available_days form field.
func splitDays(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	days := make([]string, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			days = append(days, trimmed)
		}
	}

	return days
}

// CreateListing handles the creation of a new listing.
// @Summary Create a new listing
// @Description Create a new listing with the provided details.
// @Tags Listing
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Listing title"
// @Param description formData string false "Listing description"
// @Param neighborhood formData string false "Neighborhood"
// @Param city formData string true "City"
// @Param bedrooms formData integer false "Number of bedrooms"
// @Param bathrooms formData integer false "Number of bathrooms"
// @Param nightly_rate_cents formData integer true "Nightly rate in cents"
// @Param available_days formData string false "Comma-separated weekday names"
// @Param active formData boolean false "Listing active status"
// @Param photo formData file false "Listing photo"
// @Success 201 {object} response.Message "Listing created successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/listings [post]
// @Security BearerAuth
func (handler *Handler) CreateListing(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateListing")
	defer scope.End()

	if err := request.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(writer, err)

		return
	}

	req := dto.CreateListingRequest{
		Title:         request.FormValue("title"),
		Description:   request.FormValue("description"),
		Neighborhood:  request.FormValue("neighborhood"),
		City:          request.FormValue("city"),
		AvailableDays: splitDays(request.FormValue("available_days")),
	}

	if bedroomsStr := request.FormValue("bedrooms"); bedroomsStr != "" {
		if b, err := shared.ConvertStringToInt(bedroomsStr); err == nil {
			req.Bedrooms = b
		}
	}

	if bathroomsStr := request.FormValue("bathrooms"); bathroomsStr != "" {
		if b, err := shared.ConvertStringToInt(bathroomsStr); err == nil {
			req.Bathrooms = b
		}
	}

	if rateStr := request.FormValue("nightly_rate_cents"); rateStr != "" {
		if rate, err := shared.ConvertStringToInt(rateStr); err == nil {
			req.NightlyRateCents = int64(rate)
		}
	}

	if activeStr := request.FormValue("active"); activeStr != "" {
		req.Active = shared.ConvertStringToBool(activeStr)
	}

	file, fileHeader, err := request.FormFile("photo")
	if err == nil {
		req.Photo = fileHeader
		req.PhotoFile = file

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create listing")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Listing created successfully by user " + user)

	response.WithMessage(writer, http.StatusCreated, "Listing created successfully")
}

// GetListings retrieves all listings based on query parameters.
// @Summary Get all listings
// @Description Retrieve all listings with optional filtering and pagination.
// @Tags Listing
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param title query string false "Filter by title"
// @Param city query string false "Filter by city"
// @Param host_id query string false "Filter by host ID"
// @Param active query boolean false "Filter by active status"
// @Success 200 {object} response.Data[dto.ListingResponse] "List of listings"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/listings [get]
func (handler *Handler) GetListings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetListings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldTitle,
				Operator: gDto.FilterOperatorLike,
				Value:    r.URL.Query().Get(model.FieldTitle),
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldCity,
				Operator: gDto.FilterOperatorLike,
				Value:    r.URL.Query().Get(model.FieldCity),
				Table:    model.TableName,
			},
		},
	}

	if hostID := r.URL.Query().Get(model.FieldHostID); hostID != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldHostID,
			Operator: gDto.FilterOperatorEq,
			Value:    hostID,
			Table:    model.TableName,
		})
	}

	if active := shared.ConvertStringToBool(r.URL.Query().Get(model.FieldActive)); active != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldActive,
			Operator: gDto.FilterOperatorEq,
			Value:    *active,
			Table:    model.TableName,
		})
	}

	listings, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get listings")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Listings retrieved successfully")

	response.WithJSON(w, http.StatusOK, listings)
}

// GetListingByID retrieves a listing by its ID.
// @Summary Get a listing by ID
// @Description Retrieve a listing by its unique identifier.
// @Tags Listing
// @Accept json
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} response.Data[dto.ListingResponse] "Listing details"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/listings/{id} [get]
func (handler *Handler) GetListingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetListingByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	listing, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get listing by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Listing retrieved successfully")

	response.WithJSON(w, http.StatusOK, listing)
}

// UpdateListing updates an existing listing by its ID.
// @Summary Update a listing by ID
// @Description Update the details of an existing listing.
// @Tags Listing
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Listing ID"
// @Param title formData string false "Listing title"
// @Param description formData string false "Listing description"
// @Param neighborhood formData string false "Neighborhood"
// @Param city formData string false "City"
// @Param bedrooms formData integer false "Number of bedrooms"
// @Param bathrooms formData integer false "Number of bathrooms"
// @Param nightly_rate_cents formData integer false "Nightly rate in cents"
// @Param available_days formData string false "Comma-separated weekday names"
// @Param active formData boolean false "Listing active status"
// @Param photo formData file false "Listing photo"
// @Success 200 {object} response.Message "Listing updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/listings/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateListing")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(w, err)

		return
	}

	req := dto.UpdateListingRequest{
		Title:         r.FormValue("title"),
		Description:   r.FormValue("description"),
		Neighborhood:  r.FormValue("neighborhood"),
		City:          r.FormValue("city"),
		AvailableDays: splitDays(r.FormValue("available_days")),
	}

	if bedroomsStr := r.FormValue("bedrooms"); bedroomsStr != "" {
		if b, err := shared.ConvertStringToInt(bedroomsStr); err == nil {
			req.Bedrooms = &b
		}
	}

	if bathroomsStr := r.FormValue("bathrooms"); bathroomsStr != "" {
		if b, err := shared.ConvertStringToInt(bathroomsStr); err == nil {
			req.Bathrooms = &b
		}
	}

	if rateStr := r.FormValue("nightly_rate_cents"); rateStr != "" {
		if rate, err := shared.ConvertStringToInt(rateStr); err == nil {
			rate64 := int64(rate)
			req.NightlyRateCents = &rate64
		}
	}

	if activeStr := r.FormValue("active"); activeStr != "" {
		req.Active = shared.ConvertStringToBool(activeStr)
	}

	file, fileHeader, err := r.FormFile("photo")
	if err == nil {
		req.Photo = fileHeader
		req.PhotoFile = file

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update listing")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Listing updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Listing updated successfully")
}

// DeleteListing deletes a listing by its ID.
// @Summary Delete a listing by ID
// @Description Delete a listing using its unique identifier.
// @Tags Listing
// @Accept json
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} response.Message "Listing deleted successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/listings/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteListing")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete listing")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Listing deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Listing deleted successfully")
}
