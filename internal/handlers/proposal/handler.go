package proposal

import (
	"context"
	"net/http"
	"splitlease/infras/otel"
	"splitlease/internal/domains/proposal/model"
	"splitlease/internal/domains/proposal/model/dto"
	"splitlease/internal/domains/proposal/service"
	"splitlease/shared"
	"splitlease/shared/constant"
	gDto "splitlease/shared/dto"
	"splitlease/shared/failure"
	"splitlease/shared/validator"
	"splitlease/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Proposal
	otel    otel.Otel
}

func New(service service.Proposal, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/proposals", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateProposal)
		routerGroup.Get("/", handler.GetProposals)
		routerGroup.Get("/myproposals", handler.GetMyProposals)
		routerGroup.Get("/{id}", handler.GetProposalByID)
		routerGroup.Post("/{id}/rental-application/request", handler.RequestRentalApplication)
		routerGroup.Post("/{id}/rental-application", handler.SubmitRentalApplication)
		routerGroup.Post("/{id}/confirm", handler.ConfirmSubmission)
		routerGroup.Post("/{id}/counteroffer", handler.SubmitCounteroffer)
		routerGroup.Post("/{id}/approve", handler.Approve)
		routerGroup.Post("/{id}/documents/review", handler.SendDocumentsForReview)
		routerGroup.Post("/{id}/documents/signatures", handler.SendDocumentsForSignatures)
		routerGroup.Post("/{id}/signed", handler.MarkSigned)
		routerGroup.Post("/{id}/payment", handler.SubmitInitialPayment)
		routerGroup.Post("/{id}/cancel", handler.Cancel)
		routerGroup.Post("/{id}/reject", handler.Reject)
	})
}

// CreateProposal handles the creation of a new proposal.
// @Summary Create a new proposal
// @Description Open a proposal on a listing. Days can be weekday names or legacy 1-indexed day numbers.
// @Tags Proposal
// @Accept json
// @Produce json
// @Param request body dto.CreateProposalRequest true "Create Proposal Request"
// @Success 201 {object} response.Data[dto.ProposalResponse] "Proposal created successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/proposals [post]
// @Security BearerAuth
func (handler *Handler) CreateProposal(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateProposal")
	defer scope.End()

	req := dto.CreateProposalRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	proposal, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create proposal")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Proposal created successfully by user " + user)

	response.WithJSON(w, http.StatusCreated, proposal)
}

// GetProposals retrieves all proposals based on query parameters.
// @Summary Get all proposals
// @Description Retrieve all proposals with optional filtering and pagination.
// @Tags Proposal
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param listing_id query string false "Filter by listing ID"
// @Param guest_id query string false "Filter by guest ID"
// @Param host_id query string false "Filter by host ID"
// @Param status query string false "Filter by lifecycle status"
// @Success 200 {object} response.Data[dto.ProposalResponse] "List of proposals"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/proposals [get]
func (handler *Handler) GetProposals(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetProposals")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	for _, field := range []string{model.FieldListingID, model.FieldGuestID, model.FieldHostID, model.FieldStatus} {
		value := r.URL.Query().Get(field)
		if value == "" {
			continue
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    field,
			Operator: gDto.FilterOperatorEq,
			Value:    value,
			Table:    model.TableName,
		})
	}

	proposals, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get proposals")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Proposals retrieved successfully")

	response.WithJSON(w, http.StatusOK, proposals)
}

// GetMyProposals retrieves all proposals where the caller is the guest.
// @Summary Get my proposals
// @Description Retrieve all proposals opened by the currently authenticated user.
// @Tags Proposal
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by lifecycle status"
// @Success 200 {object} response.Data[dto.ProposalResponse] "List of user's proposals"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/proposals/myproposals [get]
// @Security BearerAuth
func (handler *Handler) GetMyProposals(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyProposals")
	defer scope.End()

	userID, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || userID == "" {
		scope.TraceError(nil)
		log.Error().Msg("failed to get user ID from context")
		response.WithError(w, failure.Unauthorized("unauthorized"))

		return
	}

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldGuestID,
				Operator: gDto.FilterOperatorEq,
				Value:    userID,
				Table:    model.TableName,
			},
		},
	}

	if status := r.URL.Query().Get(model.FieldStatus); status != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	proposals, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get user proposals")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("User proposals retrieved successfully for user " + userID)

	response.WithJSON(w, http.StatusOK, proposals)
}

// GetProposalByID retrieves a proposal by its ID.
// @Summary Get a proposal by ID
// @Description Retrieve a proposal, including its derived progress timeline.
// @Tags Proposal
// @Accept json
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {object} response.Data[dto.ProposalResponse] "Proposal details"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/proposals/{id} [get]
func (handler *Handler) GetProposalByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetProposalByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	proposal, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get proposal by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Proposal retrieved successfully")

	response.WithJSON(w, http.StatusOK, proposal)
}

// RequestRentalApplication asks the guest for a rental application.
// @Summary Request a rental application
// @Tags Proposal
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/proposals/{id}/rental-application/request [post]
// @Security BearerAuth
func (handler *Handler) RequestRentalApplication(w http.ResponseWriter, r *http.Request) {
	handler.runTransition(w, r, "RequestRentalApplication", "Rental application requested",
		handler.service.RequestRentalApplication)
}

// SubmitRentalApplication records the guest's rental application.
// @Summary Submit a rental application
// @Tags Proposal
// @Accept json
// @Produce json
// @Param id path string true "Proposal ID"
// @Param request body dto.SubmitRentalApplicationRequest true "Submit Rental Application Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/proposals/{id}/rental-application [post]
// @Security BearerAuth
func (handler *Handler) SubmitRentalApplication(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SubmitRentalApplication")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.SubmitRentalApplicationRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.SubmitRentalApplication(ctx, id, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to submit rental application")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Rental application submitted")

	response.WithMessage(w, http.StatusOK, "Rental application submitted")
}

// ConfirmSubmission confirms the rental application and hands the proposal to the host.
// @Summary Confirm the rental application submission
// @Tags Proposal
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/proposals/{id}/confirm [post]
// @Security BearerAuth
func (handler *Handler) ConfirmSubmission(w http.ResponseWriter, r *http.Request) {
	handler.runTransition(w, r, "ConfirmSubmission", "Proposal handed to host review",
		handler.service.ConfirmSubmission)
}

// SubmitCounteroffer records the host's revised terms.
// @Summary Submit a host counteroffer
// @Tags Proposal
// @Accept json
// @Produce json
// @Param id path string true "Proposal ID"
// @Param request body dto.CounterofferRequest true "Counteroffer Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/proposals/{id}/counteroffer [post]
// @Security BearerAuth
func (handler *Handler) SubmitCounteroffer(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SubmitCounteroffer")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.CounterofferRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.SubmitCounteroffer(ctx, id, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to submit counteroffer")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Counteroffer submitted")

	response.WithMessage(w, http.StatusOK, "Counteroffer submitted")
}

// Approve moves the proposal to host approved.
// @Summary Approve a proposal
// @Tags Proposal
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/proposals/{id}/approve [post]
// @Security BearerAuth
func (handler *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	handler.runTransition(w, r, "Approve", "Proposal approved",
		handler.service.Approve)
}

// SendDocumentsForReview sends the lease documents out for review.
// @Summary Send lease documents for review
// @Tags Proposal
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/proposals/{id}/documents/review [post]
// @Security BearerAuth
func (handler *Handler) SendDocumentsForReview(w http.ResponseWriter, r *http.Request) {
	handler.runTransition(w, r, "SendDocumentsForReview", "Documents sent for review",
		handler.service.SendDocumentsForReview)
}

// SendDocumentsForSignatures closes the review window and sends documents for signatures.
// @Summary Send lease documents for signatures
// @Tags Proposal
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/proposals/{id}/documents/signatures [post]
// @Security BearerAuth
func (handler *Handler) SendDocumentsForSignatures(w http.ResponseWriter, r *http.Request) {
	handler.runTransition(w, r, "SendDocumentsForSignatures", "Documents sent for signatures",
		handler.service.SendDocumentsForSignatures)
}

// MarkSigned records that all parties have signed.
// @Summary Mark lease documents signed
// @Tags Proposal
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/proposals/{id}/signed [post]
// @Security BearerAuth
func (handler *Handler) MarkSigned(w http.ResponseWriter, r *http.Request) {
	handler.runTransition(w, r, "MarkSigned", "Lease documents signed",
		handler.service.MarkSigned)
}

// SubmitInitialPayment records the initial payment.
// @Summary Submit the initial payment
// @Tags Proposal
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/proposals/{id}/payment [post]
// @Security BearerAuth
func (handler *Handler) SubmitInitialPayment(w http.ResponseWriter, r *http.Request) {
	handler.runTransition(w, r, "SubmitInitialPayment", "Initial payment submitted",
		handler.service.SubmitInitialPayment)
}

// Cancel cancels a proposal, either by the guest or by operations.
// @Summary Cancel a proposal
// @Tags Proposal
// @Produce json
// @Param id path string true "Proposal ID"
// @Param by_operations query bool false "Cancel on behalf of Split Lease operations"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/proposals/{id}/cancel [post]
// @Security BearerAuth
func (handler *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	byOperations := false
	if value := shared.ConvertStringToBool(r.URL.Query().Get("by_operations")); value != nil {
		byOperations = *value
	}

	handler.runTransition(w, r, "Cancel", "Proposal cancelled",
		func(ctx context.Context, id string) error {
			return handler.service.Cancel(ctx, id, byOperations)
		})
}

// Reject rejects a proposal on behalf of the host.
// @Summary Reject a proposal
// @Tags Proposal
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/proposals/{id}/reject [post]
// @Security BearerAuth
func (handler *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	handler.runTransition(w, r, "Reject", "Proposal rejected",
		handler.service.Reject)
}

// runTransition is the shared shape of the bodyless transition endpoints:
// resolve the id, run the service call, answer with a message.
func (handler *Handler) runTransition(w http.ResponseWriter, r *http.Request, op, successMessage string, fn func(ctx context.Context, id string) error) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+"."+op)
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := fn(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("op", op).Msg("failed to transition proposal")

		response.WithError(w, err)

		return
	}

	scope.AddEvent(successMessage)

	response.WithMessage(w, http.StatusOK, successMessage)
}
