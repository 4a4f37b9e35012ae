package service

import (
	"context"
	"fmt"

	"splitlease/config"
	"splitlease/infras/otel"
	listingModel "splitlease/internal/domains/listing/model"
	listingRepo "splitlease/internal/domains/listing/repository"
	"splitlease/internal/domains/proposal/model"
	"splitlease/internal/domains/proposal/model/dto"
	"splitlease/internal/domains/proposal/repository"
	userRepo "splitlease/internal/domains/user/repository"
	"splitlease/internal/events"
	"splitlease/shared"
	"splitlease/shared/cache"
	"splitlease/shared/constant"
	gDto "splitlease/shared/dto"
	"splitlease/shared/failure"
	"splitlease/shared/weekday"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetProposal    = "proposal:get"
	cacheGetAllProposal = "proposal:gets"
	cacheCountProposal  = "proposal:count"
)

type Proposal interface {
	Create(ctx context.Context, req dto.CreateProposalRequest) (dto.ProposalResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetProposalsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.ProposalResponse, error)
	RequestRentalApplication(ctx context.Context, id string) error
	SubmitRentalApplication(ctx context.Context, id string, req dto.SubmitRentalApplicationRequest) error
	ConfirmSubmission(ctx context.Context, id string) error
	SubmitCounteroffer(ctx context.Context, id string, req dto.CounterofferRequest) error
	Approve(ctx context.Context, id string) error
	SendDocumentsForReview(ctx context.Context, id string) error
	SendDocumentsForSignatures(ctx context.Context, id string) error
	MarkSigned(ctx context.Context, id string) error
	SubmitInitialPayment(ctx context.Context, id string) error
	Cancel(ctx context.Context, id string, byOperations bool) error
	Reject(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo        repository.Proposal
	listingRepo listingRepo.Listing
	userRepo    userRepo.User
	publisher   events.Publisher
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(
	repo repository.Proposal,
	listingRepo listingRepo.Listing,
	userRepo userRepo.User,
	publisher events.Publisher,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Proposal {
	return &serviceImpl{
		repo:        repo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		publisher:   publisher,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateProposalRequest) (res dto.ProposalResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	guest, _ := ctx.Value(constant.ContextKeyUserID).(string)

	listing, err := s.listingRepo.Get(ctx, shared.FilterByID(req.ListingID, listingModel.FieldID, listingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get listing")

		return res, fmt.Errorf("failed to get listing: %w", err)
	}

	if listing.ID == constant.Empty {
		return res, failure.BadRequestFromString("listing does not exist") // nolint:wrapcheck
	}

	if !listing.Active {
		return res, failure.BadRequestFromString("listing is not accepting proposals") // nolint:wrapcheck
	}

	if len(weekday.Decode("days_selected", req.DaysSelected).SelectedNames()) == 0 {
		return res, failure.BadRequestFromString("at least one day must be selected") // nolint:wrapcheck
	}

	proposal, err := req.ToModel(guest, listing.HostID, guest)
	if err != nil {
		log.Error().Err(err).Msg("failed to parse proposal request")

		return res, failure.BadRequestFromString(fmt.Sprintf("invalid move-in date: %v", err)) // nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, proposal); err != nil {
		log.Error().Err(err).Msg("failed to create proposal")

		return res, fmt.Errorf("failed to create proposal: %w", err)
	}

	// Both party rows keep a denormalized list of proposal ids; the appends are
	// atomic on the database side, so a failure here only loses the
	// denormalization, not the proposal.
	if err := s.userRepo.AppendProposalRef(ctx, guest, proposal.ID); err != nil {
		log.Error().Err(err).Str("proposalID", proposal.ID).Msg("failed to append proposal to guest")
	}

	if err := s.userRepo.AppendProposalRef(ctx, listing.HostID, proposal.ID); err != nil {
		log.Error().Err(err).Str("proposalID", proposal.ID).Msg("failed to append proposal to host")
	}

	s.afterTransition(ctx, proposal, constant.Empty, proposal.Status, guest)

	res.FromModel(proposal)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetProposalsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllProposal, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for proposals")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count proposals")

		return res, fmt.Errorf("failed to count proposals: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get proposals")

		return res, fmt.Errorf("failed to get proposals: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save proposals to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountProposal, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for proposal count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count proposals")

		return res, fmt.Errorf("failed to count proposals: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save proposal count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ProposalResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(nil)

	cacheKey := shared.BuildCacheKey(cacheGetProposal, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for proposal")

		return res, nil
	}

	proposal, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get proposal")

		return res, fmt.Errorf("failed to get proposal: %w", err)
	}

	if proposal.ID == constant.Empty {
		return res, failure.NotFound("proposal not found") // nolint:wrapcheck
	}

	res.FromModel(proposal)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save proposal to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) RequestRentalApplication(ctx context.Context, id string) error {
	return s.transition(ctx, id, "RequestRentalApplication", model.StatusAwaitingRentalApplication, nil)
}

func (s *serviceImpl) SubmitRentalApplication(ctx context.Context, id string, req dto.SubmitRentalApplicationRequest) error {
	return s.transition(ctx, id, "SubmitRentalApplication", model.StatusPendingConfirmation, map[string]any{
		model.FieldRentalApplicationID:        req.RentalApplicationID,
		model.FieldRentalApplicationSubmitted: true,
	})
}

func (s *serviceImpl) ConfirmSubmission(ctx context.Context, id string) error {
	return s.transition(ctx, id, "ConfirmSubmission", model.StatusHostReview, nil)
}

func (s *serviceImpl) SubmitCounteroffer(ctx context.Context, id string, req dto.CounterofferRequest) error {
	extra := map[string]any{}

	if req.DaysSelected != nil {
		if len(weekday.Decode("days_selected", req.DaysSelected).SelectedNames()) == 0 {
			return failure.BadRequestFromString("at least one day must be selected") // nolint:wrapcheck
		}

		extra[model.FieldDaysSelected] = req.DaysSelected
	}

	if req.MonthlyRentCents != nil {
		extra[model.FieldMonthlyRentCents] = *req.MonthlyRentCents
	}

	return s.transition(ctx, id, "SubmitCounteroffer", model.StatusHostCounterofferSubmitted, extra)
}

func (s *serviceImpl) Approve(ctx context.Context, id string) error {
	return s.transition(ctx, id, "Approve", model.StatusHostApproved, nil)
}

func (s *serviceImpl) SendDocumentsForReview(ctx context.Context, id string) error {
	return s.transition(ctx, id, "SendDocumentsForReview", model.StatusDocumentsSentForReview, nil)
}

func (s *serviceImpl) SendDocumentsForSignatures(ctx context.Context, id string) error {
	// Moving to signatures closes the review window.
	return s.transition(ctx, id, "SendDocumentsForSignatures", model.StatusDocumentsSentForSignatures, map[string]any{
		model.FieldHostDocumentsReviewFinalized: true,
	})
}

func (s *serviceImpl) MarkSigned(ctx context.Context, id string) error {
	return s.transition(ctx, id, "MarkSigned", model.StatusSignedAwaitingPayment, nil)
}

func (s *serviceImpl) SubmitInitialPayment(ctx context.Context, id string) error {
	return s.transition(ctx, id, "SubmitInitialPayment", model.StatusInitialPaymentSubmitted, nil)
}

func (s *serviceImpl) Cancel(ctx context.Context, id string, byOperations bool) error {
	to := model.StatusCancelledByGuest
	if byOperations {
		to = model.StatusCancelledBySplitLease
	}

	return s.transition(ctx, id, "Cancel", to, nil)
}

func (s *serviceImpl) Reject(ctx context.Context, id string) error {
	return s.transition(ctx, id, "Reject", model.StatusRejectedByHost, nil)
}

// transition moves a proposal to a target status after checking the lifecycle
// graph. Status and usual_order are written together by the repository, and
// every successful move publishes a status-changed event.
func (s *serviceImpl) transition(ctx context.Context, id, op string, to model.Status, extra map[string]any) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+"."+op)
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	proposal, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get proposal")

		return fmt.Errorf("failed to get proposal: %w", err)
	}

	if proposal.ID == constant.Empty {
		return failure.NotFound("proposal not found") // nolint:wrapcheck
	}

	current, known := model.ParseStatus(proposal.Status)
	if !known {
		return failure.Conflict(fmt.Sprintf("proposal has unrecognized status %q", proposal.Status)) // nolint:wrapcheck
	}

	if !model.CanTransition(current, to) {
		return failure.Conflict(fmt.Sprintf("cannot move proposal from %q to %q", current, to)) // nolint:wrapcheck
	}

	if err := s.repo.UpdateStatus(ctx, id, to, extra, user); err != nil {
		log.Error().Err(err).Msg("failed to update proposal status")

		return fmt.Errorf("failed to update proposal status: %w", err)
	}

	s.afterTransition(ctx, proposal, proposal.Status, string(to), user)

	return nil
}

// afterTransition fans out the side effects of a persisted status change:
// cache invalidation and the status-changed event. Both run off the request
// path and never fail the caller.
func (s *serviceImpl) afterTransition(ctx context.Context, proposal model.Proposal, from, to, user string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetProposal, proposal.ID)); err != nil {
			log.Error().Err(err).Msg("failed to delete proposal from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllProposal)
		shared.InvalidateCaches(c, s.cache, cacheCountProposal)

		err := s.publisher.PublishProposalStatusChanged(c, events.ProposalStatusChanged{
			ProposalID: proposal.ID,
			ListingID:  proposal.ListingID,
			GuestID:    proposal.GuestID,
			HostID:     proposal.HostID,
			From:       from,
			To:         to,
			ChangedBy:  user,
		})
		if err != nil {
			log.Error().Err(err).Str("proposalID", proposal.ID).Msg("failed to publish proposal status change")
		}
	}()
}
