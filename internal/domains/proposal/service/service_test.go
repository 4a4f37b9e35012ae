package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"splitlease/config"
	"splitlease/infras/otel/mocks"
	listingModel "splitlease/internal/domains/listing/model"
	listingMocks "splitlease/internal/domains/listing/mocks"
	"splitlease/internal/domains/proposal/model"
	"splitlease/internal/domains/proposal/model/dto"
	proposalMocks "splitlease/internal/domains/proposal/mocks"
	"splitlease/internal/domains/proposal/service"
	userMocks "splitlease/internal/domains/user/mocks"
	eventMocks "splitlease/internal/events/mocks"
	cacheMocks "splitlease/shared/cache/mocks"
	"splitlease/shared/constant"
	"splitlease/shared/failure"
)

type proposalServiceMocks struct {
	repo        *proposalMocks.MockProposal
	listingRepo *listingMocks.MockListing
	userRepo    *userMocks.MockUser
	publisher   *eventMocks.MockPublisher
	cache       *cacheMocks.MockRedisCache
}

func newProposalService(ctrl *gomock.Controller) (service.Proposal, proposalServiceMocks) {
	m := proposalServiceMocks{
		repo:        proposalMocks.NewMockProposal(ctrl),
		listingRepo: listingMocks.NewMockListing(ctrl),
		userRepo:    userMocks.NewMockUser(ctrl),
		publisher:   eventMocks.NewMockPublisher(ctrl),
		cache:       cacheMocks.NewMockRedisCache(ctrl),
	}

	svc := service.New(m.repo, m.listingRepo, m.userRepo, m.publisher, &config.Config{}, m.cache, mocks.NewOtel())

	return svc, m
}

// allowAsyncSideEffects covers the fan-out that runs off the request path
// after a persisted change: cache invalidation and event publishing.
func allowAsyncSideEffects(m proposalServiceMocks) {
	m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.publisher.EXPECT().PublishProposalStatusChanged(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func activeListing() listingModel.Listing {
	return listingModel.Listing{
		ID:     "listing-id-1",
		HostID: "host-id-1",
		Title:  "Sunny room in Williamsburg",
		Active: true,
	}
}

func TestProposalService_Create(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "guest-id-1")

	validReq := dto.CreateProposalRequest{
		ListingID:        "listing-id-1",
		DaysSelected:     json.RawMessage(`["Monday","Tuesday","Wednesday"]`),
		MoveInDate:       "2026-09-01",
		MonthlyRentCents: 210000,
	}

	tests := []struct {
		name      string
		req       dto.CreateProposalRequest
		setupMock func(m proposalServiceMocks)
		wantErr   bool
	}{
		{
			name: "successful create",
			req:  validReq,
			setupMock: func(m proposalServiceMocks) {
				m.listingRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(activeListing(), nil)

				m.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				m.userRepo.EXPECT().
					AppendProposalRef(gomock.Any(), "guest-id-1", gomock.Any()).
					Return(nil)

				m.userRepo.EXPECT().
					AppendProposalRef(gomock.Any(), "host-id-1", gomock.Any()).
					Return(nil)

				allowAsyncSideEffects(m)
			},
			wantErr: false,
		},
		{
			name: "listing does not exist",
			req:  validReq,
			setupMock: func(m proposalServiceMocks) {
				m.listingRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(listingModel.Listing{}, nil)
			},
			wantErr: true,
		},
		{
			name: "listing not accepting proposals",
			req:  validReq,
			setupMock: func(m proposalServiceMocks) {
				inactive := activeListing()
				inactive.Active = false

				m.listingRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(inactive, nil)
			},
			wantErr: true,
		},
		{
			name: "no days selected",
			req: dto.CreateProposalRequest{
				ListingID:        "listing-id-1",
				DaysSelected:     json.RawMessage(`[]`),
				MoveInDate:       "2026-09-01",
				MonthlyRentCents: 210000,
			},
			setupMock: func(m proposalServiceMocks) {
				m.listingRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(activeListing(), nil)
			},
			wantErr: true,
		},
		{
			name: "invalid move-in date",
			req: dto.CreateProposalRequest{
				ListingID:        "listing-id-1",
				DaysSelected:     json.RawMessage(`["Monday"]`),
				MoveInDate:       "September 1st",
				MonthlyRentCents: 210000,
			},
			setupMock: func(m proposalServiceMocks) {
				m.listingRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(activeListing(), nil)
			},
			wantErr: true,
		},
		{
			name: "insert fails",
			req:  validReq,
			setupMock: func(m proposalServiceMocks) {
				m.listingRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(activeListing(), nil)

				m.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("insert failed"))
			},
			wantErr: true,
		},
		{
			name: "proposal survives failed user denormalization",
			req:  validReq,
			setupMock: func(m proposalServiceMocks) {
				m.listingRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(activeListing(), nil)

				m.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				m.userRepo.EXPECT().
					AppendProposalRef(gomock.Any(), "guest-id-1", gomock.Any()).
					Return(errors.New("append failed"))

				m.userRepo.EXPECT().
					AppendProposalRef(gomock.Any(), "host-id-1", gomock.Any()).
					Return(errors.New("append failed"))

				allowAsyncSideEffects(m)
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, m := newProposalService(ctrl)
			tt.setupMock(m)

			res, err := svc.Create(ctx, tt.req)

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.NotEmpty(t, res.ID)
			assert.Equal(t, string(model.StatusSubmitted), res.Status)
			assert.Equal(t, "guest-id-1", res.GuestID)
			assert.Equal(t, "host-id-1", res.HostID)
			assert.Equal(t, []string{"Monday", "Tuesday", "Wednesday"}, res.DaysSelected)
		})
	}
}

func storedProposal(status model.Status) model.Proposal {
	return model.Proposal{
		ID:           "proposal-id-1",
		ListingID:    "listing-id-1",
		GuestID:      "guest-id-1",
		HostID:       "host-id-1",
		Status:       string(status),
		UsualOrder:   status.UsualOrder(),
		DaysSelected: json.RawMessage(`["Monday","Tuesday"]`),
	}
}

func TestProposalService_Transitions(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "user-id-1")

	tests := []struct {
		name         string
		current      model.Status
		call         func(svc service.Proposal) error
		wantStatus   model.Status
		wantConflict bool
	}{
		{
			name:       "request rental application from submitted",
			current:    model.StatusSubmitted,
			call:       func(svc service.Proposal) error { return svc.RequestRentalApplication(ctx, "proposal-id-1") },
			wantStatus: model.StatusAwaitingRentalApplication,
		},
		{
			name:    "submit rental application",
			current: model.StatusAwaitingRentalApplication,
			call: func(svc service.Proposal) error {
				return svc.SubmitRentalApplication(ctx, "proposal-id-1", dto.SubmitRentalApplicationRequest{
					RentalApplicationID: "rental-app-1",
				})
			},
			wantStatus: model.StatusPendingConfirmation,
		},
		{
			name:       "confirm submission",
			current:    model.StatusPendingConfirmation,
			call:       func(svc service.Proposal) error { return svc.ConfirmSubmission(ctx, "proposal-id-1") },
			wantStatus: model.StatusHostReview,
		},
		{
			name:    "counteroffer from host review",
			current: model.StatusHostReview,
			call: func(svc service.Proposal) error {
				rent := int64(190000)

				return svc.SubmitCounteroffer(ctx, "proposal-id-1", dto.CounterofferRequest{
					DaysSelected:     json.RawMessage(`["Monday","Thursday"]`),
					MonthlyRentCents: &rent,
				})
			},
			wantStatus: model.StatusHostCounterofferSubmitted,
		},
		{
			name:       "approve directly from host review",
			current:    model.StatusHostReview,
			call:       func(svc service.Proposal) error { return svc.Approve(ctx, "proposal-id-1") },
			wantStatus: model.StatusHostApproved,
		},
		{
			name:       "approve after counteroffer",
			current:    model.StatusHostCounterofferSubmitted,
			call:       func(svc service.Proposal) error { return svc.Approve(ctx, "proposal-id-1") },
			wantStatus: model.StatusHostApproved,
		},
		{
			name:       "send documents for review",
			current:    model.StatusHostApproved,
			call:       func(svc service.Proposal) error { return svc.SendDocumentsForReview(ctx, "proposal-id-1") },
			wantStatus: model.StatusDocumentsSentForReview,
		},
		{
			name:       "send documents for signatures",
			current:    model.StatusDocumentsSentForReview,
			call:       func(svc service.Proposal) error { return svc.SendDocumentsForSignatures(ctx, "proposal-id-1") },
			wantStatus: model.StatusDocumentsSentForSignatures,
		},
		{
			name:       "mark signed",
			current:    model.StatusDocumentsSentForSignatures,
			call:       func(svc service.Proposal) error { return svc.MarkSigned(ctx, "proposal-id-1") },
			wantStatus: model.StatusSignedAwaitingPayment,
		},
		{
			name:       "submit initial payment",
			current:    model.StatusSignedAwaitingPayment,
			call:       func(svc service.Proposal) error { return svc.SubmitInitialPayment(ctx, "proposal-id-1") },
			wantStatus: model.StatusInitialPaymentSubmitted,
		},
		{
			name:       "guest cancels mid-flow",
			current:    model.StatusHostReview,
			call:       func(svc service.Proposal) error { return svc.Cancel(ctx, "proposal-id-1", false) },
			wantStatus: model.StatusCancelledByGuest,
		},
		{
			name:       "operations cancels after signing",
			current:    model.StatusSignedAwaitingPayment,
			call:       func(svc service.Proposal) error { return svc.Cancel(ctx, "proposal-id-1", true) },
			wantStatus: model.StatusCancelledBySplitLease,
		},
		{
			name:       "host rejects early",
			current:    model.StatusSubmitted,
			call:       func(svc service.Proposal) error { return svc.Reject(ctx, "proposal-id-1") },
			wantStatus: model.StatusRejectedByHost,
		},
		{
			name:         "cannot skip ahead to payment",
			current:      model.StatusSubmitted,
			call:         func(svc service.Proposal) error { return svc.SubmitInitialPayment(ctx, "proposal-id-1") },
			wantConflict: true,
		},
		{
			name:         "guest cannot cancel after signing",
			current:      model.StatusSignedAwaitingPayment,
			call:         func(svc service.Proposal) error { return svc.Cancel(ctx, "proposal-id-1", false) },
			wantConflict: true,
		},
		{
			name:         "host cannot reject approved proposal",
			current:      model.StatusHostApproved,
			call:         func(svc service.Proposal) error { return svc.Reject(ctx, "proposal-id-1") },
			wantConflict: true,
		},
		{
			name:         "cancelled proposal absorbs further moves",
			current:      model.StatusCancelledByGuest,
			call:         func(svc service.Proposal) error { return svc.Approve(ctx, "proposal-id-1") },
			wantConflict: true,
		},
		{
			name:         "paid proposal is final",
			current:      model.StatusInitialPaymentSubmitted,
			call:         func(svc service.Proposal) error { return svc.Cancel(ctx, "proposal-id-1", true) },
			wantConflict: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, m := newProposalService(ctrl)

			m.repo.EXPECT().
				Get(gomock.Any(), gomock.Any()).
				Return(storedProposal(tt.current), nil)

			if !tt.wantConflict {
				m.repo.EXPECT().
					UpdateStatus(gomock.Any(), "proposal-id-1", tt.wantStatus, gomock.Any(), "user-id-1").
					Return(nil)

				allowAsyncSideEffects(m)
			}

			err := tt.call(svc)

			time.Sleep(10 * time.Millisecond)

			if tt.wantConflict {
				assert.Error(t, err)
				assert.Equal(t, 409, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestProposalService_TransitionGuards(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "user-id-1")

	t.Run("proposal not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newProposalService(ctrl)

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Proposal{}, nil)

		err := svc.Approve(ctx, "missing-id")

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})

	t.Run("unrecognized stored status", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newProposalService(ctrl)

		legacy := storedProposal(model.StatusSubmitted)
		legacy.Status = "Under Negotiation"

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(legacy, nil)

		err := svc.Approve(ctx, "proposal-id-1")

		assert.Error(t, err)
		assert.Equal(t, 409, failure.GetCode(err))
	})

	t.Run("repository error bubbles up", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newProposalService(ctrl)

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Proposal{}, errors.New("connection refused"))

		err := svc.Approve(ctx, "proposal-id-1")

		assert.Error(t, err)
	})

	t.Run("counteroffer with empty day selection", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, _ := newProposalService(ctrl)

		err := svc.SubmitCounteroffer(ctx, "proposal-id-1", dto.CounterofferRequest{
			DaysSelected: json.RawMessage(`[]`),
		})

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})
}

func TestProposalService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("found on cache miss", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newProposalService(ctrl)

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(storedProposal(model.StatusHostReview), nil)

		m.cache.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		res, err := svc.Get(ctx, "proposal-id-1")

		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
		assert.Equal(t, "proposal-id-1", res.ID)
		assert.Equal(t, string(model.StatusHostReview), res.Status)
		assert.Equal(t, []string{"Monday", "Tuesday"}, res.DaysSelected)
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newProposalService(ctrl)

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Proposal{}, nil)

		_, err := svc.Get(ctx, "missing-id")

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}
