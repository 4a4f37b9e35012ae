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
	userMocks "splitlease/internal/domains/user/mocks"
	"splitlease/internal/domains/user/model"
	"splitlease/internal/domains/user/service"
	cacheMocks "splitlease/shared/cache/mocks"
	"splitlease/shared/failure"
)

func newUserService(ctrl *gomock.Controller) (service.User, *userMocks.MockUser, *cacheMocks.MockRedisCache) {
	mockRepo := userMocks.NewMockUser(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	svc := service.New(mockRepo, &config.Config{}, mockCache, mocks.NewOtel())

	return svc, mockRepo, mockCache
}

func TestUserService_FavoriteListing(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		setupMock func(repo *userMocks.MockUser, cache *cacheMocks.MockRedisCache)
		wantErr   bool
	}{
		{
			name: "successful favorite",
			setupMock: func(repo *userMocks.MockUser, cache *cacheMocks.MockRedisCache) {
				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				repo.EXPECT().
					AppendFavoritedListing(gomock.Any(), "user-id-1", "listing-id-1").
					Return(nil)

				cache.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
		},
		{
			name: "user not found",
			setupMock: func(repo *userMocks.MockUser, cache *cacheMocks.MockRedisCache) {
				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr: true,
		},
		{
			name: "append fails",
			setupMock: func(repo *userMocks.MockUser, cache *cacheMocks.MockRedisCache) {
				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				repo.EXPECT().
					AppendFavoritedListing(gomock.Any(), "user-id-1", "listing-id-1").
					Return(errors.New("append failed"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, mockRepo, mockCache := newUserService(ctrl)
			tt.setupMock(mockRepo, mockCache)

			err := svc.FavoriteListing(ctx, "user-id-1", "listing-id-1")

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestUserService_UnfavoriteListing(t *testing.T) {
	ctx := context.Background()

	t.Run("successful unfavorite", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, mockRepo, mockCache := newUserService(ctrl)

		mockRepo.EXPECT().
			RemoveFavoritedListing(gomock.Any(), "user-id-1", "listing-id-1").
			Return(nil)

		mockCache.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		err := svc.UnfavoriteListing(ctx, "user-id-1", "listing-id-1")

		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
	})

	t.Run("remove fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, mockRepo, _ := newUserService(ctrl)

		mockRepo.EXPECT().
			RemoveFavoritedListing(gomock.Any(), "user-id-1", "listing-id-1").
			Return(errors.New("remove failed"))

		err := svc.UnfavoriteListing(ctx, "user-id-1", "listing-id-1")

		assert.Error(t, err)
	})
}

func TestUserService_GetFavoritedListings(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		stored    json.RawMessage
		wantIDs   []string
		setupMock func(repo *userMocks.MockUser, stored json.RawMessage)
		wantErr   bool
	}{
		{
			name:    "plain array",
			stored:  json.RawMessage(`["listing-1","listing-2"]`),
			wantIDs: []string{"listing-1", "listing-2"},
			setupMock: func(repo *userMocks.MockUser, stored json.RawMessage) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.User{ID: "user-id-1", FavoritedListings: stored}, nil)
			},
		},
		{
			// Historical rows hold the array's JSON text instead of the array.
			// The ids must come back whole, never split into characters.
			name:    "double-encoded array",
			stored:  json.RawMessage(`"[\"listing-1\",\"listing-2\"]"`),
			wantIDs: []string{"listing-1", "listing-2"},
			setupMock: func(repo *userMocks.MockUser, stored json.RawMessage) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.User{ID: "user-id-1", FavoritedListings: stored}, nil)
			},
		},
		{
			name:    "null column",
			stored:  nil,
			wantIDs: []string{},
			setupMock: func(repo *userMocks.MockUser, stored json.RawMessage) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.User{ID: "user-id-1"}, nil)
			},
		},
		{
			name:   "user not found",
			stored: nil,
			setupMock: func(repo *userMocks.MockUser, stored json.RawMessage) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.User{}, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, mockRepo, _ := newUserService(ctrl)
			tt.setupMock(mockRepo, tt.stored)

			res, err := svc.GetFavoritedListings(ctx, "user-id-1")

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, 404, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantIDs, res.ListingIDs)
		})
	}
}
