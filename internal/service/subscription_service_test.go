package service

import (
	"context"
	"testing"
	"time"

	"go-shop-backend/internal/model"
	"go-shop-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type subscriptionRepoMock struct{ mock.Mock }

func (m *subscriptionRepoMock) Create(subscription *model.Subscription) error {
	args := m.Called(subscription)
	return args.Error(0)
}

func (m *subscriptionRepoMock) LatestForShop(shopID uuid.UUID) (*model.Subscription, error) {
	args := m.Called(shopID)
	sub, _ := args.Get(0).(*model.Subscription)
	return sub, args.Error(1)
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestSubscriptionCheck(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	shopID := uuid.New()
	principal := model.Principal{UserID: uuid.New(), ShopID: shopID, Role: model.RoleOwner}

	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	tests := []struct {
		name         string
		subscription *model.Subscription
		repoErr      error
		want         error
	}{
		{
			name:         "active and unexpired",
			subscription: &model.Subscription{ShopID: shopID, Status: model.SubscriptionActive, ExpiresAt: &future},
			want:         nil,
		},
		{
			name:         "active without expiry",
			subscription: &model.Subscription{ShopID: shopID, Status: model.SubscriptionActive},
			want:         nil,
		},
		{
			name:         "inactive",
			subscription: &model.Subscription{ShopID: shopID, Status: model.SubscriptionInactive, ExpiresAt: &future},
			want:         ErrSubscriptionInactive,
		},
		{
			name:         "expired",
			subscription: &model.Subscription{ShopID: shopID, Status: model.SubscriptionActive, ExpiresAt: &past},
			want:         ErrSubscriptionExpired,
		},
		{
			name:    "no subscription row",
			repoErr: repository.ErrNotFound,
			want:    ErrNoSubscription,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(subscriptionRepoMock)
			repo.On("LatestForShop", shopID).Return(tt.subscription, tt.repoErr)

			svc := NewSubscriptionService(repo).(*subscriptionService)
			svc.now = fixedClock(now)

			err := svc.Check(context.Background(), principal)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestSubscriptionCheckSuperAdminBypass(t *testing.T) {
	repo := new(subscriptionRepoMock)
	svc := NewSubscriptionService(repo)

	err := svc.Check(context.Background(), model.Principal{Role: model.RoleSuperAdmin})
	assert.NoError(t, err)
	repo.AssertNotCalled(t, "LatestForShop", mock.Anything)
}

func TestSubscriptionCheckWithoutShop(t *testing.T) {
	repo := new(subscriptionRepoMock)
	svc := NewSubscriptionService(repo)

	err := svc.Check(context.Background(), model.Principal{UserID: uuid.New(), Role: model.RoleOwner})
	assert.ErrorIs(t, err, ErrNoSubscription)
	repo.AssertNotCalled(t, "LatestForShop", mock.Anything)
}
