package service

import (
	"context"
	"errors"
	"time"

	"go-shop-backend/internal/model"
	"go-shop-backend/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrNoSubscription       = errors.New("no subscription found for shop")
	ErrSubscriptionInactive = errors.New("subscription is inactive")
	ErrSubscriptionExpired  = errors.New("subscription has expired")
)

// SubscriptionService is the entitlement gate. Callers run Check before
// invoking the engine; the engine itself never consults subscriptions.
type SubscriptionService interface {
	Check(ctx context.Context, principal model.Principal) error
}

type subscriptionService struct {
	subscriptionRepo repository.SubscriptionRepository
	now              func() time.Time
}

func NewSubscriptionService(subscriptionRepo repository.SubscriptionRepository) SubscriptionService {
	return &subscriptionService{
		subscriptionRepo: subscriptionRepo,
		now:              time.Now,
	}
}

func (s *subscriptionService) Check(ctx context.Context, principal model.Principal) error {
	// super_admin is never gated.
	if principal.Role == model.RoleSuperAdmin {
		return nil
	}
	if principal.ShopID == uuid.Nil {
		return ErrNoSubscription
	}

	subscription, err := s.subscriptionRepo.LatestForShop(principal.ShopID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNoSubscription
		}
		return err
	}

	if subscription.Status != model.SubscriptionActive {
		return ErrSubscriptionInactive
	}
	if subscription.ExpiresAt != nil && subscription.ExpiresAt.Before(s.now()) {
		return ErrSubscriptionExpired
	}
	return nil
}
