package repository

import (
	"go-shop-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubscriptionRepository interface {
	Create(subscription *model.Subscription) error
	LatestForShop(shopID uuid.UUID) (*model.Subscription, error)
}

type subscriptionRepo struct {
	db *gorm.DB
}

func NewSubscriptionRepo(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepo{db}
}

func (r *subscriptionRepo) Create(subscription *model.Subscription) error {
	return translate(r.db.Create(subscription).Error)
}

// LatestForShop returns the most recently started subscription; older rows
// are kept as history and never consulted.
func (r *subscriptionRepo) LatestForShop(shopID uuid.UUID) (*model.Subscription, error) {
	var subscription model.Subscription
	err := r.db.Where("shop_id = ?", shopID).
		Order("started_at DESC").
		First(&subscription).Error
	if err != nil {
		return nil, translate(err)
	}
	return &subscription, nil
}
