package repository

import (
	"go-shop-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AlertRepository interface {
	Create(alert *model.Alert) error
	FindOpenForShop(shopID uuid.UUID) ([]model.Alert, error)
	OpenLowStockExists(shopID, productID uuid.UUID) (bool, error)
	SetFlag(id, shopID uuid.UUID, flag string) (*model.Alert, error)
}

// Flag column names accepted by SetFlag.
const (
	AlertFlagSeen     = "seen"
	AlertFlagIgnored  = "ignored"
	AlertFlagArchived = "archived"
)

type alertRepo struct {
	db *gorm.DB
}

func NewAlertRepo(db *gorm.DB) AlertRepository {
	return &alertRepo{db}
}

func (r *alertRepo) Create(alert *model.Alert) error {
	return translate(r.db.Create(alert).Error)
}

func (r *alertRepo) FindOpenForShop(shopID uuid.UUID) ([]model.Alert, error) {
	var alerts []model.Alert
	err := r.db.Where("shop_id = ? AND archived = false", shopID).
		Order("created_at DESC").
		Find(&alerts).Error
	return alerts, translate(err)
}

// OpenLowStockExists prevents piling up duplicate alerts while a product
// stays under the threshold.
func (r *alertRepo) OpenLowStockExists(shopID, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&model.Alert{}).
		Where("shop_id = ? AND product_id = ? AND type = ? AND archived = false AND ignored = false",
			shopID, productID, model.AlertLowStock).
		Count(&count).Error
	if err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (r *alertRepo) SetFlag(id, shopID uuid.UUID, flag string) (*model.Alert, error) {
	res := r.db.Model(&model.Alert{}).
		Where("id = ? AND shop_id = ?", id, shopID).
		Update(flag, true)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var alert model.Alert
	if err := r.db.First(&alert, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &alert, nil
}
