package repository

import (
	"go-shop-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SaleRepository interface {
	Create(tx *gorm.DB, sale *model.Sale) error
	LockForShop(tx *gorm.DB, id, shopID uuid.UUID) (*model.Sale, error)
	Update(tx *gorm.DB, sale *model.Sale) error
	Archive(tx *gorm.DB, id uuid.UUID) error
	FindForShop(id, shopID uuid.UUID) (*model.Sale, error)
	FindAllForShop(shopID uuid.UUID) ([]model.Sale, error)
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) Create(tx *gorm.DB, sale *model.Sale) error {
	return translate(tx.Create(sale).Error)
}

// LockForShop reads the sale under SELECT ... FOR UPDATE. Reversed sales
// are soft-deleted and therefore report ErrNotFound here.
func (r *saleRepo) LockForShop(tx *gorm.DB, id, shopID uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&sale, "id = ? AND shop_id = ?", id, shopID).Error
	if err != nil {
		return nil, translate(err)
	}
	return &sale, nil
}

func (r *saleRepo) Update(tx *gorm.DB, sale *model.Sale) error {
	return translate(tx.Save(sale).Error)
}

// Archive soft-deletes the sale, removing it from every further read and
// mutation path while keeping the row for audit.
func (r *saleRepo) Archive(tx *gorm.DB, id uuid.UUID) error {
	res := tx.Delete(&model.Sale{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *saleRepo) FindForShop(id, shopID uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	err := r.db.Preload("Product").
		First(&sale, "id = ? AND shop_id = ?", id, shopID).Error
	if err != nil {
		return nil, translate(err)
	}
	return &sale, nil
}

func (r *saleRepo) FindAllForShop(shopID uuid.UUID) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.Preload("Product").
		Where("shop_id = ?", shopID).
		Order("created_at DESC").
		Find(&sales).Error
	return sales, translate(err)
}
