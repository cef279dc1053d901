package repository

import (
	"go-shop-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindForShop(id, shopID uuid.UUID) (*model.Product, error)
	FindAllForShop(shopID uuid.UUID) ([]model.Product, error)
	Update(product *model.Product) error
	Delete(id, shopID uuid.UUID) error
	FindLowStock(shopID uuid.UUID, threshold int) ([]model.Product, error)

	// LockForShop and AdjustStock take the transaction handle so the row
	// lock spans the caller's whole unit of work.
	LockForShop(tx *gorm.DB, id, shopID uuid.UUID) (*model.Product, error)
	AdjustStock(tx *gorm.DB, id uuid.UUID, delta int) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return translate(r.db.Create(product).Error)
}

func (r *productRepo) FindForShop(id, shopID uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Category").
		First(&product, "id = ? AND shop_id = ?", id, shopID).Error
	if err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *productRepo) FindAllForShop(shopID uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Preload("Category").
		Where("shop_id = ?", shopID).
		Order("created_at DESC").
		Find(&products).Error
	return products, translate(err)
}

func (r *productRepo) Update(product *model.Product) error {
	return translate(r.db.Save(product).Error)
}

func (r *productRepo) Delete(id, shopID uuid.UUID) error {
	res := r.db.Where("id = ? AND shop_id = ?", id, shopID).Delete(&model.Product{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepo) FindLowStock(shopID uuid.UUID, threshold int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("shop_id = ? AND stock <= ?", shopID, threshold).
		Order("stock ASC").
		Find(&products).Error
	return products, translate(err)
}

// LockForShop reads the product under SELECT ... FOR UPDATE. A product in
// another shop is indistinguishable from an absent one.
func (r *productRepo) LockForShop(tx *gorm.DB, id, shopID uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ? AND shop_id = ?", id, shopID).Error
	if err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

// AdjustStock applies a relative stock delta. Callers must have validated
// sufficiency under the row lock first; delta may be negative.
func (r *productRepo) AdjustStock(tx *gorm.DB, id uuid.UUID, delta int) error {
	res := tx.Model(&model.Product{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
