package repository

import (
	"go-shop-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(category *model.Category) error
	FindForShop(id, shopID uuid.UUID) (*model.Category, error)
	FindAllForShop(shopID uuid.UUID) ([]model.Category, error)
	ExistsByName(shopID uuid.UUID, name string) (bool, error)
	Update(category *model.Category) error
	Delete(id, shopID uuid.UUID) error
}

type categoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db}
}

func (r *categoryRepo) Create(category *model.Category) error {
	return translate(r.db.Create(category).Error)
}

func (r *categoryRepo) FindForShop(id, shopID uuid.UUID) (*model.Category, error) {
	var category model.Category
	err := r.db.First(&category, "id = ? AND shop_id = ?", id, shopID).Error
	if err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (r *categoryRepo) FindAllForShop(shopID uuid.UUID) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.Where("shop_id = ?", shopID).Order("created_at ASC").Find(&categories).Error
	return categories, translate(err)
}

func (r *categoryRepo) ExistsByName(shopID uuid.UUID, name string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Category{}).
		Where("shop_id = ? AND name = ?", shopID, name).
		Count(&count).Error
	if err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (r *categoryRepo) Update(category *model.Category) error {
	return translate(r.db.Save(category).Error)
}

func (r *categoryRepo) Delete(id, shopID uuid.UUID) error {
	res := r.db.Where("id = ? AND shop_id = ?", id, shopID).Delete(&model.Category{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
