package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product holds the current stock quantity and the price tiers used by the
// pricing resolver. Stock is only ever mutated through the sales service;
// the check constraint is a backstop, not the synchronization mechanism.
type Product struct {
	BaseModel
	ShopID     uuid.UUID  `gorm:"type:uuid;index;not null" json:"shop_id"`
	CategoryID *uuid.UUID `gorm:"type:uuid;index" json:"category_id"`
	Category   *Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty" validate:"-"`
	Name       string     `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Scent      string     `gorm:"type:varchar(255)" json:"scent"`
	Stock      int        `gorm:"not null;default:0;check:stock >= 0" json:"stock"`

	// Price is the fallback when no tier applies. RetailPrice and
	// WholesalePrice are optional tiers; nil means the tier is not defined.
	Price          decimal.Decimal  `gorm:"type:numeric(14,2);not null;default:0" json:"price"`
	RetailPrice    *decimal.Decimal `gorm:"type:numeric(14,2)" json:"retail_price,omitempty"`
	WholesalePrice *decimal.Decimal `gorm:"type:numeric(14,2)" json:"wholesale_price,omitempty"`
	PurchaseCost   decimal.Decimal  `gorm:"type:numeric(14,2);not null;default:0" json:"purchase_cost"`

	// Recording user
	UserID uuid.UUID `gorm:"type:uuid" json:"user_id"`
}
