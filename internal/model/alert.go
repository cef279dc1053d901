package model

import "github.com/google/uuid"

// Alert types
const (
	AlertLowStock = "low_stock"
)

// Alert is an in-app notice for a shop, written when a sale leaves a
// product at or below the low-stock threshold. Delivery is not handled
// here; rows are read and flagged by the alert service.
type Alert struct {
	BaseModel
	ShopID    uuid.UUID  `gorm:"type:uuid;index;not null" json:"shop_id"`
	ProductID *uuid.UUID `gorm:"type:uuid;index" json:"product_id,omitempty"`
	Type      string     `gorm:"type:varchar(50);not null" json:"type"`
	Message   string     `gorm:"type:text" json:"message"`
	Seen      bool       `gorm:"not null;default:false" json:"seen"`
	Ignored   bool       `gorm:"not null;default:false" json:"ignored"`
	Archived  bool       `gorm:"not null;default:false" json:"archived"`
}
