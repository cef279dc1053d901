package model

import "github.com/google/uuid"

// Category groups products inside a single shop.
type Category struct {
	BaseModel
	ShopID uuid.UUID `gorm:"type:uuid;index;not null" json:"shop_id"`
	Name   string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Emoji  string    `gorm:"type:varchar(16)" json:"emoji"`
	Color  string    `gorm:"type:varchar(32)" json:"color"`
}
