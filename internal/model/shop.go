package model

import "github.com/google/uuid"

// Shop is a tenant. Every product and sale belongs to exactly one shop.
type Shop struct {
	BaseModel
	Name    string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	OwnerID uuid.UUID `gorm:"type:uuid;index" json:"owner_id"`
}
