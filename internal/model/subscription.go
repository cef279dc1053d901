package model

import (
	"time"

	"github.com/google/uuid"
)

// Subscription statuses
const (
	SubscriptionActive   = "active"
	SubscriptionInactive = "inactive"
)

// Subscription is the entitlement record gating access to a shop.
// Only the most recent row per shop matters.
type Subscription struct {
	BaseModel
	ShopID    uuid.UUID  `gorm:"type:uuid;index;not null" json:"shop_id"`
	Status    string     `gorm:"type:varchar(50);not null;default:active" json:"status"`
	Plan      string     `gorm:"type:varchar(50)" json:"plan"`
	StartedAt time.Time  `gorm:"not null" json:"started_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"` // nil means no expiry
}
