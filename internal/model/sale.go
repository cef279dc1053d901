package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentMobile PaymentMethod = "mobile"
	PaymentCredit PaymentMethod = "credit"
	PaymentOther  PaymentMethod = "other"
)

type SaleChannel string

const (
	ChannelRetail    SaleChannel = "retail"
	ChannelWholesale SaleChannel = "wholesale"
)

// Sale is one ledger entry. Quantity and the payment fields may be amended
// later; reversal soft-deletes the row and restores the product's stock.
type Sale struct {
	BaseModel
	ShopID    uuid.UUID `gorm:"type:uuid;index;not null" json:"shop_id"`
	ProductID uuid.UUID `gorm:"type:uuid;index;not null" json:"product_id"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty" validate:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;not null" json:"user_id"` // recording principal

	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"unit_price"` // Snapshot of the resolved price
	Total     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total"`      // UnitPrice * Quantity

	PaymentMethod   PaymentMethod  `gorm:"type:varchar(20);not null" json:"payment_method"`
	Paid            bool           `gorm:"not null;default:true" json:"paid"` // false only for credit sales until settled
	RepaymentMethod *PaymentMethod `gorm:"type:varchar(20)" json:"repayment_method,omitempty"`
	Channel         SaleChannel    `gorm:"type:varchar(20);not null;default:retail" json:"channel"`

	ClientName  *string    `gorm:"type:varchar(255)" json:"client_name,omitempty"`
	ClientPhone *string    `gorm:"type:varchar(32)" json:"client_phone,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}
