package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PreviousPurchase records one product bought by a user. Rows are never updated.
type PreviousPurchase struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	ProductID   uint            `gorm:"not null;index" json:"product_id"`
	Product     *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	OrderID     string          `gorm:"size:64;not null;index" json:"order_id"`
	PricePaid   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_paid"`
	Quantity    int             `gorm:"not null;default:1" json:"quantity"`
	PurchasedAt time.Time       `gorm:"not null;index" json:"purchased_at"`
}
