package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending" // created, payment not attempted yet
	OrderStatusPaid    OrderStatus = "paid"    // gateway charge succeeded
	OrderStatusFailed  OrderStatus = "failed"  // gateway charge failed, kept for audit
	OrderStatusShipped OrderStatus = "shipped" // paid and handed to fulfilment
)

// Order is an immutable priced snapshot of a purchase intent. Amount and
// item prices are frozen at creation time and never recomputed.
type Order struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	UserID       uint            `gorm:"not null;index" json:"user_id"`
	Items        []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Amount       decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"amount"`
	Status       OrderStatus     `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	IsShipped    bool            `gorm:"default:false" json:"is_shipped"`
	ShippingDate *time.Time      `json:"shipping_date,omitempty"`
	TrackingID   string          `gorm:"size:255" json:"tracking_id"`
	Payment      *Payment        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"payment,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

type OrderItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderID     uint            `gorm:"index" json:"order_id"`
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2)" json:"unit_price"`
	Quantity    int             `json:"quantity"`
}
