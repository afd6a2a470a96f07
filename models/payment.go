package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Payment records one attempt to charge the gateway for an Order. An order
// owns at most one Payment; a retry replaces the failed row instead of
// adding a second one.
type Payment struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	OrderID        uint            `gorm:"uniqueIndex;not null" json:"order_id"`
	UserID         uint            `gorm:"index" json:"user_id"`
	Method         string          `gorm:"size:255" json:"method"`
	TransactionRef string          `gorm:"size:255" json:"transaction_ref"`
	Status         PaymentStatus   `gorm:"type:VARCHAR(20)" json:"status"`
	Amount         decimal.Decimal `gorm:"type:decimal(10,2)" json:"amount"`
	Detail         string          `json:"detail"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
