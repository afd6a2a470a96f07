package models

import "time"

type CartStatus string

const (
	CartStatusOpen CartStatus = "open"
	// CartStatusCheckingOut marks a cart whose contents are being charged.
	// Concurrent checkouts against the same cart must fail while it is set.
	CartStatusCheckingOut CartStatus = "checking_out"
)

type Cart struct {
	CartID    uint       `gorm:"primaryKey" json:"cart_id"`
	UserID    uint       `gorm:"uniqueIndex"  json:"user_id"` // one cart per user
	Status    CartStatus `gorm:"type:VARCHAR(20);default:'open'" json:"status"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CartID    uint      `gorm:"index;uniqueIndex:idx_cart_product" json:"cart_id"`
	ProductID uint      `gorm:"uniqueIndex:idx_cart_product" json:"product_id"`
	Quantity  int       `gorm:"not null" json:"quantity"` // always >= 1
	AddedAt   time.Time `json:"added_at"`
}
