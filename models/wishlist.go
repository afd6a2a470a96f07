package models

import "time"

type Wishlist struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Name      string    `gorm:"size:100" json:"name"`
	Products  []Product `gorm:"many2many:wishlist_products;" json:"products"`
	CreatedAt time.Time `json:"created_at"`
}
