package models

import "time"

type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	Content   string    `json:"content"`
	Rating    float64   `gorm:"not null" json:"rating"` // 1.0 .. 5.0
	CreatedAt time.Time `json:"created_at"`
}
