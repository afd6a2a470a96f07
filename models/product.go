package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductCategory string

const (
	CategoryElectronics ProductCategory = "electronics"
	CategoryClothing    ProductCategory = "clothing"
	CategoryBooks       ProductCategory = "books"
)

type Product struct {
	ID            uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string          `gorm:"size:25;not null" json:"name"`
	Description   string          `gorm:"size:255" json:"description"`
	Price         decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"price"`
	StockQuantity int             `gorm:"not null;default:0" json:"stock_quantity"`
	Image         string          `json:"image"`
	Category      ProductCategory `gorm:"type:VARCHAR(20)" json:"category"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}
