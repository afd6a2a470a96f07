package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/shopworks/ecommerce-api/models"
)

// Line pairs a product with the quantity being purchased.
type Line struct {
	Product  models.Product
	Quantity int
}

// Total returns the exact decimal sum of unit price times quantity, rounded
// to 2 fractional digits with banker's rounding.
func Total(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total.RoundBank(2)
}

// ValidateStock reports the first line whose quantity exceeds the product's
// available stock, or nil if every line can be satisfied.
func ValidateStock(lines []Line) *Error {
	for _, l := range lines {
		if l.Quantity > l.Product.StockQuantity {
			return newError(KindInsufficientStock,
				"Not enough stock for product %s. Available stock: %d",
				l.Product.Name, l.Product.StockQuantity)
		}
	}
	return nil
}

// MinorUnits converts a 2-decimal amount into integer minor units (cents).
// Amounts below one minor unit cannot be charged.
func MinorUnits(amount decimal.Decimal) (int64, *Error) {
	minor := amount.Shift(2).RoundBank(0).IntPart()
	if minor < 1 {
		return 0, newError(KindInvalidAmount, "Invalid amount value. computed charge of %s is below the smallest currency unit", amount.StringFixed(2))
	}
	return minor, nil
}
