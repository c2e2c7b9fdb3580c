package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock es la cantidad disponible de un producto (bodega única).
type Stock struct {
	ProductID string
	Quantity  decimal.Decimal
	UpdatedAt time.Time
}
