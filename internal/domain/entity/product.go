package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo de la droguería/mart.
// El stock disponible se maneja por separado en la tabla stock.
type Product struct {
	ID          string
	SKU         string // código único
	Name        string
	Description string
	Category    string          // antiséptico, instrumental, desechable, etc.
	Price       decimal.Decimal // precio de venta
	Cost        decimal.Decimal // costo de compra
	TaxRate     decimal.Decimal // IVA: 0, 0.05 (5%), 0.19 (19%)
	UnitMeasure string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
