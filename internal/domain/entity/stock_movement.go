package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro de inventario.
const (
	MovementTypeSale       = "sale"       // salida por venta (cantidad negativa)
	MovementTypeReturn     = "return"     // entrada por devolución (cantidad positiva)
	MovementTypePurchase   = "purchase"   // entrada por compra
	MovementTypeAdjustment = "adjustment" // ajuste manual o compensación
)

// Tipos de referencia del movimiento.
const (
	ReferenceTypeSale       = "sale"
	ReferenceTypeReturn     = "return"
	ReferenceTypeAdjustment = "adjustment"
)

// StockMovement es una entrada del libro de inventario. El libro es
// append-only: nunca se modifica ni se borra una entrada; las reversas se
// registran como entradas compensatorias. Invariante: NewQty = PreviousQty + Quantity.
type StockMovement struct {
	ID              string
	ProductID       string
	ProductName     string
	MovementType    string          // sale | return | purchase | adjustment
	Quantity        decimal.Decimal // positiva = entrada, negativa = salida
	PreviousQty     decimal.Decimal
	NewQty          decimal.Decimal
	ReferenceType   string
	ReferenceID     string
	ReferenceNumber string
	Notes           string
	CreatedAt       time.Time
	CreatedBy       string // UserID
}
