package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago de una venta.
const (
	PaymentMethodCash = "cash"
	PaymentMethodBank = "bank"
	PaymentMethodCard = "card"
)

// Sale representa la cabecera de una venta (factura de mostrador).
type Sale struct {
	ID            string
	InvoiceNumber string // único, ej. INV-1712345678
	CustomerID    string // vacío para venta de mostrador
	CustomerName  string
	CustomerPhone string
	CustomerType  string // walk_in | regular
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	VATAmount     decimal.Decimal
	GrandTotal    decimal.Decimal
	PaymentMethod string
	Date          time.Time
	CreatedAt     time.Time
	CreatedBy     string // UserID
}

// SaleItem es una línea de venta. ReturnedQuantity acumula lo ya devuelto
// en devoluciones previas; el remanente devolvible es Quantity - ReturnedQuantity.
type SaleItem struct {
	ID               string
	SaleID           string
	ProductID        string
	SKU              string
	Name             string
	Quantity         decimal.Decimal
	UnitPrice        decimal.Decimal
	LineTotal        decimal.Decimal
	ReturnedQuantity decimal.Decimal
}

// ReturnableQuantity devuelve el remanente aún devolvible de la línea.
func (i *SaleItem) ReturnableQuantity() decimal.Decimal {
	return i.Quantity.Sub(i.ReturnedQuantity)
}
