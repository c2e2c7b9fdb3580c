package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de una devolución. pending es el estado inicial;
// completed y cancelled son terminales (no admiten más transiciones).
const (
	ReturnStatusPending   = "pending"
	ReturnStatusCompleted = "completed"
	ReturnStatusCancelled = "cancelled"
)

// Tipo de devolución: full si se devuelve todo el remanente devolvible
// de todas las líneas de la venta, partial en cualquier otro caso.
const (
	ReturnTypeFull    = "full"
	ReturnTypePartial = "partial"
)

// Métodos de reembolso.
const (
	RefundMethodCash            = "cash"
	RefundMethodBank            = "bank"
	RefundMethodStoreCredit     = "store_credit"
	RefundMethodOriginalPayment = "original_payment"
)

// Motivos de devolución admitidos.
const (
	ReturnReasonExpired           = "Expired"
	ReturnReasonDamaged           = "Damaged"
	ReturnReasonWrongProduct      = "Wrong Product"
	ReturnReasonCustomerChanged   = "Customer Changed Mind"
	ReturnReasonQualityIssue      = "Quality Issue"
	ReturnReasonPrescriptionChange = "Prescription Change"
	ReturnReasonDuplicatePurchase = "Duplicate Purchase"
	ReturnReasonOther             = "Other"
)

// Return representa una devolución sobre una venta original. Es inmutable
// una vez el estado sale de pending.
type Return struct {
	ID              string
	ReturnNumber    string // único, ej. RET-1712345678
	SaleID          string
	InvoiceNumber   string
	CustomerID      string
	CustomerName    string
	CustomerPhone   string
	CustomerType    string
	Items           []ReturnItem
	ReturnReason    string
	ReturnType      string // full | partial (derivado, nunca lo fija el cliente)
	RefundMethod    string
	Notes           string
	Subtotal        decimal.Decimal
	Discount        decimal.Decimal // descuento proporcional de la venta original
	VATAmount       decimal.Decimal // IVA proporcional de la venta original
	TotalRefund     decimal.Decimal
	Status          string
	ReturnDate      time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	CreatedBy       string
}

// ReturnItem es una línea devuelta. ReturnQuantity debe cumplir
// 1 <= ReturnQuantity <= OriginalQuantity - cantidad ya devuelta.
type ReturnItem struct {
	ID               string
	ReturnID         string
	SaleItemID       string // línea de la venta original sobre la que se devuelve
	ProductID        string
	SKU              string
	Name             string
	OriginalQuantity decimal.Decimal
	ReturnQuantity   decimal.Decimal
	UnitPrice        decimal.Decimal
	LineTotal        decimal.Decimal
	ItemReturnReason string
}

// IsTerminal indica si el estado ya no admite transiciones.
func (r *Return) IsTerminal() bool {
	return r.Status == ReturnStatusCompleted || r.Status == ReturnStatusCancelled
}
