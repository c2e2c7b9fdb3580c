package dto

import "github.com/shopspring/decimal"

// RegisterMovementRequest body para POST /api/inventory/movements
// (entradas por compra y ajustes manuales; ventas y devoluciones generan
// sus movimientos desde sus propios casos de uso).
type RegisterMovementRequest struct {
	ProductID string          `json:"product_id"`
	Type      string          `json:"type"` // purchase | adjustment
	Quantity  decimal.Decimal `json:"quantity"`
	Notes     string          `json:"notes,omitempty"`
}

// StockMovementResponse entrada del libro de inventario.
type StockMovementResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name"`
	MovementType    string          `json:"movement_type"`
	Quantity        decimal.Decimal `json:"quantity"`
	PreviousQty     decimal.Decimal `json:"previous_qty"`
	NewQty          decimal.Decimal `json:"new_qty"`
	ReferenceType   string          `json:"reference_type,omitempty"`
	ReferenceID     string          `json:"reference_id,omitempty"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       string          `json:"created_at"`
}
