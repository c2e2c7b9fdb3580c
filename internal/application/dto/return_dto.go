package dto

import "github.com/shopspring/decimal"

// CreateReturnRequest body para POST /api/returns. El cliente solo elige
// líneas (por índice en la venta original), cantidades y motivos; precios y
// cantidades originales se releen de la venta almacenada.
type CreateReturnRequest struct {
	InvoiceNumber string             `json:"invoice_number"`
	ReturnReason  string             `json:"return_reason"`
	RefundMethod  string             `json:"refund_method,omitempty"`
	Notes         string             `json:"notes,omitempty"`
	Items         []ReturnItemInput  `json:"items"`
}

// ReturnItemInput selección de una línea de la venta original.
type ReturnItemInput struct {
	LineIndex      int             `json:"line_index"`
	ReturnQuantity decimal.Decimal `json:"return_quantity"`
	Reason         string          `json:"reason,omitempty"`
}

// ReturnResponse respuesta de devolución con sus líneas.
type ReturnResponse struct {
	ID            string               `json:"id"`
	ReturnNumber  string               `json:"return_number"`
	SaleID        string               `json:"sale_id"`
	InvoiceNumber string               `json:"invoice_number"`
	CustomerName  string               `json:"customer_name,omitempty"`
	ReturnReason  string               `json:"return_reason"`
	ReturnType    string               `json:"return_type"`
	RefundMethod  string               `json:"refund_method,omitempty"`
	Notes         string               `json:"notes,omitempty"`
	Subtotal      decimal.Decimal      `json:"subtotal"`
	Discount      decimal.Decimal      `json:"discount"`
	VATAmount     decimal.Decimal      `json:"vat_amount"`
	TotalRefund   decimal.Decimal      `json:"total_refund"`
	Status        string               `json:"status"`
	ReturnDate    string               `json:"return_date"`
	Items         []ReturnItemResponse `json:"items"`
}

// ReturnItemResponse línea devuelta en la respuesta.
type ReturnItemResponse struct {
	ProductID        string          `json:"product_id"`
	SKU              string          `json:"sku,omitempty"`
	Name             string          `json:"name"`
	OriginalQuantity decimal.Decimal `json:"original_quantity"`
	ReturnQuantity   decimal.Decimal `json:"return_quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	LineTotal        decimal.Decimal `json:"line_total"`
	ItemReturnReason string          `json:"item_return_reason,omitempty"`
}
