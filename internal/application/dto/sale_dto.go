package dto

import "github.com/shopspring/decimal"

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	CustomerID    string          `json:"customer_id,omitempty"`
	PaymentMethod string          `json:"payment_method"`
	Discount      decimal.Decimal `json:"discount,omitempty"`
	Items         []SaleItemInput `json:"items"`
}

// SaleItemInput línea de venta en la petición. Si UnitPrice es cero se usa
// el precio del catálogo.
type SaleItemInput struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price,omitempty"`
}

// SaleResponse respuesta de venta con sus líneas.
type SaleResponse struct {
	ID            string             `json:"id"`
	InvoiceNumber string             `json:"invoice_number"`
	CustomerID    string             `json:"customer_id,omitempty"`
	CustomerName  string             `json:"customer_name,omitempty"`
	CustomerType  string             `json:"customer_type"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Discount      decimal.Decimal    `json:"discount"`
	VATAmount     decimal.Decimal    `json:"vat_amount"`
	GrandTotal    decimal.Decimal    `json:"grand_total"`
	PaymentMethod string             `json:"payment_method"`
	Date          string             `json:"date"`
	Items         []SaleItemResponse `json:"items"`
}

// SaleItemResponse línea de venta en la respuesta, con el remanente devolvible.
type SaleItemResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	SKU              string          `json:"sku,omitempty"`
	Name             string          `json:"name"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	LineTotal        decimal.Decimal `json:"line_total"`
	ReturnedQuantity decimal.Decimal `json:"returned_quantity"`
	Returnable       decimal.Decimal `json:"returnable"`
}
