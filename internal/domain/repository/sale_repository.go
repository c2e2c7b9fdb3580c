package repository

import (
	"github.com/shopspring/decimal"

	"github.com/hcsmart/surgimart-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para ventas y sus líneas.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	CreateItem(item *entity.SaleItem) error
	GetByID(id string) (*entity.Sale, error)
	// GetByInvoiceNumber busca por número exacto; nil si no existe.
	GetByInvoiceNumber(invoiceNumber string) (*entity.Sale, error)
	// FindByInvoicePrefix devuelve las ventas cuyo número comienza por prefix.
	FindByInvoicePrefix(prefix string, limit int) ([]*entity.Sale, error)
	GetItemsBySaleID(saleID string) ([]*entity.SaleItem, error)
	// GetItemForUpdate bloquea la fila de la línea (SELECT FOR UPDATE) para
	// el incremento atómico de returned_quantity con techo.
	GetItemForUpdate(itemID string) (*entity.SaleItem, error)
	// UpdateItemReturnedQuantity fija el acumulado devuelto de la línea.
	UpdateItemReturnedQuantity(itemID string, returned decimal.Decimal) error
}
