package sales

import (
	"context"

	"github.com/hcsmart/surgimart-api/internal/application/dto"
	"github.com/hcsmart/surgimart-api/internal/domain"
	"github.com/hcsmart/surgimart-api/internal/domain/entity"
	domret "github.com/hcsmart/surgimart-api/internal/domain/returns"
	"github.com/hcsmart/surgimart-api/internal/domain/repository"
)

// FindSaleUseCase localiza una venta por número de factura para consultarla
// o iniciar una devolución. Implementa returns.SaleFinder.
type FindSaleUseCase struct {
	saleRepo repository.SaleRepository
}

// NewFindSaleUseCase construye el caso de uso.
func NewFindSaleUseCase(saleRepo repository.SaleRepository) *FindSaleUseCase {
	return &FindSaleUseCase{saleRepo: saleRepo}
}

var _ domret.SaleFinder = (*FindSaleUseCase)(nil)

// FindSale busca por número exacto y, si no hay coincidencia, por prefijo.
// El prefijo solo se acepta cuando identifica una única venta: con dos o más
// candidatas se responde no-encontrada en lugar de adivinar.
func (uc *FindSaleUseCase) FindSale(ctx context.Context, invoiceNumber string) (*domret.ReturnableSale, error) {
	if invoiceNumber == "" {
		return nil, domain.ErrInvalidInput
	}
	sale, err := uc.saleRepo.GetByInvoiceNumber(invoiceNumber)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		candidates, err := uc.saleRepo.FindByInvoicePrefix(invoiceNumber, 2)
		if err != nil {
			return nil, err
		}
		if len(candidates) != 1 {
			return nil, domain.ErrSaleNotFound
		}
		sale = candidates[0]
	}

	items, err := uc.saleRepo.GetItemsBySaleID(sale.ID)
	if err != nil {
		return nil, err
	}
	return toReturnableSale(sale, items), nil
}

// GetByID devuelve la venta con sus líneas y remanentes devolvibles.
func (uc *FindSaleUseCase) GetByID(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.saleRepo.GetItemsBySaleID(sale.ID)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, items), nil
}

// Lookup es la variante HTTP de FindSale: devuelve el DTO de la venta.
func (uc *FindSaleUseCase) Lookup(ctx context.Context, invoiceNumber string) (*dto.SaleResponse, error) {
	rs, err := uc.FindSale(ctx, invoiceNumber)
	if err != nil {
		return nil, err
	}
	items := make([]*entity.SaleItem, len(rs.Items))
	for i := range rs.Items {
		it := rs.Items[i]
		items[i] = &entity.SaleItem{
			ID:               it.SaleItemID,
			SaleID:           rs.Sale.ID,
			ProductID:        it.ProductID,
			SKU:              it.SKU,
			Name:             it.Name,
			Quantity:         it.OriginalQuantity,
			UnitPrice:        it.UnitPrice,
			LineTotal:        it.OriginalQuantity.Mul(it.UnitPrice).Round(2),
			ReturnedQuantity: it.ReturnedQuantity,
		}
	}
	return toSaleResponse(&rs.Sale, items), nil
}

func toReturnableSale(sale *entity.Sale, items []*entity.SaleItem) *domret.ReturnableSale {
	rs := &domret.ReturnableSale{Sale: *sale}
	for _, it := range items {
		rs.Items = append(rs.Items, domret.ReturnableItem{
			SaleItemID:       it.ID,
			ProductID:        it.ProductID,
			SKU:              it.SKU,
			Name:             it.Name,
			UnitPrice:        it.UnitPrice,
			OriginalQuantity: it.Quantity,
			ReturnedQuantity: it.ReturnedQuantity,
		})
	}
	return rs
}

func toSaleResponse(sale *entity.Sale, items []*entity.SaleItem) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:            sale.ID,
		InvoiceNumber: sale.InvoiceNumber,
		CustomerID:    sale.CustomerID,
		CustomerName:  sale.CustomerName,
		CustomerType:  sale.CustomerType,
		Subtotal:      sale.Subtotal,
		Discount:      sale.Discount,
		VATAmount:     sale.VATAmount,
		GrandTotal:    sale.GrandTotal,
		PaymentMethod: sale.PaymentMethod,
		Date:          sale.Date.Format("2006-01-02"),
		Items:         make([]dto.SaleItemResponse, 0, len(items)),
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			ID:               it.ID,
			ProductID:        it.ProductID,
			SKU:              it.SKU,
			Name:             it.Name,
			Quantity:         it.Quantity,
			UnitPrice:        it.UnitPrice,
			LineTotal:        it.LineTotal,
			ReturnedQuantity: it.ReturnedQuantity,
			Returnable:       it.ReturnableQuantity(),
		})
	}
	return resp
}
