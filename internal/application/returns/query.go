package returns

import (
	"context"

	"github.com/hcsmart/surgimart-api/internal/application/dto"
	"github.com/hcsmart/surgimart-api/internal/domain"
	"github.com/hcsmart/surgimart-api/internal/domain/entity"
	"github.com/hcsmart/surgimart-api/internal/domain/repository"
)

// QueryReturnUseCase lecturas de devoluciones.
type QueryReturnUseCase struct {
	returnRepo repository.ReturnRepository
}

// NewQueryReturnUseCase construye el caso de uso.
func NewQueryReturnUseCase(returnRepo repository.ReturnRepository) *QueryReturnUseCase {
	return &QueryReturnUseCase{returnRepo: returnRepo}
}

// GetByID devuelve la devolución con sus líneas.
func (uc *QueryReturnUseCase) GetByID(ctx context.Context, id string) (*dto.ReturnResponse, error) {
	ret, err := uc.returnRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.returnRepo.GetItemsByReturnID(id)
	if err != nil {
		return nil, err
	}
	flat := make([]entity.ReturnItem, len(items))
	for i, it := range items {
		flat[i] = *it
	}
	return toReturnResponse(ret, flat), nil
}

var validListStatuses = map[string]bool{
	entity.ReturnStatusPending:   true,
	entity.ReturnStatusCompleted: true,
	entity.ReturnStatusCancelled: true,
}

// List devuelve las devoluciones, opcionalmente filtradas por estado.
// Un filtro fuera del enum se rechaza en lugar de responder lista vacía.
func (uc *QueryReturnUseCase) List(ctx context.Context, status string, page dto.PageRequest) ([]*dto.ReturnResponse, error) {
	if status != "" && !validListStatuses[status] {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	list, err := uc.returnRepo.List(status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	resp := make([]*dto.ReturnResponse, 0, len(list))
	for _, ret := range list {
		resp = append(resp, toReturnResponse(ret, nil))
	}
	return resp, nil
}

func toReturnResponse(ret *entity.Return, items []entity.ReturnItem) *dto.ReturnResponse {
	resp := &dto.ReturnResponse{
		ID:            ret.ID,
		ReturnNumber:  ret.ReturnNumber,
		SaleID:        ret.SaleID,
		InvoiceNumber: ret.InvoiceNumber,
		CustomerName:  ret.CustomerName,
		ReturnReason:  ret.ReturnReason,
		ReturnType:    ret.ReturnType,
		RefundMethod:  ret.RefundMethod,
		Notes:         ret.Notes,
		Subtotal:      ret.Subtotal,
		Discount:      ret.Discount,
		VATAmount:     ret.VATAmount,
		TotalRefund:   ret.TotalRefund,
		Status:        ret.Status,
		ReturnDate:    ret.ReturnDate.Format("2006-01-02"),
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.ReturnItemResponse{
			ProductID:        it.ProductID,
			SKU:              it.SKU,
			Name:             it.Name,
			OriginalQuantity: it.OriginalQuantity,
			ReturnQuantity:   it.ReturnQuantity,
			UnitPrice:        it.UnitPrice,
			LineTotal:        it.LineTotal,
			ItemReturnReason: it.ItemReturnReason,
		})
	}
	return resp
}
