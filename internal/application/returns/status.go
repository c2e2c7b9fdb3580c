package returns

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hcsmart/surgimart-api/internal/domain"
	"github.com/hcsmart/surgimart-api/internal/domain/entity"
	"github.com/hcsmart/surgimart-api/internal/domain/repository"
)

// UpdateReturnStatusUseCase aplica el ciclo de vida de una devolución:
// pending -> completed (aprobación) o pending -> cancelled (rechazo).
// Los estados completed y cancelled son terminales.
type UpdateReturnStatusUseCase struct {
	txRunner   TxRunner
	returnRepo repository.ReturnRepository
}

// NewUpdateReturnStatusUseCase construye el caso de uso.
func NewUpdateReturnStatusUseCase(txRunner TxRunner, returnRepo repository.ReturnRepository) *UpdateReturnStatusUseCase {
	return &UpdateReturnStatusUseCase{txRunner: txRunner, returnRepo: returnRepo}
}

// Complete aprueba una devolución pendiente. El stock ya reingresó al
// aceptarse el registro, así que aprobar solo cambia el estado.
func (uc *UpdateReturnStatusUseCase) Complete(ctx context.Context, id string) error {
	ret, err := uc.returnRepo.GetByID(id)
	if err != nil {
		return err
	}
	if ret == nil {
		return domain.ErrNotFound
	}
	if ret.IsTerminal() {
		return domain.ErrConflict
	}
	return uc.returnRepo.UpdateStatus(id, entity.ReturnStatusCompleted)
}

// Cancel rechaza una devolución pendiente y revierte sus efectos en la misma
// transacción: decrementa returned_quantity en las líneas de la venta, saca
// del stock lo reingresado y registra entradas compensatorias en el libro
// (el libro es append-only: nunca se borra la entrada original).
func (uc *UpdateReturnStatusUseCase) Cancel(ctx context.Context, userID, id string) error {
	now := time.Now()
	return uc.txRunner.RunReturn(ctx, func(
		saleRepo repository.SaleRepository,
		returnRepo repository.ReturnRepository,
		stockRepo repository.StockRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		ret, err := returnRepo.GetByID(id)
		if err != nil {
			return err
		}
		if ret == nil {
			return domain.ErrNotFound
		}
		if ret.IsTerminal() {
			return domain.ErrConflict
		}
		items, err := returnRepo.GetItemsByReturnID(id)
		if err != nil {
			return err
		}

		for _, item := range items {
			saleItem, err := saleRepo.GetItemForUpdate(item.SaleItemID)
			if err != nil {
				return err
			}
			if saleItem == nil {
				return domain.ErrNotFound
			}
			if err := saleRepo.UpdateItemReturnedQuantity(
				saleItem.ID, saleItem.ReturnedQuantity.Sub(item.ReturnQuantity),
			); err != nil {
				return err
			}

			stock, err := stockRepo.GetForUpdate(item.ProductID)
			if err != nil {
				return err
			}
			prev := stock.Quantity
			stock.Quantity = prev.Sub(item.ReturnQuantity)
			stock.UpdatedAt = now
			if err := stockRepo.Upsert(stock); err != nil {
				return err
			}
			if err := movementRepo.Create(&entity.StockMovement{
				ID:              uuid.New().String(),
				ProductID:       item.ProductID,
				ProductName:     item.Name,
				MovementType:    entity.MovementTypeAdjustment,
				Quantity:        item.ReturnQuantity.Neg(),
				PreviousQty:     prev,
				NewQty:          stock.Quantity,
				ReferenceType:   entity.ReferenceTypeReturn,
				ReferenceID:     ret.ID,
				ReferenceNumber: ret.ReturnNumber,
				Notes:           "reversa por cancelación de devolución",
				CreatedAt:       now,
				CreatedBy:       userID,
			}); err != nil {
				return err
			}
		}

		return returnRepo.UpdateStatus(id, entity.ReturnStatusCancelled)
	})
}
