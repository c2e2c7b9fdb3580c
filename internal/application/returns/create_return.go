package returns

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hcsmart/surgimart-api/internal/application/dto"
	"github.com/hcsmart/surgimart-api/internal/domain"
	"github.com/hcsmart/surgimart-api/internal/domain/entity"
	domret "github.com/hcsmart/surgimart-api/internal/domain/returns"
	"github.com/hcsmart/surgimart-api/internal/domain/repository"
)

// CreateReturnUseCase procesa una devolución de principio a fin: conduce el
// asistente de dominio (búsqueda de venta, selección, confirmación) y
// persiste el resultado en una sola transacción con techo atómico sobre
// returned_quantity y reingreso del stock.
type CreateReturnUseCase struct {
	txRunner TxRunner
	finder   domret.SaleFinder
}

// NewCreateReturnUseCase construye el caso de uso.
func NewCreateReturnUseCase(txRunner TxRunner, finder domret.SaleFinder) *CreateReturnUseCase {
	return &CreateReturnUseCase{txRunner: txRunner, finder: finder}
}

// CreateReturn arma y acepta la devolución. Errores posibles:
// domain.ErrSaleNotFound (factura sin coincidencia, reintencable),
// domain.ErrInvalidQuantity / domain.ErrIncompleteSelection (selección
// inválida), *returns.SchemaViolationError (rechazo del validador, con todas
// las violaciones) y domain.ErrSubmissionFailed envolviendo fallas de
// persistencia (la causa concreta viaja unida, ej. ErrReturnExceedsRemainder).
func (uc *CreateReturnUseCase) CreateReturn(ctx context.Context, userID string, in dto.CreateReturnRequest) (*dto.ReturnResponse, error) {
	if in.InvoiceNumber == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	wf := domret.NewWorkflow(uc.finder, &txSubmitter{txRunner: uc.txRunner, userID: userID})
	if err := wf.FindSale(ctx, in.InvoiceNumber); err != nil {
		return nil, err
	}
	for _, item := range in.Items {
		if err := wf.SelectItem(item.LineIndex, item.ReturnQuantity, item.Reason); err != nil {
			return nil, err
		}
	}
	if err := wf.BeginConfirmation(); err != nil {
		return nil, err
	}
	ret, err := wf.Confirm(ctx, in.ReturnReason, in.RefundMethod, in.Notes)
	if err != nil {
		return nil, err
	}
	return toReturnResponse(ret, ret.Items), nil
}

// txSubmitter implementa returns.Submitter persistiendo la devolución dentro
// de una transacción: bloquea cada línea de la venta original, verifica el
// techo (cantidad <= remanente devolvible), acumula returned_quantity,
// reingresa el stock y registra las entradas del libro.
type txSubmitter struct {
	txRunner TxRunner
	userID   string
}

func (s *txSubmitter) SubmitReturn(ctx context.Context, ret *entity.Return) (string, error) {
	now := time.Now()
	ret.ID = uuid.New().String()
	ret.ReturnNumber = fmt.Sprintf("RET-%d", now.Unix())
	ret.CreatedBy = s.userID

	err := s.txRunner.RunReturn(ctx, func(
		saleRepo repository.SaleRepository,
		returnRepo repository.ReturnRepository,
		stockRepo repository.StockRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		// Techo atómico: la fila de cada línea queda bloqueada hasta el
		// commit, de modo que dos devoluciones parciales concurrentes sobre
		// la misma línea se serializan y la segunda ve el acumulado real.
		for i := range ret.Items {
			item := &ret.Items[i]
			saleItem, err := saleRepo.GetItemForUpdate(item.SaleItemID)
			if err != nil {
				return err
			}
			if saleItem == nil {
				return domain.ErrNotFound
			}
			if item.ReturnQuantity.GreaterThan(saleItem.ReturnableQuantity()) {
				return domain.ErrReturnExceedsRemainder
			}
			newReturned := saleItem.ReturnedQuantity.Add(item.ReturnQuantity)
			if err := saleRepo.UpdateItemReturnedQuantity(saleItem.ID, newReturned); err != nil {
				return err
			}
		}

		// Foto del stock con filas bloqueadas; el constructor de entradas es
		// puro y garantiza NewQty = PreviousQty + Quantity.
		snapshot := make(map[string]decimal.Decimal, len(ret.Items))
		for i := range ret.Items {
			productID := ret.Items[i].ProductID
			if _, ok := snapshot[productID]; ok {
				continue
			}
			stock, err := stockRepo.GetForUpdate(productID)
			if err != nil {
				return err
			}
			snapshot[productID] = stock.Quantity
		}
		entries := domret.BuildStockEntries(snapshot, ret, now, s.userID)
		for _, entry := range entries {
			entry.ID = uuid.New().String()
			if err := stockRepo.Upsert(&entity.Stock{
				ProductID: entry.ProductID,
				Quantity:  entry.NewQty,
				UpdatedAt: now,
			}); err != nil {
				return err
			}
			if err := movementRepo.Create(entry); err != nil {
				return err
			}
		}

		if err := returnRepo.Create(ret); err != nil {
			return err
		}
		for i := range ret.Items {
			ret.Items[i].ID = uuid.New().String()
			ret.Items[i].ReturnID = ret.ID
			if err := returnRepo.CreateItem(&ret.Items[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return ret.ReturnNumber, nil
}
