package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hcsmart/surgimart-api/internal/application/dto"
	"github.com/hcsmart/surgimart-api/internal/domain"
	"github.com/hcsmart/surgimart-api/internal/domain/entity"
	"github.com/hcsmart/surgimart-api/internal/domain/repository"
)

// RegisterMovementUseCase registra entradas por compra y ajustes manuales de
// stock de forma transaccional, con bloqueo de fila (SELECT FOR UPDATE).
// Las ventas y devoluciones generan sus movimientos desde sus casos de uso.
type RegisterMovementUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		movementRepo: movementRepo,
	}
}

// RegisterMovement aplica una entrada por compra (cantidad positiva) o un
// ajuste (cualquier signo) sobre el stock del producto. El stock resultante
// nunca puede quedar negativo.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, userID string, in dto.RegisterMovementRequest) error {
	switch in.Type {
	case entity.MovementTypePurchase:
		if !in.Quantity.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	case entity.MovementTypeAdjustment:
		if in.Quantity.IsZero() {
			return domain.ErrInvalidInput
		}
	default:
		return domain.ErrInvalidInput
	}
	if in.ProductID == "" || !in.Quantity.IsInteger() {
		return domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}

	now := time.Now()
	return uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		stock, err := stockRepo.GetForUpdate(in.ProductID)
		if err != nil {
			return err
		}
		prev := stock.Quantity
		next := prev.Add(in.Quantity)
		if next.LessThan(decimal.Zero) {
			return domain.ErrInsufficientStock
		}
		stock.Quantity = next
		stock.UpdatedAt = now
		if err := stockRepo.Upsert(stock); err != nil {
			return err
		}
		return movementRepo.Create(&entity.StockMovement{
			ID:            uuid.New().String(),
			ProductID:     in.ProductID,
			ProductName:   product.Name,
			MovementType:  in.Type,
			Quantity:      in.Quantity,
			PreviousQty:   prev,
			NewQty:        next,
			ReferenceType: entity.ReferenceTypeAdjustment,
			Notes:         in.Notes,
			CreatedAt:     now,
			CreatedBy:     userID,
		})
	})
}

// ListMovements devuelve el libro de inventario de un producto (reciente primero).
func (uc *RegisterMovementUseCase) ListMovements(ctx context.Context, productID string, page dto.PageRequest) ([]dto.StockMovementResponse, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	movements, err := uc.movementRepo.ListByProduct(productID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		resp = append(resp, dto.StockMovementResponse{
			ID:              m.ID,
			ProductID:       m.ProductID,
			ProductName:     m.ProductName,
			MovementType:    m.MovementType,
			Quantity:        m.Quantity,
			PreviousQty:     m.PreviousQty,
			NewQty:          m.NewQty,
			ReferenceType:   m.ReferenceType,
			ReferenceID:     m.ReferenceID,
			ReferenceNumber: m.ReferenceNumber,
			Notes:           m.Notes,
			CreatedAt:       m.CreatedAt.Format(time.RFC3339),
		})
	}
	return resp, nil
}
