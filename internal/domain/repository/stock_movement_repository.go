package repository

import "github.com/hcsmart/surgimart-api/internal/domain/entity"

// StockMovementRepository define el puerto del libro de inventario.
// El libro es append-only: solo Create y lecturas.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error)
	ListByReference(referenceType, referenceID string) ([]*entity.StockMovement, error)
}
