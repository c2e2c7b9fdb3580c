package repository

import "github.com/hcsmart/surgimart-api/internal/domain/entity"

// StockRepository define el puerto para consultar/actualizar stock por producto.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	Get(productID string) (*entity.Stock, error)
	Upsert(stock *entity.Stock) error
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(productID string) (*entity.Stock, error)
}
