package sales

import (
	"context"

	"github.com/hcsmart/surgimart-api/internal/domain/repository"
)

// TxRunner ejecuta el cierre de una venta (descuento de stock, libro de
// inventario y persistencia de la venta) en una sola transacción.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		saleRepo repository.SaleRepository,
		stockRepo repository.StockRepository,
		movementRepo repository.StockMovementRepository,
	) error) error
}
