package returns

import (
	"context"

	"github.com/hcsmart/surgimart-api/internal/domain/entity"
	"github.com/hcsmart/surgimart-api/internal/domain/repository"
)

// TxRunner ejecuta la aceptación (o reversa) de una devolución en una sola
// transacción: techo atómico sobre returned_quantity, reingreso de stock,
// libro de inventario y persistencia del registro.
type TxRunner interface {
	RunReturn(ctx context.Context, fn func(
		saleRepo repository.SaleRepository,
		returnRepo repository.ReturnRepository,
		stockRepo repository.StockRepository,
		movementRepo repository.StockMovementRepository,
	) error) error
}

// CreditNotePDFGenerator genera la nota crédito imprimible de una devolución.
// ret llega con Items poblado.
type CreditNotePDFGenerator interface {
	GenerateCreditNotePDF(ctx context.Context, ret *entity.Return) ([]byte, error)
}
