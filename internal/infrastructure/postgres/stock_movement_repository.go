package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hcsmart/surgimart-api/internal/domain/entity"
	"github.com/hcsmart/surgimart-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del libro de inventario sobre PostgreSQL.
// El libro es append-only: solo inserciones y lecturas.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador del libro. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, product_id, product_name, movement_type, quantity, previous_qty, new_qty,
		reference_type, reference_id, reference_number, notes, created_at, created_by`

// Create inserta una entrada en el libro de inventario.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ProductID, movement.ProductName, movement.MovementType,
		movement.Quantity, movement.PreviousQty, movement.NewQty,
		movement.ReferenceType, nullIfEmpty(movement.ReferenceID), movement.ReferenceNumber,
		movement.Notes, movement.CreatedAt, movement.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// ListByProduct devuelve el libro de un producto, reciente primero.
func (r *StockMovementRepo) ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements
		WHERE product_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// ListByReference devuelve los movimientos ligados a un documento (venta, devolución, ajuste).
func (r *StockMovementRepo) ListByReference(referenceType, referenceID string) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements
		WHERE reference_type = $1 AND reference_id = $2 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, referenceType, referenceID)
	if err != nil {
		return nil, fmt.Errorf("list movements by reference: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

func scanMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var refID *string
		if err := rows.Scan(&m.ID, &m.ProductID, &m.ProductName, &m.MovementType,
			&m.Quantity, &m.PreviousQty, &m.NewQty, &m.ReferenceType, &refID,
			&m.ReferenceNumber, &m.Notes, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		if refID != nil {
			m.ReferenceID = *refID
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
