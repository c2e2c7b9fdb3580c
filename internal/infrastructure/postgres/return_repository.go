package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hcsmart/surgimart-api/internal/domain"
	"github.com/hcsmart/surgimart-api/internal/domain/entity"
	"github.com/hcsmart/surgimart-api/internal/domain/repository"
)

var _ repository.ReturnRepository = (*ReturnRepo)(nil)

// ReturnRepo implementación de ReturnRepository sobre PostgreSQL (usable con pool o tx).
type ReturnRepo struct {
	q Querier
}

// NewReturnRepository construye el adaptador de devoluciones. Pasar pool o tx (Querier).
func NewReturnRepository(q Querier) *ReturnRepo {
	return &ReturnRepo{q: q}
}

const returnColumns = `id, return_number, sale_id, invoice_number, customer_id, customer_name,
		customer_phone, customer_type, return_reason, return_type, refund_method, notes,
		subtotal, discount, vat_amount, total_refund, status, return_date, created_at, updated_at, created_by`

// Create persiste la cabecera de una devolución.
func (r *ReturnRepo) Create(ret *entity.Return) error {
	query := `
		INSERT INTO returns (` + returnColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err := r.q.Exec(context.Background(), query,
		ret.ID, ret.ReturnNumber, ret.SaleID, ret.InvoiceNumber, nullIfEmpty(ret.CustomerID),
		ret.CustomerName, ret.CustomerPhone, ret.CustomerType, ret.ReturnReason, ret.ReturnType,
		ret.RefundMethod, ret.Notes, ret.Subtotal, ret.Discount, ret.VATAmount, ret.TotalRefund,
		ret.Status, ret.ReturnDate, ret.CreatedAt, ret.UpdatedAt, ret.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert return: %w", err)
	}
	return nil
}

// CreateItem persiste una línea devuelta.
func (r *ReturnRepo) CreateItem(item *entity.ReturnItem) error {
	query := `
		INSERT INTO return_items (id, return_id, sale_item_id, product_id, sku, name, original_quantity, return_quantity, unit_price, line_total, item_return_reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.ReturnID, item.SaleItemID, item.ProductID, item.SKU, item.Name,
		item.OriginalQuantity, item.ReturnQuantity, item.UnitPrice, item.LineTotal, item.ItemReturnReason,
	)
	if err != nil {
		return fmt.Errorf("insert return item: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de una devolución por ID.
func (r *ReturnRepo) GetByID(id string) (*entity.Return, error) {
	query := `SELECT ` + returnColumns + ` FROM returns WHERE id = $1`
	return scanReturnRow(r.q.QueryRow(context.Background(), query, id))
}

// GetItemsByReturnID devuelve las líneas de una devolución en orden de inserción.
func (r *ReturnRepo) GetItemsByReturnID(returnID string) ([]*entity.ReturnItem, error) {
	query := `
		SELECT id, return_id, sale_item_id, product_id, sku, name, original_quantity, return_quantity, unit_price, line_total, item_return_reason
		FROM return_items WHERE return_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, returnID)
	if err != nil {
		return nil, fmt.Errorf("list return items: %w", err)
	}
	defer rows.Close()
	var list []*entity.ReturnItem
	for rows.Next() {
		var it entity.ReturnItem
		if err := rows.Scan(&it.ID, &it.ReturnID, &it.SaleItemID, &it.ProductID, &it.SKU, &it.Name,
			&it.OriginalQuantity, &it.ReturnQuantity, &it.UnitPrice, &it.LineTotal, &it.ItemReturnReason); err != nil {
			return nil, fmt.Errorf("scan return item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// List lista devoluciones, opcionalmente filtradas por estado, reciente primero.
func (r *ReturnRepo) List(status string, limit, offset int) ([]*entity.Return, error) {
	query := `SELECT ` + returnColumns + ` FROM returns
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list returns: %w", err)
	}
	defer rows.Close()
	var list []*entity.Return
	for rows.Next() {
		ret, err := scanReturn(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, ret)
	}
	return list, rows.Err()
}

// UpdateStatus cambia el estado y updated_at de una devolución. El UPDATE es
// condicional al estado pending: si otra transición ganó la carrera, cero
// filas afectadas y domain.ErrConflict (el estado terminal nunca se pisa).
func (r *ReturnRepo) UpdateStatus(id, status string) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE returns SET status = $2, updated_at = now()
		 WHERE id = $1 AND status = $3`,
		id, status, entity.ReturnStatusPending,
	)
	if err != nil {
		return fmt.Errorf("update return status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

func scanReturnRow(row pgx.Row) (*entity.Return, error) {
	var ret entity.Return
	var customerID *string
	err := row.Scan(
		&ret.ID, &ret.ReturnNumber, &ret.SaleID, &ret.InvoiceNumber, &customerID,
		&ret.CustomerName, &ret.CustomerPhone, &ret.CustomerType, &ret.ReturnReason,
		&ret.ReturnType, &ret.RefundMethod, &ret.Notes, &ret.Subtotal, &ret.Discount,
		&ret.VATAmount, &ret.TotalRefund, &ret.Status, &ret.ReturnDate,
		&ret.CreatedAt, &ret.UpdatedAt, &ret.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get return: %w", err)
	}
	if customerID != nil {
		ret.CustomerID = *customerID
	}
	return &ret, nil
}

func scanReturn(rows pgx.Rows) (*entity.Return, error) {
	var ret entity.Return
	var customerID *string
	if err := rows.Scan(
		&ret.ID, &ret.ReturnNumber, &ret.SaleID, &ret.InvoiceNumber, &customerID,
		&ret.CustomerName, &ret.CustomerPhone, &ret.CustomerType, &ret.ReturnReason,
		&ret.ReturnType, &ret.RefundMethod, &ret.Notes, &ret.Subtotal, &ret.Discount,
		&ret.VATAmount, &ret.TotalRefund, &ret.Status, &ret.ReturnDate,
		&ret.CreatedAt, &ret.UpdatedAt, &ret.CreatedBy,
	); err != nil {
		return nil, fmt.Errorf("scan return: %w", err)
	}
	if customerID != nil {
		ret.CustomerID = *customerID
	}
	return &ret, nil
}
