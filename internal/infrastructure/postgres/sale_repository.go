package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/hcsmart/surgimart-api/internal/domain"
	"github.com/hcsmart/surgimart-api/internal/domain/entity"
	"github.com/hcsmart/surgimart-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, invoice_number, customer_id, customer_name, customer_phone, customer_type,
		subtotal, discount, vat_amount, grand_total, payment_method, date, created_at, created_by`

// Create persiste la cabecera de una venta.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.InvoiceNumber, nullIfEmpty(sale.CustomerID), sale.CustomerName,
		sale.CustomerPhone, sale.CustomerType, sale.Subtotal, sale.Discount,
		sale.VATAmount, sale.GrandTotal, sale.PaymentMethod, sale.Date,
		sale.CreatedAt, sale.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de venta.
func (r *SaleRepo) CreateItem(item *entity.SaleItem) error {
	query := `
		INSERT INTO sale_items (id, sale_id, product_id, sku, name, quantity, unit_price, line_total, returned_quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.SaleID, item.ProductID, item.SKU, item.Name,
		item.Quantity, item.UnitPrice, item.LineTotal, item.ReturnedQuantity,
	)
	if err != nil {
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de una venta por ID.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	return r.scanSaleRow(r.q.QueryRow(context.Background(), query, id))
}

// GetByInvoiceNumber busca por número de factura exacto; nil si no existe.
func (r *SaleRepo) GetByInvoiceNumber(invoiceNumber string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE invoice_number = $1`
	return r.scanSaleRow(r.q.QueryRow(context.Background(), query, invoiceNumber))
}

// FindByInvoicePrefix devuelve las ventas cuyo número de factura comienza por prefix.
func (r *SaleRepo) FindByInvoicePrefix(prefix string, limit int) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE invoice_number LIKE $1 || '%' ORDER BY created_at DESC LIMIT $2`
	rows, err := r.q.Query(context.Background(), query, prefix, limit)
	if err != nil {
		return nil, fmt.Errorf("find sales by prefix: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// GetItemsBySaleID devuelve las líneas de una venta en orden de inserción.
func (r *SaleRepo) GetItemsBySaleID(saleID string) ([]*entity.SaleItem, error) {
	query := `
		SELECT id, sale_id, product_id, sku, name, quantity, unit_price, line_total, returned_quantity
		FROM sale_items WHERE sale_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.SKU, &it.Name,
			&it.Quantity, &it.UnitPrice, &it.LineTotal, &it.ReturnedQuantity); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// GetItemForUpdate bloquea la fila de la línea (SELECT FOR UPDATE) para el
// incremento atómico de returned_quantity con techo.
func (r *SaleRepo) GetItemForUpdate(itemID string) (*entity.SaleItem, error) {
	query := `
		SELECT id, sale_id, product_id, sku, name, quantity, unit_price, line_total, returned_quantity
		FROM sale_items WHERE id = $1
		FOR UPDATE`
	var it entity.SaleItem
	err := r.q.QueryRow(context.Background(), query, itemID).Scan(
		&it.ID, &it.SaleID, &it.ProductID, &it.SKU, &it.Name,
		&it.Quantity, &it.UnitPrice, &it.LineTotal, &it.ReturnedQuantity,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale item for update: %w", err)
	}
	return &it, nil
}

// UpdateItemReturnedQuantity fija el acumulado devuelto de la línea.
func (r *SaleRepo) UpdateItemReturnedQuantity(itemID string, returned decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE sale_items SET returned_quantity = $2 WHERE id = $1`,
		itemID, returned,
	)
	if err != nil {
		return fmt.Errorf("update returned quantity: %w", err)
	}
	return nil
}

func (r *SaleRepo) scanSaleRow(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var customerID *string
	err := row.Scan(
		&s.ID, &s.InvoiceNumber, &customerID, &s.CustomerName, &s.CustomerPhone,
		&s.CustomerType, &s.Subtotal, &s.Discount, &s.VATAmount, &s.GrandTotal,
		&s.PaymentMethod, &s.Date, &s.CreatedAt, &s.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if customerID != nil {
		s.CustomerID = *customerID
	}
	return &s, nil
}

func scanSale(rows pgx.Rows) (*entity.Sale, error) {
	var s entity.Sale
	var customerID *string
	if err := rows.Scan(
		&s.ID, &s.InvoiceNumber, &customerID, &s.CustomerName, &s.CustomerPhone,
		&s.CustomerType, &s.Subtotal, &s.Discount, &s.VATAmount, &s.GrandTotal,
		&s.PaymentMethod, &s.Date, &s.CreatedAt, &s.CreatedBy,
	); err != nil {
		return nil, fmt.Errorf("scan sale: %w", err)
	}
	if customerID != nil {
		s.CustomerID = *customerID
	}
	return &s, nil
}
