package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hcsmart/surgimart-api/internal/domain/entity"
	"github.com/hcsmart/surgimart-api/internal/domain/repository"
)

var _ repository.ExpenseRepository = (*ExpenseRepo)(nil)

// ExpenseRepo implementación de ExpenseRepository sobre PostgreSQL.
// La recurrencia se guarda aplanada en columnas nullable de la misma tabla.
type ExpenseRepo struct {
	q Querier
}

// NewExpenseRepository construye el adaptador de gastos. Pasar pool o tx (Querier).
func NewExpenseRepository(q Querier) *ExpenseRepo {
	return &ExpenseRepo{q: q}
}

const expenseColumns = `id, category, description, amount, payment_method, expense_date, recurring,
		recurrence_frequency, recurrence_interval, recurrence_start, recurrence_end,
		created_at, updated_at, created_by`

func recurrenceArgs(e *entity.Expense) (freq, interval, start, end any) {
	if e.Recurrence == nil {
		return nil, nil, nil, nil
	}
	freq = e.Recurrence.Frequency
	interval = e.Recurrence.Interval
	start = e.Recurrence.StartDate
	if e.Recurrence.EndDate != nil {
		end = *e.Recurrence.EndDate
	}
	return freq, interval, start, end
}

// Create persiste un gasto.
func (r *ExpenseRepo) Create(expense *entity.Expense) error {
	query := `
		INSERT INTO expenses (` + expenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	freq, interval, start, end := recurrenceArgs(expense)
	_, err := r.q.Exec(context.Background(), query,
		expense.ID, expense.Category, expense.Description, expense.Amount,
		expense.PaymentMethod, expense.ExpenseDate, expense.Recurring,
		freq, interval, start, end,
		expense.CreatedAt, expense.UpdatedAt, expense.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

// GetByID obtiene un gasto por ID.
func (r *ExpenseRepo) GetByID(id string) (*entity.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1`
	var e entity.Expense
	if err := scanExpense(r.q.QueryRow(context.Background(), query, id), &e); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return &e, nil
}

// List lista gastos con paginación, reciente primero.
func (r *ExpenseRepo) List(limit, offset int) ([]*entity.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses ORDER BY expense_date DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()
	var list []*entity.Expense
	for rows.Next() {
		var e entity.Expense
		if err := scanExpense(rows, &e); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// Update actualiza un gasto existente.
func (r *ExpenseRepo) Update(expense *entity.Expense) error {
	query := `
		UPDATE expenses SET category = $2, description = $3, amount = $4, payment_method = $5,
			expense_date = $6, recurring = $7, recurrence_frequency = $8, recurrence_interval = $9,
			recurrence_start = $10, recurrence_end = $11, updated_at = $12
		WHERE id = $1`
	freq, interval, start, end := recurrenceArgs(expense)
	_, err := r.q.Exec(context.Background(), query,
		expense.ID, expense.Category, expense.Description, expense.Amount,
		expense.PaymentMethod, expense.ExpenseDate, expense.Recurring,
		freq, interval, start, end, expense.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return nil
}

// Delete elimina un gasto por ID.
func (r *ExpenseRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

// scanExpense rellena e desde una fila (pgx.Row o pgx.Rows) y reconstruye la recurrencia.
func scanExpense(row pgx.Row, e *entity.Expense) error {
	var freq *string
	var interval *int
	var start, end *time.Time
	if err := row.Scan(
		&e.ID, &e.Category, &e.Description, &e.Amount, &e.PaymentMethod,
		&e.ExpenseDate, &e.Recurring, &freq, &interval, &start, &end,
		&e.CreatedAt, &e.UpdatedAt, &e.CreatedBy,
	); err != nil {
		return err
	}
	if freq != nil && interval != nil && start != nil {
		e.Recurrence = &entity.Recurrence{
			Frequency: *freq,
			Interval:  *interval,
			StartDate: *start,
			EndDate:   end,
		}
	}
	return nil
}
