package expenses

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hcsmart/surgimart-api/internal/application/dto"
	"github.com/hcsmart/surgimart-api/internal/domain"
	"github.com/hcsmart/surgimart-api/internal/domain/entity"
	domexp "github.com/hcsmart/surgimart-api/internal/domain/expense"
	"github.com/hcsmart/surgimart-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// ExpenseUseCase gestiona los gastos del negocio, incluida la configuración
// de recurrencia (frecuencia, intervalo, inicio y fin).
type ExpenseUseCase struct {
	expenseRepo repository.ExpenseRepository
}

// NewExpenseUseCase construye el caso de uso.
func NewExpenseUseCase(expenseRepo repository.ExpenseRepository) *ExpenseUseCase {
	return &ExpenseUseCase{expenseRepo: expenseRepo}
}

// Create valida y persiste un gasto. Si es recurrente, la recurrencia se
// valida con las reglas de dominio antes de guardar.
func (uc *ExpenseUseCase) Create(ctx context.Context, userID string, in dto.CreateExpenseRequest) (*dto.ExpenseResponse, error) {
	if in.Category == "" || !in.Amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	expenseDate, err := time.Parse(dateLayout, in.ExpenseDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	var rec *entity.Recurrence
	if in.Recurring {
		if in.Recurrence == nil {
			return nil, domain.ErrInvalidInput
		}
		rec, err = parseRecurrence(in.Recurrence)
		if err != nil {
			return nil, err
		}
		if err := domexp.ValidateRecurrence(rec); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	expense := &entity.Expense{
		ID:            uuid.New().String(),
		Category:      in.Category,
		Description:   in.Description,
		Amount:        in.Amount.Round(2),
		PaymentMethod: in.PaymentMethod,
		ExpenseDate:   expenseDate,
		Recurring:     in.Recurring,
		Recurrence:    rec,
		CreatedAt:     now,
		UpdatedAt:     now,
		CreatedBy:     userID,
	}
	if err := uc.expenseRepo.Create(expense); err != nil {
		return nil, err
	}
	return toExpenseResponse(expense), nil
}

// GetByID devuelve un gasto.
func (uc *ExpenseUseCase) GetByID(ctx context.Context, id string) (*dto.ExpenseResponse, error) {
	expense, err := uc.expenseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, domain.ErrNotFound
	}
	return toExpenseResponse(expense), nil
}

// List devuelve los gastos paginados.
func (uc *ExpenseUseCase) List(ctx context.Context, page dto.PageRequest) ([]*dto.ExpenseResponse, error) {
	page.DefaultPage()
	list, err := uc.expenseRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	resp := make([]*dto.ExpenseResponse, 0, len(list))
	for _, e := range list {
		resp = append(resp, toExpenseResponse(e))
	}
	return resp, nil
}

// Delete elimina un gasto.
func (uc *ExpenseUseCase) Delete(ctx context.Context, id string) error {
	expense, err := uc.expenseRepo.GetByID(id)
	if err != nil {
		return err
	}
	if expense == nil {
		return domain.ErrNotFound
	}
	return uc.expenseRepo.Delete(id)
}

func parseRecurrence(in *dto.RecurrenceInput) (*entity.Recurrence, error) {
	start, err := time.Parse(dateLayout, in.StartDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	rec := &entity.Recurrence{
		Frequency: in.Frequency,
		Interval:  in.Interval,
		StartDate: start,
	}
	if in.EndDate != "" {
		end, err := time.Parse(dateLayout, in.EndDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		rec.EndDate = &end
	}
	return rec, nil
}

func toExpenseResponse(e *entity.Expense) *dto.ExpenseResponse {
	resp := &dto.ExpenseResponse{
		ID:            e.ID,
		Category:      e.Category,
		Description:   e.Description,
		Amount:        e.Amount,
		PaymentMethod: e.PaymentMethod,
		ExpenseDate:   e.ExpenseDate.Format(dateLayout),
		Recurring:     e.Recurring,
	}
	if e.Recurrence != nil {
		resp.Recurrence = &dto.RecurrenceResponse{
			Frequency: e.Recurrence.Frequency,
			Interval:  e.Recurrence.Interval,
			StartDate: e.Recurrence.StartDate.Format(dateLayout),
		}
		if e.Recurrence.EndDate != nil {
			resp.Recurrence.EndDate = e.Recurrence.EndDate.Format(dateLayout)
		}
		if next, ok := domexp.NextOccurrence(e.Recurrence, time.Now()); ok {
			resp.NextOccurrence = next.Format(dateLayout)
		}
	}
	return resp
}
