package repository

import "github.com/hcsmart/surgimart-api/internal/domain/entity"

// ExpenseRepository define el puerto de persistencia para gastos.
type ExpenseRepository interface {
	Create(expense *entity.Expense) error
	GetByID(id string) (*entity.Expense, error)
	List(limit, offset int) ([]*entity.Expense, error)
	Update(expense *entity.Expense) error
	Delete(id string) error
}
