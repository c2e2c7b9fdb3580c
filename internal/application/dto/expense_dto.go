package dto

import "github.com/shopspring/decimal"

// CreateExpenseRequest body para POST /api/expenses.
type CreateExpenseRequest struct {
	Category      string           `json:"category"`
	Description   string           `json:"description,omitempty"`
	Amount        decimal.Decimal  `json:"amount"`
	PaymentMethod string           `json:"payment_method,omitempty"`
	ExpenseDate   string           `json:"expense_date"` // YYYY-MM-DD
	Recurring     bool             `json:"recurring,omitempty"`
	Recurrence    *RecurrenceInput `json:"recurrence,omitempty"`
}

// RecurrenceInput configuración de recurrencia de un gasto.
type RecurrenceInput struct {
	Frequency string `json:"frequency"` // daily | weekly | monthly | yearly
	Interval  int    `json:"interval"`
	StartDate string `json:"start_date"`         // YYYY-MM-DD
	EndDate   string `json:"end_date,omitempty"` // YYYY-MM-DD
}

// ExpenseResponse respuesta de gasto.
type ExpenseResponse struct {
	ID             string              `json:"id"`
	Category       string              `json:"category"`
	Description    string              `json:"description,omitempty"`
	Amount         decimal.Decimal     `json:"amount"`
	PaymentMethod  string              `json:"payment_method,omitempty"`
	ExpenseDate    string              `json:"expense_date"`
	Recurring      bool                `json:"recurring"`
	Recurrence     *RecurrenceResponse `json:"recurrence,omitempty"`
	NextOccurrence string              `json:"next_occurrence,omitempty"`
}

// RecurrenceResponse configuración de recurrencia en la respuesta.
type RecurrenceResponse struct {
	Frequency string `json:"frequency"`
	Interval  int    `json:"interval"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date,omitempty"`
}
