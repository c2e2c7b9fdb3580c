package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frecuencias de recurrencia de un gasto.
const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
	FrequencyYearly  = "yearly"
)

// Expense representa un gasto del negocio (arriendo, servicios, nómina, etc.).
// Si Recurring es true, Recurrence describe cómo se repite.
type Expense struct {
	ID            string
	Category      string
	Description   string
	Amount        decimal.Decimal
	PaymentMethod string
	ExpenseDate   time.Time
	Recurring     bool
	Recurrence    *Recurrence
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CreatedBy     string
}

// Recurrence configura la repetición de un gasto recurrente.
// Interval es el multiplicador de la frecuencia (cada N días/semanas/...).
type Recurrence struct {
	Frequency string // daily | weekly | monthly | yearly
	Interval  int    // >= 1
	StartDate time.Time
	EndDate   *time.Time // nil = sin fin; si existe, no puede ser anterior a StartDate
}
