package expense_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hcsmart/surgimart-api/internal/domain"
	"github.com/hcsmart/surgimart-api/internal/domain/entity"
	"github.com/hcsmart/surgimart-api/internal/domain/expense"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ──────────────────────────────────────────────────────────────────────────────
// ValidateRecurrence
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateRecurrence_Valida(t *testing.T) {
	end := date(2026, time.December, 31)
	rec := &entity.Recurrence{
		Frequency: entity.FrequencyMonthly,
		Interval:  1,
		StartDate: date(2025, time.January, 1),
		EndDate:   &end,
	}
	assert.NoError(t, expense.ValidateRecurrence(rec))
}

func TestValidateRecurrence_Rechazos(t *testing.T) {
	base := entity.Recurrence{
		Frequency: entity.FrequencyWeekly,
		Interval:  1,
		StartDate: date(2025, time.January, 1),
	}

	assert.ErrorIs(t, expense.ValidateRecurrence(nil), domain.ErrInvalidInput, "nil")

	rec := base
	rec.Frequency = "fortnightly"
	assert.ErrorIs(t, expense.ValidateRecurrence(&rec), domain.ErrInvalidInput, "frecuencia fuera del enum")

	rec = base
	rec.Interval = 0
	assert.ErrorIs(t, expense.ValidateRecurrence(&rec), domain.ErrInvalidInput, "intervalo < 1")

	rec = base
	rec.StartDate = time.Time{}
	assert.ErrorIs(t, expense.ValidateRecurrence(&rec), domain.ErrInvalidInput, "sin fecha de inicio")

	rec = base
	end := date(2024, time.December, 31) // anterior al inicio
	rec.EndDate = &end
	assert.ErrorIs(t, expense.ValidateRecurrence(&rec), domain.ErrInvalidInput, "fin anterior al inicio")
}

// ──────────────────────────────────────────────────────────────────────────────
// NextOccurrence
// ──────────────────────────────────────────────────────────────────────────────

// Mensual cada 1 mes desde el 15 de enero: tras el 20 de febrero toca el 15 de marzo.
func TestNextOccurrence_Mensual(t *testing.T) {
	rec := &entity.Recurrence{
		Frequency: entity.FrequencyMonthly,
		Interval:  1,
		StartDate: date(2025, time.January, 15),
	}

	next, ok := expense.NextOccurrence(rec, date(2025, time.February, 20))
	require.True(t, ok)
	assert.Equal(t, date(2025, time.March, 15), next)
}

// Antes del inicio de la serie, la próxima ocurrencia es StartDate.
func TestNextOccurrence_AntesDelInicio(t *testing.T) {
	rec := &entity.Recurrence{
		Frequency: entity.FrequencyDaily,
		Interval:  1,
		StartDate: date(2025, time.June, 1),
	}

	next, ok := expense.NextOccurrence(rec, date(2025, time.January, 1))
	require.True(t, ok)
	assert.Equal(t, date(2025, time.June, 1), next)
}

// Semanal cada 2 semanas: los saltos son de 14 días.
func TestNextOccurrence_SemanalConIntervalo(t *testing.T) {
	rec := &entity.Recurrence{
		Frequency: entity.FrequencyWeekly,
		Interval:  2,
		StartDate: date(2025, time.January, 6),
	}

	next, ok := expense.NextOccurrence(rec, date(2025, time.January, 6))
	require.True(t, ok)
	assert.Equal(t, date(2025, time.January, 20), next)
}

// Serie terminada: la ocurrencia calculada supera EndDate.
func TestNextOccurrence_SerieTerminada(t *testing.T) {
	end := date(2025, time.March, 31)
	rec := &entity.Recurrence{
		Frequency: entity.FrequencyMonthly,
		Interval:  1,
		StartDate: date(2025, time.January, 1),
		EndDate:   &end,
	}

	next, ok := expense.NextOccurrence(rec, date(2025, time.February, 15))
	require.True(t, ok)
	assert.Equal(t, date(2025, time.March, 1), next, "el 1 de marzo aún cabe en la serie")

	_, ok = expense.NextOccurrence(rec, date(2025, time.March, 15))
	assert.False(t, ok, "la siguiente sería el 1 de abril, que supera el fin")
}

// Anual: el salto respeta años.
func TestNextOccurrence_Anual(t *testing.T) {
	rec := &entity.Recurrence{
		Frequency: entity.FrequencyYearly,
		Interval:  1,
		StartDate: date(2024, time.July, 1),
	}

	next, ok := expense.NextOccurrence(rec, date(2025, time.January, 1))
	require.True(t, ok)
	assert.Equal(t, date(2025, time.July, 1), next)
}
