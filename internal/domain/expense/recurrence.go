// Package expense contiene la lógica de dominio de gastos: validación de la
// configuración de recurrencia y cálculo de la próxima ocurrencia.
package expense

import (
	"time"

	"github.com/hcsmart/surgimart-api/internal/domain"
	"github.com/hcsmart/surgimart-api/internal/domain/entity"
)

var validFrequencies = map[string]bool{
	entity.FrequencyDaily:   true,
	entity.FrequencyWeekly:  true,
	entity.FrequencyMonthly: true,
	entity.FrequencyYearly:  true,
}

// ValidateRecurrence valida la configuración de un gasto recurrente:
// frecuencia del enum, intervalo >= 1, fecha de inicio obligatoria y fecha
// de fin (si existe) no anterior al inicio.
func ValidateRecurrence(rec *entity.Recurrence) error {
	if rec == nil {
		return domain.ErrInvalidInput
	}
	if !validFrequencies[rec.Frequency] {
		return domain.ErrInvalidInput
	}
	if rec.Interval < 1 {
		return domain.ErrInvalidInput
	}
	if rec.StartDate.IsZero() {
		return domain.ErrInvalidInput
	}
	if rec.EndDate != nil && rec.EndDate.Before(rec.StartDate) {
		return domain.ErrInvalidInput
	}
	return nil
}

// NextOccurrence devuelve la primera ocurrencia estrictamente posterior a
// after, o false si la serie ya terminó (EndDate superada). La primera
// ocurrencia de la serie es StartDate.
func NextOccurrence(rec *entity.Recurrence, after time.Time) (time.Time, bool) {
	if err := ValidateRecurrence(rec); err != nil {
		return time.Time{}, false
	}
	next := rec.StartDate
	for !next.After(after) {
		switch rec.Frequency {
		case entity.FrequencyDaily:
			next = next.AddDate(0, 0, rec.Interval)
		case entity.FrequencyWeekly:
			next = next.AddDate(0, 0, 7*rec.Interval)
		case entity.FrequencyMonthly:
			next = next.AddDate(0, rec.Interval, 0)
		case entity.FrequencyYearly:
			next = next.AddDate(rec.Interval, 0, 0)
		}
	}
	if rec.EndDate != nil && next.After(*rec.EndDate) {
		return time.Time{}, false
	}
	return next, true
}
