package repository

import "github.com/hcsmart/surgimart-api/internal/domain/entity"

// ReturnRepository define el puerto de persistencia para devoluciones.
type ReturnRepository interface {
	Create(ret *entity.Return) error
	CreateItem(item *entity.ReturnItem) error
	GetByID(id string) (*entity.Return, error)
	GetItemsByReturnID(returnID string) ([]*entity.ReturnItem, error)
	List(status string, limit, offset int) ([]*entity.Return, error)
	// UpdateStatus cambia el estado y updated_at, condicional a que el estado
	// actual siga siendo pending. Si una transición concurrente ya dejó la
	// devolución en estado terminal, devuelve domain.ErrConflict sin tocar
	// la fila; completed y cancelled nunca se sobrescriben.
	UpdateStatus(id, status string) error
}
