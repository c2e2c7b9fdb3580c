package returns

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hcsmart/surgimart-api/internal/domain/entity"
)

// BuildStockEntries construye una entrada del libro de inventario por cada
// línea devuelta, a partir de una foto del stock actual por producto.
// Invariante: NewQty = PreviousQty + Quantity (cantidad positiva, el producto
// vuelve al inventario). Es una función pura: no muta el stock; aplicar las
// entradas es responsabilidad del colaborador de persistencia.
//
// Si varias líneas refieren al mismo producto, las entradas encadenan el
// acumulado para que el invariante se conserve entrada a entrada.
func BuildStockEntries(current map[string]decimal.Decimal, ret *entity.Return, now time.Time, userID string) []*entity.StockMovement {
	running := make(map[string]decimal.Decimal, len(current))
	for id, qty := range current {
		running[id] = qty
	}

	entries := make([]*entity.StockMovement, 0, len(ret.Items))
	for i := range ret.Items {
		item := &ret.Items[i]
		prev := running[item.ProductID]
		next := prev.Add(item.ReturnQuantity)
		running[item.ProductID] = next

		entries = append(entries, &entity.StockMovement{
			ProductID:       item.ProductID,
			ProductName:     item.Name,
			MovementType:    entity.MovementTypeReturn,
			Quantity:        item.ReturnQuantity,
			PreviousQty:     prev,
			NewQty:          next,
			ReferenceType:   entity.ReferenceTypeReturn,
			ReferenceID:     ret.ID,
			ReferenceNumber: ret.ReturnNumber,
			CreatedAt:       now,
			CreatedBy:       userID,
		})
	}
	return entries
}
