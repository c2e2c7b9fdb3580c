package returns_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hcsmart/surgimart-api/internal/domain/entity"
	"github.com/hcsmart/surgimart-api/internal/domain/returns"
)

// ──────────────────────────────────────────────────────────────────────────────
// BuildStockEntries — entradas del libro de inventario por devolución
// ──────────────────────────────────────────────────────────────────────────────

func TestBuildStockEntries_InvarianteNewQty(t *testing.T) {
	now := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	ret := &entity.Return{
		ID:           "ret-001",
		ReturnNumber: "RET-1000",
		Items: []entity.ReturnItem{
			{ProductID: "prod-001", Name: "Gasa estéril 10x10", ReturnQuantity: d("3")},
			{ProductID: "prod-002", Name: "Bisturí desechable #22", ReturnQuantity: d("1")},
		},
	}
	current := map[string]decimal.Decimal{
		"prod-001": d("10"),
		"prod-002": d("0"),
	}

	entries := returns.BuildStockEntries(current, ret, now, "user-1")

	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.True(t, e.NewQty.Equal(e.PreviousQty.Add(e.Quantity)),
			"cada entrada debe cumplir NewQty = PreviousQty + Quantity")
		assert.Equal(t, entity.MovementTypeReturn, e.MovementType)
		assert.Equal(t, entity.ReferenceTypeReturn, e.ReferenceType)
		assert.Equal(t, "ret-001", e.ReferenceID)
		assert.Equal(t, "RET-1000", e.ReferenceNumber)
		assert.Equal(t, "user-1", e.CreatedBy)
		assert.True(t, e.Quantity.GreaterThan(decimal.Zero), "la devolución reingresa stock")
	}

	assert.Equal(t, "10", entries[0].PreviousQty.String())
	assert.Equal(t, "13", entries[0].NewQty.String())
	assert.Equal(t, "0", entries[1].PreviousQty.String())
	assert.Equal(t, "1", entries[1].NewQty.String())
}

// Dos líneas del mismo producto: las entradas encadenan el acumulado para
// que el invariante se conserve entrada a entrada.
func TestBuildStockEntries_MismoProductoEncadena(t *testing.T) {
	now := time.Now()
	ret := &entity.Return{
		ID: "ret-002",
		Items: []entity.ReturnItem{
			{ProductID: "prod-001", Name: "Gasa estéril 10x10", ReturnQuantity: d("2")},
			{ProductID: "prod-001", Name: "Gasa estéril 10x10", ReturnQuantity: d("3")},
		},
	}
	current := map[string]decimal.Decimal{"prod-001": d("5")}

	entries := returns.BuildStockEntries(current, ret, now, "user-1")

	require.Len(t, entries, 2)
	assert.Equal(t, "5", entries[0].PreviousQty.String())
	assert.Equal(t, "7", entries[0].NewQty.String())
	assert.Equal(t, "7", entries[1].PreviousQty.String(), "la segunda entrada parte del acumulado")
	assert.Equal(t, "10", entries[1].NewQty.String())
}

// Producto sin fila de stock previa: parte de cero.
func TestBuildStockEntries_StockInexistenteParteDeCero(t *testing.T) {
	ret := &entity.Return{
		ID:    "ret-003",
		Items: []entity.ReturnItem{{ProductID: "prod-009", Name: "Venda elástica", ReturnQuantity: d("4")}},
	}

	entries := returns.BuildStockEntries(map[string]decimal.Decimal{}, ret, time.Now(), "user-1")

	require.Len(t, entries, 1)
	assert.True(t, entries[0].PreviousQty.IsZero())
	assert.Equal(t, "4", entries[0].NewQty.String())
}

// La función es pura: no muta la foto de stock recibida.
func TestBuildStockEntries_NoMutaLaFoto(t *testing.T) {
	ret := &entity.Return{
		ID:    "ret-004",
		Items: []entity.ReturnItem{{ProductID: "prod-001", Name: "Gasa", ReturnQuantity: d("2")}},
	}
	current := map[string]decimal.Decimal{"prod-001": d("8")}

	_ = returns.BuildStockEntries(current, ret, time.Now(), "user-1")

	assert.Equal(t, "8", current["prod-001"].String(), "la foto original no debe cambiar")
}
