package returns_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hcsmart/surgimart-api/internal/domain"
	"github.com/hcsmart/surgimart-api/internal/domain/entity"
	"github.com/hcsmart/surgimart-api/internal/domain/returns"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de prueba
// ──────────────────────────────────────────────────────────────────────────────

// fakeFinder devuelve la venta configurada, o ErrSaleNotFound si es nil.
type fakeFinder struct {
	sale  *returns.ReturnableSale
	calls int
}

func (f *fakeFinder) FindSale(_ context.Context, invoiceNumber string) (*returns.ReturnableSale, error) {
	f.calls++
	if f.sale == nil || f.sale.Sale.InvoiceNumber != invoiceNumber {
		return nil, domain.ErrSaleNotFound
	}
	return f.sale, nil
}

// fakeSubmitter acepta o rechaza el envío según err.
type fakeSubmitter struct {
	err       error
	submitted *entity.Return
	calls     int
}

func (s *fakeSubmitter) SubmitReturn(_ context.Context, ret *entity.Return) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	s.submitted = ret
	return "RET-1000", nil
}

// buildSale: venta INV-001 con dos líneas, una de ellas parcialmente devuelta.
//
//	línea 0: 5 x $100, nada devuelto  → devolvible 5
//	línea 1: 2 x $250, 1 ya devuelto  → devolvible 1
func buildSale() *returns.ReturnableSale {
	return &returns.ReturnableSale{
		Sale: entity.Sale{
			ID:            "sale-001",
			InvoiceNumber: "INV-001",
			Subtotal:      d("1000"),
			Discount:      d("100"),
			VATAmount:     d("190"),
			GrandTotal:    d("1090"),
		},
		Items: []returns.ReturnableItem{
			{
				SaleItemID:       "item-0",
				ProductID:        "prod-001",
				SKU:              "GAS-10",
				Name:             "Gasa estéril 10x10",
				UnitPrice:        d("100"),
				OriginalQuantity: d("5"),
				ReturnedQuantity: decimal.Zero,
			},
			{
				SaleItemID:       "item-1",
				ProductID:        "prod-002",
				SKU:              "BIS-22",
				Name:             "Bisturí desechable #22",
				UnitPrice:        d("250"),
				OriginalQuantity: d("2"),
				ReturnedQuantity: d("1"),
			},
		},
	}
}

func newWorkflowEnSeleccion(t *testing.T, sub *fakeSubmitter) *returns.Workflow {
	t.Helper()
	wf := returns.NewWorkflow(&fakeFinder{sale: buildSale()}, sub)
	require.NoError(t, wf.FindSale(context.Background(), "INV-001"))
	require.Equal(t, returns.StateItemSelection, wf.State())
	return wf
}

// ──────────────────────────────────────────────────────────────────────────────
// Búsqueda
// ──────────────────────────────────────────────────────────────────────────────

func TestWorkflow_EmpiezaEnBusqueda(t *testing.T) {
	wf := returns.NewWorkflow(&fakeFinder{}, &fakeSubmitter{})
	assert.Equal(t, returns.StateSearching, wf.State())
	assert.Nil(t, wf.Sale())
}

// Factura inexistente: el asistente permanece en búsqueda y puede reintentar.
func TestWorkflow_FacturaInexistente_PermaneceEnBusqueda(t *testing.T) {
	finder := &fakeFinder{sale: buildSale()}
	wf := returns.NewWorkflow(finder, &fakeSubmitter{})

	err := wf.FindSale(context.Background(), "INV-999")
	assert.ErrorIs(t, err, domain.ErrSaleNotFound)
	assert.Equal(t, returns.StateSearching, wf.State())

	// Reintento con la factura correcta: avanza a selección.
	require.NoError(t, wf.FindSale(context.Background(), "INV-001"))
	assert.Equal(t, returns.StateItemSelection, wf.State())
	assert.Equal(t, 2, finder.calls)
}

// Una nueva búsqueda descarta las selecciones previas.
func TestWorkflow_NuevaBusquedaDescartaSelecciones(t *testing.T) {
	wf := newWorkflowEnSeleccion(t, &fakeSubmitter{})
	require.NoError(t, wf.SelectItem(0, d("2"), ""))

	require.NoError(t, wf.FindSale(context.Background(), "INV-001"))

	err := wf.BeginConfirmation()
	assert.ErrorIs(t, err, domain.ErrIncompleteSelection,
		"tras rebuscar no debe quedar ninguna línea seleccionada")
}

// ──────────────────────────────────────────────────────────────────────────────
// Selección de líneas
// ──────────────────────────────────────────────────────────────────────────────

func TestWorkflow_SelectItem_CantidadFueraDeRango(t *testing.T) {
	wf := newWorkflowEnSeleccion(t, &fakeSubmitter{})

	// Más que el remanente devolvible (línea 1 solo tiene 1 devolvible).
	assert.ErrorIs(t, wf.SelectItem(1, d("2"), ""), domain.ErrInvalidQuantity)
	// Fraccionaria.
	assert.ErrorIs(t, wf.SelectItem(0, d("2.5"), ""), domain.ErrInvalidQuantity)
	// Negativa.
	assert.ErrorIs(t, wf.SelectItem(0, d("-1"), ""), domain.ErrInvalidQuantity)
	// Índice fuera de la venta.
	assert.ErrorIs(t, wf.SelectItem(7, d("1"), ""), domain.ErrNotFound)

	// El techo exacto sí se admite.
	assert.NoError(t, wf.SelectItem(1, d("1"), entity.ReturnReasonDamaged))
}

// Cantidad cero deselecciona la línea.
func TestWorkflow_SelectItem_CeroDeselecciona(t *testing.T) {
	wf := newWorkflowEnSeleccion(t, &fakeSubmitter{})
	require.NoError(t, wf.SelectItem(0, d("2"), ""))
	require.NoError(t, wf.SelectItem(0, decimal.Zero, ""))

	assert.ErrorIs(t, wf.BeginConfirmation(), domain.ErrIncompleteSelection)
}

func TestWorkflow_BeginConfirmation_SinSeleccion(t *testing.T) {
	wf := newWorkflowEnSeleccion(t, &fakeSubmitter{})
	assert.ErrorIs(t, wf.BeginConfirmation(), domain.ErrIncompleteSelection)
	assert.Equal(t, returns.StateItemSelection, wf.State())
}

// ──────────────────────────────────────────────────────────────────────────────
// Confirmación y envío
// ──────────────────────────────────────────────────────────────────────────────

// Devolución parcial: 2 de 5 unidades de la línea 0. Descuento e IVA se
// reparten en proporción al peso del subtotal devuelto (200/1000 = 20%).
func TestWorkflow_Confirm_ParcialConProporcionales(t *testing.T) {
	sub := &fakeSubmitter{}
	wf := newWorkflowEnSeleccion(t, sub)
	require.NoError(t, wf.SelectItem(0, d("2"), ""))
	require.NoError(t, wf.BeginConfirmation())

	ret, err := wf.Confirm(context.Background(), entity.ReturnReasonDamaged, entity.RefundMethodCash, "")
	require.NoError(t, err)

	assert.Equal(t, returns.StateSubmitted, wf.State())
	assert.Equal(t, "RET-1000", ret.ReturnNumber)
	assert.Equal(t, entity.ReturnTypePartial, ret.ReturnType)
	assert.Equal(t, "200.00", ret.Subtotal.StringFixed(2))
	assert.Equal(t, "20.00", ret.Discount.StringFixed(2), "20% del descuento de la venta")
	assert.Equal(t, "38.00", ret.VATAmount.StringFixed(2), "20% del IVA de la venta")
	assert.Equal(t, "218.00", ret.TotalRefund.StringFixed(2), "200 - 20 + 38")
	assert.Equal(t, entity.ReturnStatusPending, ret.Status)
	assert.Equal(t, 1, sub.calls)
}

// Se devuelve todo el remanente de todas las líneas: tipo full.
func TestWorkflow_Confirm_TodoElRemanente_EsFull(t *testing.T) {
	wf := newWorkflowEnSeleccion(t, &fakeSubmitter{})
	require.NoError(t, wf.SelectItem(0, d("5"), ""))
	require.NoError(t, wf.SelectItem(1, d("1"), ""))
	require.NoError(t, wf.BeginConfirmation())

	ret, err := wf.Confirm(context.Background(), entity.ReturnReasonExpired, "", "")
	require.NoError(t, err)

	assert.Equal(t, entity.ReturnTypeFull, ret.ReturnType,
		"devolver el remanente completo de todas las líneas deriva full")
	// 5*100 + 1*250 = 750
	assert.Equal(t, "750.00", ret.Subtotal.StringFixed(2))
}

// Si el envío falla, el asistente permanece en confirmación con su estado
// intacto y el error conserva la causa original.
func TestWorkflow_Confirm_FalloDeEnvio_PermiteReintentar(t *testing.T) {
	sub := &fakeSubmitter{err: domain.ErrReturnExceedsRemainder}
	wf := newWorkflowEnSeleccion(t, sub)
	require.NoError(t, wf.SelectItem(0, d("2"), ""))
	require.NoError(t, wf.BeginConfirmation())

	_, err := wf.Confirm(context.Background(), entity.ReturnReasonDamaged, "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSubmissionFailed)
	assert.ErrorIs(t, err, domain.ErrReturnExceedsRemainder, "la causa original debe viajar unida")
	assert.Equal(t, returns.StateConfirmation, wf.State(), "el estado queda intacto para reintentar")

	// Reintento manual tras resolver la causa.
	sub.err = nil
	ret, err := wf.Confirm(context.Background(), entity.ReturnReasonDamaged, "", "")
	require.NoError(t, err)
	assert.Equal(t, "RET-1000", ret.ReturnNumber)
	assert.Equal(t, 2, sub.calls)
}

// Motivo fuera del enum: el validador rechaza con las violaciones completas
// y el envío nunca ocurre.
func TestWorkflow_Confirm_MotivoInvalido_SchemaViolation(t *testing.T) {
	sub := &fakeSubmitter{}
	wf := newWorkflowEnSeleccion(t, sub)
	require.NoError(t, wf.SelectItem(0, d("2"), ""))
	require.NoError(t, wf.BeginConfirmation())

	_, err := wf.Confirm(context.Background(), "Stolen", "", "")

	var schemaErr *returns.SchemaViolationError
	require.ErrorAs(t, err, &schemaErr)
	assert.NotEmpty(t, schemaErr.Violations)
	assert.Equal(t, 0, sub.calls, "el envío no debe ocurrir si el esquema rechaza")
	assert.Equal(t, returns.StateConfirmation, wf.State())
}

// Las etapas no se pueden saltar.
func TestWorkflow_TransicionesInvalidas(t *testing.T) {
	wf := returns.NewWorkflow(&fakeFinder{sale: buildSale()}, &fakeSubmitter{})

	assert.ErrorIs(t, wf.SelectItem(0, d("1"), ""), domain.ErrConflict)
	assert.ErrorIs(t, wf.BeginConfirmation(), domain.ErrConflict)
	_, err := wf.Confirm(context.Background(), entity.ReturnReasonDamaged, "", "")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

// Tras el envío el asistente es terminal: no admite una nueva búsqueda.
func TestWorkflow_SubmittedEsTerminal(t *testing.T) {
	wf := newWorkflowEnSeleccion(t, &fakeSubmitter{})
	require.NoError(t, wf.SelectItem(0, d("1"), ""))
	require.NoError(t, wf.BeginConfirmation())
	_, err := wf.Confirm(context.Background(), entity.ReturnReasonOther, "", "")
	require.NoError(t, err)

	assert.ErrorIs(t, wf.FindSale(context.Background(), "INV-001"), domain.ErrConflict)
}

// El error de envío no debe confundirse con errores de validación previos.
func TestWorkflow_Confirm_ErrorGenericoDeEnvio(t *testing.T) {
	sub := &fakeSubmitter{err: errors.New("deadlock detected")}
	wf := newWorkflowEnSeleccion(t, sub)
	require.NoError(t, wf.SelectItem(0, d("1"), ""))
	require.NoError(t, wf.BeginConfirmation())

	_, err := wf.Confirm(context.Background(), entity.ReturnReasonDamaged, "", "")
	assert.ErrorIs(t, err, domain.ErrSubmissionFailed)

	var schemaErr *returns.SchemaViolationError
	assert.False(t, errors.As(err, &schemaErr))
}
