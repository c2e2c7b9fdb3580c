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
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

// buildReturnValido: devolución de 5 unidades a $100 sobre la factura INV-001,
// motivo "Damaged". Debe pasar el validador sin violaciones.
func buildReturnValido() *entity.Return {
	return &entity.Return{
		SaleID:        "sale-001",
		InvoiceNumber: "INV-001",
		Items: []entity.ReturnItem{
			{
				ProductID:        "prod-001",
				Name:             "Gasa estéril 10x10",
				OriginalQuantity: d("5"),
				ReturnQuantity:   d("5"),
				UnitPrice:        d("100"),
				LineTotal:        d("500"),
			},
		},
		ReturnReason: entity.ReturnReasonDamaged,
		ReturnType:   entity.ReturnTypeFull,
		RefundMethod: entity.RefundMethodCash,
		Subtotal:     d("500"),
		Discount:     decimal.Zero,
		VATAmount:    decimal.Zero,
		TotalRefund:  d("500"),
		Status:       entity.ReturnStatusPending,
		ReturnDate:   time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC),
	}
}

func findViolation(vs []returns.Violation, field, rule string) *returns.Violation {
	for i := range vs {
		if vs[i].Field == field && vs[i].Rule == rule {
			return &vs[i]
		}
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Aceptación
// ──────────────────────────────────────────────────────────────────────────────

// Devolución completa de 5 unidades a $100: cero violaciones y total 500.00.
func TestValidate_DevolucionValida_SinViolaciones(t *testing.T) {
	ret := buildReturnValido()

	vs := returns.Validate(ret)

	assert.Empty(t, vs, "una devolución bien formada no debe producir violaciones")
	assert.Equal(t, "500", ret.TotalRefund.String())
}

// Validar dos veces el mismo registro produce el mismo resultado (puro).
func TestValidate_EsIdempotente(t *testing.T) {
	ret := buildReturnValido()

	vs1 := returns.Validate(ret)
	vs2 := returns.Validate(ret)

	assert.Equal(t, vs1, vs2, "el validador no debe mutar el candidato")
	assert.Empty(t, returns.Validate(returns.Normalize(ret)),
		"un registro válido normalizado sigue siendo válido")
}

// ──────────────────────────────────────────────────────────────────────────────
// Rechazos por regla
// ──────────────────────────────────────────────────────────────────────────────

// Cantidad 6 sobre una línea de 5 unidades: range_violation en la línea.
func TestValidate_CantidadSuperaOriginal_RangeViolation(t *testing.T) {
	ret := buildReturnValido()
	ret.Items[0].ReturnQuantity = d("6")
	ret.Items[0].LineTotal = d("600")
	ret.Subtotal = d("600")
	ret.TotalRefund = d("600")

	vs := returns.Validate(ret)

	require.NotEmpty(t, vs)
	v := findViolation(vs, "items[0].return_quantity", returns.RuleRangeViolation)
	require.NotNil(t, v, "debe reportar range_violation sobre return_quantity")
}

// Sin líneas: missing_required sobre items.
func TestValidate_SinLineas_MissingRequired(t *testing.T) {
	ret := buildReturnValido()
	ret.Items = nil
	ret.Subtotal = decimal.Zero
	ret.TotalRefund = decimal.Zero

	vs := returns.Validate(ret)

	v := findViolation(vs, "items", returns.RuleMissingRequired)
	require.NotNil(t, v, "una devolución sin líneas debe reportar missing_required en items")
}

// Motivo fuera del enum ("Stolen"): enum_violation.
func TestValidate_MotivoNoAdmitido_EnumViolation(t *testing.T) {
	ret := buildReturnValido()
	ret.ReturnReason = "Stolen"

	vs := returns.Validate(ret)

	v := findViolation(vs, "return_reason", returns.RuleEnumViolation)
	require.NotNil(t, v, `el motivo "Stolen" no pertenece al enum`)
}

// Cantidad no entera: type_mismatch (las unidades físicas no se fraccionan).
func TestValidate_CantidadFraccionaria_TypeMismatch(t *testing.T) {
	ret := buildReturnValido()
	ret.Items[0].ReturnQuantity = d("2.5")
	ret.Items[0].LineTotal = d("250")
	ret.Subtotal = d("250")
	ret.TotalRefund = d("250")

	vs := returns.Validate(ret)

	v := findViolation(vs, "items[0].return_quantity", returns.RuleTypeMismatch)
	require.NotNil(t, v, "cantidad fraccionaria debe reportar type_mismatch")
}

// Varios problemas a la vez: el validador no se detiene en el primero.
func TestValidate_ReportaTodasLasViolaciones(t *testing.T) {
	ret := buildReturnValido()
	ret.InvoiceNumber = ""
	ret.ReturnReason = "Stolen"
	ret.Items[0].ReturnQuantity = d("0")
	ret.Items[0].LineTotal = decimal.Zero
	ret.Subtotal = decimal.Zero
	ret.TotalRefund = decimal.Zero

	vs := returns.Validate(ret)

	assert.NotNil(t, findViolation(vs, "invoice_number", returns.RuleMissingRequired))
	assert.NotNil(t, findViolation(vs, "return_reason", returns.RuleEnumViolation))
	assert.NotNil(t, findViolation(vs, "items[0].return_quantity", returns.RuleRangeViolation))
	assert.GreaterOrEqual(t, len(vs), 3, "deben reportarse todas las violaciones, no solo la primera")
}

// ──────────────────────────────────────────────────────────────────────────────
// Conservación de totales
// ──────────────────────────────────────────────────────────────────────────────

// line_total manipulado: range_violation sobre la línea y el subtotal.
func TestValidate_LineTotalNoCoincide_RangeViolation(t *testing.T) {
	ret := buildReturnValido()
	ret.Items[0].LineTotal = d("499") // 5 * 100 = 500

	vs := returns.Validate(ret)

	assert.NotNil(t, findViolation(vs, "items[0].line_total", returns.RuleRangeViolation))
	assert.NotNil(t, findViolation(vs, "subtotal", returns.RuleRangeViolation))
}

// total_refund debe ser subtotal - discount + vat_amount.
func TestValidate_TotalRefundNoConserva_RangeViolation(t *testing.T) {
	ret := buildReturnValido()
	ret.Discount = d("50")
	ret.VATAmount = d("95")
	ret.TotalRefund = d("500") // debería ser 500 - 50 + 95 = 545

	vs := returns.Validate(ret)

	v := findViolation(vs, "total_refund", returns.RuleRangeViolation)
	require.NotNil(t, v, "total_refund inconsistente debe reportar range_violation")

	ret.TotalRefund = d("545")
	assert.Empty(t, returns.Validate(ret), "con el total correcto no debe haber violaciones")
}

// Método de reembolso ausente: permitido. Método fuera del enum: rechazado.
func TestValidate_RefundMethodOpcional(t *testing.T) {
	ret := buildReturnValido()
	ret.RefundMethod = ""
	assert.Empty(t, returns.Validate(ret), "refund_method puede estar ausente")

	ret.RefundMethod = "bitcoin"
	v := findViolation(returns.Validate(ret), "refund_method", returns.RuleEnumViolation)
	require.NotNil(t, v)
}

// Normalize redondea la moneda a 2 decimales sin romper la conservación.
func TestNormalize_RedondeaMoneda(t *testing.T) {
	ret := buildReturnValido()
	ret.Items[0].UnitPrice = d("33.333")
	ret.Items[0].ReturnQuantity = d("3")
	ret.Items[0].OriginalQuantity = d("3")
	ret.Items[0].LineTotal = d("3").Mul(d("33.333")).Round(2) // 100.00
	ret.Subtotal = ret.Items[0].LineTotal
	ret.TotalRefund = ret.Subtotal

	returns.Normalize(ret)

	assert.Equal(t, "33.33", ret.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "100.00", ret.Subtotal.StringFixed(2))
}
