// Package returns contiene el núcleo de dominio de devoluciones: el
// asistente de captura (máquina de estados), el validador del registro de
// devolución y el constructor de entradas del libro de inventario.
package returns

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hcsmart/surgimart-api/internal/domain/entity"
)

// Reglas de validación. Cada violación se reporta con la ruta del campo
// y la regla incumplida; la validación no se detiene en la primera falla.
const (
	RuleMissingRequired = "missing_required"
	RuleTypeMismatch    = "type_mismatch"
	RuleEnumViolation   = "enum_violation"
	RuleRangeViolation  = "range_violation"
)

// Violation describe un campo que incumple una regla del esquema.
type Violation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Enumeraciones cerradas del esquema.
var (
	validReasons = map[string]bool{
		entity.ReturnReasonExpired:            true,
		entity.ReturnReasonDamaged:            true,
		entity.ReturnReasonWrongProduct:       true,
		entity.ReturnReasonCustomerChanged:    true,
		entity.ReturnReasonQualityIssue:       true,
		entity.ReturnReasonPrescriptionChange: true,
		entity.ReturnReasonDuplicatePurchase:  true,
		entity.ReturnReasonOther:              true,
	}
	validTypes = map[string]bool{
		entity.ReturnTypeFull:    true,
		entity.ReturnTypePartial: true,
	}
	validRefundMethods = map[string]bool{
		entity.RefundMethodCash:            true,
		entity.RefundMethodBank:            true,
		entity.RefundMethodStoreCredit:     true,
		entity.RefundMethodOriginalPayment: true,
	}
	validStatuses = map[string]bool{
		entity.ReturnStatusPending:   true,
		entity.ReturnStatusCompleted: true,
		entity.ReturnStatusCancelled: true,
	}
)

// Validate valida un candidato a devolución contra el esquema. Devuelve la
// lista completa de violaciones (vacía = aceptado). Es pura: no toca
// almacenamiento ni muta el candidato; revalidar un registro válido vuelve
// a dar cero violaciones.
func Validate(r *entity.Return) []Violation {
	var vs []Violation
	add := func(field, rule, msg string) {
		vs = append(vs, Violation{Field: field, Rule: rule, Message: msg})
	}

	if r.SaleID == "" {
		add("sale_id", RuleMissingRequired, "referencia a la venta original requerida")
	}
	if r.InvoiceNumber == "" {
		add("invoice_number", RuleMissingRequired, "número de factura original requerido")
	}

	if len(r.Items) == 0 {
		add("items", RuleMissingRequired, "la devolución debe incluir al menos una línea")
	}
	for i := range r.Items {
		validateItem(i, &r.Items[i], add)
	}

	if r.ReturnReason == "" {
		add("return_reason", RuleMissingRequired, "motivo de devolución requerido")
	} else if !validReasons[r.ReturnReason] {
		add("return_reason", RuleEnumViolation, fmt.Sprintf("motivo %q no admitido", r.ReturnReason))
	}

	if r.ReturnType == "" {
		add("return_type", RuleMissingRequired, "tipo de devolución requerido")
	} else if !validTypes[r.ReturnType] {
		add("return_type", RuleEnumViolation, fmt.Sprintf("tipo %q no admitido (full|partial)", r.ReturnType))
	}

	// El método de reembolso puede estar ausente; si viene, debe pertenecer al enum.
	if r.RefundMethod != "" && !validRefundMethods[r.RefundMethod] {
		add("refund_method", RuleEnumViolation, fmt.Sprintf("método de reembolso %q no admitido", r.RefundMethod))
	}

	if r.Status == "" {
		add("status", RuleMissingRequired, "estado requerido")
	} else if !validStatuses[r.Status] {
		add("status", RuleEnumViolation, fmt.Sprintf("estado %q no admitido", r.Status))
	}

	if r.ReturnDate.IsZero() {
		add("return_date", RuleMissingRequired, "fecha de devolución requerida")
	}

	// Montos: no negativos.
	checkNonNegative := func(field string, v decimal.Decimal) {
		if v.LessThan(decimal.Zero) {
			add(field, RuleRangeViolation, "el monto no puede ser negativo")
		}
	}
	checkNonNegative("subtotal", r.Subtotal)
	checkNonNegative("discount", r.Discount)
	checkNonNegative("vat_amount", r.VATAmount)
	checkNonNegative("total_refund", r.TotalRefund)

	// Conservación de totales: subtotal = suma de líneas;
	// total_refund = subtotal - descuento proporcional + IVA proporcional.
	if len(r.Items) > 0 {
		var sum decimal.Decimal
		for i := range r.Items {
			sum = sum.Add(r.Items[i].LineTotal)
		}
		if !sum.Round(2).Equal(r.Subtotal.Round(2)) {
			add("subtotal", RuleRangeViolation, "el subtotal no coincide con la suma de las líneas")
		}
		expected := r.Subtotal.Sub(r.Discount).Add(r.VATAmount)
		if !expected.Round(2).Equal(r.TotalRefund.Round(2)) {
			add("total_refund", RuleRangeViolation, "total_refund debe ser subtotal - discount + vat_amount")
		}
	}

	return vs
}

func validateItem(i int, item *entity.ReturnItem, add func(field, rule, msg string)) {
	path := func(f string) string { return fmt.Sprintf("items[%d].%s", i, f) }

	if item.ProductID == "" {
		add(path("product_id"), RuleMissingRequired, "producto requerido")
	}
	if item.Name == "" {
		add(path("name"), RuleMissingRequired, "nombre de producto requerido")
	}

	// Cantidades: enteras (unidades físicas) y dentro del rango permitido.
	if !item.ReturnQuantity.IsInteger() {
		add(path("return_quantity"), RuleTypeMismatch, "la cantidad a devolver debe ser un número entero")
	}
	if !item.OriginalQuantity.IsInteger() {
		add(path("original_quantity"), RuleTypeMismatch, "la cantidad original debe ser un número entero")
	}
	if item.ReturnQuantity.LessThan(decimal.NewFromInt(1)) {
		add(path("return_quantity"), RuleRangeViolation, "la cantidad a devolver debe ser al menos 1")
	} else if item.ReturnQuantity.GreaterThan(item.OriginalQuantity) {
		add(path("return_quantity"), RuleRangeViolation, "la cantidad a devolver supera la cantidad original")
	}

	if item.UnitPrice.LessThan(decimal.Zero) {
		add(path("unit_price"), RuleRangeViolation, "el precio unitario no puede ser negativo")
	}
	if item.LineTotal.LessThan(decimal.Zero) {
		add(path("line_total"), RuleRangeViolation, "el total de línea no puede ser negativo")
	} else {
		expected := item.ReturnQuantity.Mul(item.UnitPrice).Round(2)
		if !expected.Equal(item.LineTotal.Round(2)) {
			add(path("line_total"), RuleRangeViolation, "line_total debe ser return_quantity * unit_price")
		}
	}
}

// Normalize redondea los montos del candidato a 2 decimales (moneda).
// Validate(Normalize(r)) es idempotente sobre un candidato válido.
func Normalize(r *entity.Return) *entity.Return {
	for i := range r.Items {
		r.Items[i].UnitPrice = r.Items[i].UnitPrice.Round(2)
		r.Items[i].LineTotal = r.Items[i].LineTotal.Round(2)
	}
	r.Subtotal = r.Subtotal.Round(2)
	r.Discount = r.Discount.Round(2)
	r.VATAmount = r.VATAmount.Round(2)
	r.TotalRefund = r.TotalRefund.Round(2)
	return r
}
