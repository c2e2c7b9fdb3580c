package returns

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hcsmart/surgimart-api/internal/domain"
	"github.com/hcsmart/surgimart-api/internal/domain/entity"
)

// State es el estado del asistente de captura de devoluciones.
type State string

// Etapas ordenadas del asistente. Submitted es terminal; desde Searching se
// puede reintentar la búsqueda tras un fallo de lookup.
const (
	StateSearching     State = "searching"
	StateItemSelection State = "item_selection"
	StateConfirmation  State = "confirmation"
	StateSubmitted     State = "submitted"
)

// ReturnableItem es una línea de la venta original con su remanente devolvible.
type ReturnableItem struct {
	SaleItemID       string
	ProductID        string
	SKU              string
	Name             string
	UnitPrice        decimal.Decimal
	OriginalQuantity decimal.Decimal
	ReturnedQuantity decimal.Decimal // acumulado de devoluciones previas
}

// Returnable devuelve el remanente aún devolvible de la línea.
func (i ReturnableItem) Returnable() decimal.Decimal {
	return i.OriginalQuantity.Sub(i.ReturnedQuantity)
}

// ReturnableSale es el resultado de la búsqueda de la venta original.
type ReturnableSale struct {
	Sale  entity.Sale
	Items []ReturnableItem
}

// SaleFinder localiza la venta original por número de factura.
// Debe devolver domain.ErrSaleNotFound cuando no hay coincidencia.
type SaleFinder interface {
	FindSale(ctx context.Context, invoiceNumber string) (*ReturnableSale, error)
}

// Submitter persiste la devolución armada y devuelve el número asignado.
type Submitter interface {
	SubmitReturn(ctx context.Context, ret *entity.Return) (returnNumber string, err error)
}

// Selection es la cantidad (y motivo opcional) elegida para una línea.
type Selection struct {
	Quantity decimal.Decimal
	Reason   string
}

// Workflow guía la construcción de una devolución bien formada en tres etapas:
// búsqueda de la venta, selección de líneas y confirmación. Todo el estado
// intermedio vive en la máquina hasta el envío final; el único efecto externo
// es la llamada al Submitter.
//
// No es seguro para uso concurrente: cada captura de devolución usa su
// propia instancia (interacción usuario a usuario, petición/respuesta).
type Workflow struct {
	finder    SaleFinder
	submitter Submitter

	state        State
	sale         *ReturnableSale
	selections   map[int]Selection
	returnNumber string
}

// NewWorkflow crea el asistente en la etapa de búsqueda.
func NewWorkflow(finder SaleFinder, submitter Submitter) *Workflow {
	return &Workflow{
		finder:     finder,
		submitter:  submitter,
		state:      StateSearching,
		selections: make(map[int]Selection),
	}
}

// State devuelve la etapa actual.
func (w *Workflow) State() State { return w.state }

// Sale devuelve la venta localizada (nil mientras se busca).
func (w *Workflow) Sale() *ReturnableSale { return w.sale }

// ReturnNumber devuelve el número asignado tras un envío exitoso.
func (w *Workflow) ReturnNumber() string { return w.returnNumber }

// FindSale busca la venta original por número de factura. Si no hay
// coincidencia, el asistente vuelve (o permanece) en la etapa de búsqueda y
// el usuario puede reintentar; el fallo no es fatal. Con éxito pasa a la
// selección de líneas y descarta cualquier selección previa.
func (w *Workflow) FindSale(ctx context.Context, invoiceNumber string) error {
	if w.state == StateSubmitted {
		return domain.ErrConflict
	}
	if invoiceNumber == "" {
		return domain.ErrInvalidInput
	}
	sale, err := w.finder.FindSale(ctx, invoiceNumber)
	if err != nil {
		w.state = StateSearching
		w.sale = nil
		w.selections = make(map[int]Selection)
		return err
	}
	w.sale = sale
	w.selections = make(map[int]Selection)
	w.state = StateItemSelection
	return nil
}

// SelectItem fija la cantidad a devolver de una línea (por índice en la venta
// original). Cantidad cero deselecciona la línea. Falla con
// domain.ErrInvalidQuantity si la cantidad no es entera o no está en
// [1, remanente devolvible]; el llamador debe corregir antes de avanzar.
func (w *Workflow) SelectItem(lineIndex int, quantity decimal.Decimal, reason string) error {
	if w.state != StateItemSelection && w.state != StateConfirmation {
		return domain.ErrConflict
	}
	if lineIndex < 0 || lineIndex >= len(w.sale.Items) {
		return domain.ErrNotFound
	}
	if quantity.IsZero() {
		delete(w.selections, lineIndex)
		return nil
	}
	item := w.sale.Items[lineIndex]
	if !quantity.IsInteger() ||
		quantity.LessThan(decimal.NewFromInt(1)) ||
		quantity.GreaterThan(item.Returnable()) {
		return domain.ErrInvalidQuantity
	}
	w.selections[lineIndex] = Selection{Quantity: quantity, Reason: reason}
	return nil
}

// BeginConfirmation avanza a la etapa de confirmación. Requiere al menos una
// línea seleccionada.
func (w *Workflow) BeginConfirmation() error {
	if w.state != StateItemSelection {
		return domain.ErrConflict
	}
	if len(w.selections) == 0 {
		return domain.ErrIncompleteSelection
	}
	w.state = StateConfirmation
	return nil
}

// Confirm arma la devolución (totales, tipo derivado) y la envía al
// colaborador externo. Si el envío falla, el asistente permanece en
// confirmación con su estado intacto para que el usuario reintente sin
// volver a digitar nada; no hay reintento automático.
func (w *Workflow) Confirm(ctx context.Context, returnReason, refundMethod, notes string) (*entity.Return, error) {
	if w.state != StateConfirmation {
		return nil, domain.ErrConflict
	}
	if returnReason == "" || len(w.selections) == 0 {
		return nil, domain.ErrIncompleteSelection
	}

	ret := w.buildReturn(returnReason, refundMethod, notes)
	if vs := Validate(ret); len(vs) > 0 {
		return nil, &SchemaViolationError{Violations: vs}
	}

	number, err := w.submitter.SubmitReturn(ctx, ret)
	if err != nil {
		return nil, errors.Join(domain.ErrSubmissionFailed, err)
	}
	ret.ReturnNumber = number
	w.returnNumber = number
	w.state = StateSubmitted
	return ret, nil
}

// buildReturn construye el candidato a partir de la venta y las selecciones:
// totales de línea a 2 decimales, descuento e IVA proporcionales al peso del
// subtotal devuelto sobre el subtotal de la venta, y tipo derivado (full si
// se devuelve todo el remanente de todas las líneas).
func (w *Workflow) buildReturn(returnReason, refundMethod, notes string) *entity.Return {
	now := time.Now()
	sale := w.sale.Sale

	var items []entity.ReturnItem
	var subtotal decimal.Decimal
	fullReturn := true
	for idx, line := range w.sale.Items {
		sel, ok := w.selections[idx]
		if !ok {
			if line.Returnable().GreaterThan(decimal.Zero) {
				fullReturn = false
			}
			continue
		}
		if !sel.Quantity.Equal(line.Returnable()) {
			fullReturn = false
		}
		lineTotal := sel.Quantity.Mul(line.UnitPrice).Round(2)
		subtotal = subtotal.Add(lineTotal)
		items = append(items, entity.ReturnItem{
			SaleItemID:       line.SaleItemID,
			ProductID:        line.ProductID,
			SKU:              line.SKU,
			Name:             line.Name,
			OriginalQuantity: line.OriginalQuantity,
			ReturnQuantity:   sel.Quantity,
			UnitPrice:        line.UnitPrice,
			LineTotal:        lineTotal,
			ItemReturnReason: sel.Reason,
		})
	}

	// Descuento e IVA proporcionales: peso del subtotal devuelto sobre el
	// subtotal de la venta original.
	discount, vat := decimal.Zero, decimal.Zero
	if sale.Subtotal.GreaterThan(decimal.Zero) {
		ratio := subtotal.Div(sale.Subtotal)
		discount = sale.Discount.Mul(ratio).Round(2)
		vat = sale.VATAmount.Mul(ratio).Round(2)
	}

	returnType := entity.ReturnTypePartial
	if fullReturn {
		returnType = entity.ReturnTypeFull
	}

	return &entity.Return{
		SaleID:        sale.ID,
		InvoiceNumber: sale.InvoiceNumber,
		CustomerID:    sale.CustomerID,
		CustomerName:  sale.CustomerName,
		CustomerPhone: sale.CustomerPhone,
		CustomerType:  sale.CustomerType,
		Items:         items,
		ReturnReason:  returnReason,
		ReturnType:    returnType,
		RefundMethod:  refundMethod,
		Notes:         notes,
		Subtotal:      subtotal,
		Discount:      discount,
		VATAmount:     vat,
		TotalRefund:   subtotal.Sub(discount).Add(vat),
		Status:        entity.ReturnStatusPending,
		ReturnDate:    now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// SchemaViolationError agrupa las violaciones del validador; se muestra tal
// cual al llamador y el registro se descarta.
type SchemaViolationError struct {
	Violations []Violation
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("la devolución viola el esquema (%d violaciones)", len(e.Violations))
}
