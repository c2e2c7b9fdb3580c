// Package pdf implementa la generación de la nota crédito imprimible que
// respalda una devolución (comprobante para el cliente).
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del mart  │  N° Nota Crédito + Fecha         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  REF: Factura original + Cliente + Motivo                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | P.Unit | Total línea               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Descuento / IVA / TOTAL A REEMBOLSAR    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: método de reembolso + leyenda                       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appreturns "github.com/hcsmart/surgimart-api/internal/application/returns"
	"github.com/hcsmart/surgimart-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 102, Blue: 84}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

const martName = "Health Care Surgical Mart"

// ── Generator ─────────────────────────────────────────────────────────────────

var _ appreturns.CreditNotePDFGenerator = (*MarotoCreditNoteGenerator)(nil)

// MarotoCreditNoteGenerator implementa returns.CreditNotePDFGenerator usando Maroto v2.
type MarotoCreditNoteGenerator struct{}

// NewMarotoCreditNoteGenerator construye el generador.
func NewMarotoCreditNoteGenerator() *MarotoCreditNoteGenerator { return &MarotoCreditNoteGenerator{} }

// GenerateCreditNotePDF genera el PDF de la nota crédito y devuelve sus bytes.
func (g *MarotoCreditNoteGenerator) GenerateCreditNotePDF(_ context.Context, ret *entity.Return) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Nota Crédito "+ret.ReturnNumber, true).
		WithAuthor(martName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(ret))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(referenceRow(ret))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(ret.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(ret))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(ret)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre del mart (izq) y N° nota crédito + fecha (der).
func headerRow(ret *entity.Return) core.Row {
	fecha := ret.ReturnDate.Format("02/01/2006")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(martName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Droguería y suministros quirúrgicos", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("NOTA CRÉDITO POR DEVOLUCIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(ret.ReturnNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// referenceRow: factura original, cliente y motivo de la devolución.
func referenceRow(ret *entity.Return) core.Row {
	cliente := ret.CustomerName
	if cliente == "" {
		cliente = "Venta de mostrador"
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("REFERENCIA", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Factura original: %s   |   Cliente: %s",
				ret.InvoiceNumber, cliente,
			), props.Text{Style: fontstyle.Bold, Size: 9, Top: 6}),
			text.New(fmt.Sprintf("Motivo: %s   |   Tipo: %s   |   Estado: %s",
				ret.ReturnReason, ret.ReturnType, ret.Status,
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas devueltas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Producto devuelto", 6, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Total línea", 3, align.Right),
	)
}

// tableItemRows: una fila por línea devuelta.
func tableItemRows(items []entity.ReturnItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				it.ReturnQuantity.StringFixed(0),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(6).Add(text.New(
				fmt.Sprintf("%s (%s)", it.Name, it.SKU),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				"$"+it.UnitPrice.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				"$"+it.LineTotal.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(ret *entity.Return) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(32).Add(
		col.New(3),
		col.New(3).Add(
			label("Subtotal:"),
			label("Descuento:"),
			label("IVA:"),
			grandLabel("TOTAL A REEMBOLSAR:"),
		),
		col.New(3).Add(
			value("$"+ret.Subtotal.StringFixed(2)),
			value("-$"+ret.Discount.StringFixed(2)),
			value("$"+ret.VATAmount.StringFixed(2)),
			grandValue("$"+ret.TotalRefund.StringFixed(2)),
		),
		col.New(3),
	)
}

// footerRows: método de reembolso, notas y leyenda.
func footerRows(ret *entity.Return) []core.Row {
	rows := []core.Row{
		row.New(8).Add(col.New(12).Add(
			text.New("Método de reembolso: "+refundMethodLabel(ret.RefundMethod), props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 2,
			}),
		)),
	}
	if ret.Notes != "" {
		rows = append(rows, row.New(6).Add(col.New(12).Add(
			text.New("Notas: "+ret.Notes, props.Text{Size: 8, Color: colorGray, Top: 1}),
		)))
	}
	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New(
			"Esta nota crédito respalda la devolución de mercancía sobre la factura original. "+
				"Conserve este documento como soporte de su reembolso.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func refundMethodLabel(method string) string {
	switch method {
	case entity.RefundMethodCash:
		return "Efectivo"
	case entity.RefundMethodBank:
		return "Transferencia bancaria"
	case entity.RefundMethodStoreCredit:
		return "Crédito de tienda"
	case entity.RefundMethodOriginalPayment:
		return "Medio de pago original"
	default:
		return method
	}
}
