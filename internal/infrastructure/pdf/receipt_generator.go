// Package pdf genera el recibo fiscal eTIMS (A4) con el QR de verificación de la KRA.
//
// Layout:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  Contribuyente + PIN         │  N° factura + fecha           │
//	│  Cliente (PIN opcional)                                      │
//	│  Tabla: Cant | Artículo | P.Unit | Imp | Total               │
//	│  Totales por tipo de impuesto + TOTAL                        │
//	│  Información SCU: rcptNo, intrlData, rcptSign, sdcId + QR    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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
	"github.com/shopspring/decimal"

	appetims "github.com/jhoicas/Cafeteria-api/internal/application/etims"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/internal/domain/etims"
	"github.com/jhoicas/Cafeteria-api/pkg/kra"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 102, Blue: 51}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ appetims.ReceiptRenderer = (*ReceiptGenerator)(nil)

// ReceiptGenerator implementa etims.ReceiptRenderer con Maroto v2.
type ReceiptGenerator struct{}

func NewReceiptGenerator() *ReceiptGenerator { return &ReceiptGenerator{} }

// RenderReceipt genera el PDF y devuelve sus bytes.
func (g *ReceiptGenerator) RenderReceipt(_ context.Context, doc appetims.ReceiptDocument) ([]byte, error) {
	inv := doc.Invoice
	if inv == nil {
		return nil, fmt.Errorf("pdf: factura nula")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("eTIMS "+inv.TraderInvoiceNo, true).
		WithAuthor(doc.TaxpayerName, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(inv))
	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(inv.Items)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRows(inv)...)
	m.AddRows(line.NewRow(3))
	m.AddRows(scuRows(doc)...)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

func headerRow(doc appetims.ReceiptDocument) core.Row {
	inv := doc.Invoice
	title := "TAX INVOICE"
	if inv.Kind == entity.InvoiceKindRefund {
		title = "CREDIT NOTE"
	}
	return row.New(20).Add(
		col.New(7).Add(
			text.New(nonEmpty(doc.TaxpayerName, doc.TIN), props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("PIN: "+doc.TIN+"   Branch: "+doc.BhfID, props.Text{Size: 9, Top: 9, Color: colorGray}),
			text.New(doc.BranchName, props.Text{Size: 8, Top: 14, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New(inv.TraderInvoiceNo, props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7}),
			text.New("Date: "+inv.CreatedAt.Format("02/01/2006 15:04"), props.Text{Size: 8, Align: align.Right, Top: 14, Color: colorGray}),
		),
	)
}

func customerRow(inv *entity.SalesInvoice) core.Row {
	info := "Customer: " + nonEmpty(inv.CustomerName, "Walk-in")
	if inv.CustomerPIN != "" {
		info += "   |   PIN: " + inv.CustomerPIN
	}
	if inv.Kind == entity.InvoiceKindRefund {
		info += fmt.Sprintf("   |   Original invoice: %d (receipt %d)", inv.OriginalInvoiceNo, inv.OriginalReceiptNo)
	}
	return row.New(10).Add(col.New(12).Add(text.New(info, props.Text{Size: 8, Top: 3})))
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Align: a, Top: 2, Color: colorPrimary}))
	}
	return row.New(8).Add(
		h("Qty", 1, align.Center),
		h("Item", 5, align.Left),
		h("Unit price", 2, align.Right),
		h("Tax", 1, align.Center),
		h("Total", 3, align.Right),
	)
}

func itemRows(items []entity.SalesInvoiceItem) []core.Row {
	rows := make([]core.Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, row.New(7).Add(
			col.New(1).Add(text.New(it.Quantity.String(), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(it.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(formatKES(it.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(1).Add(text.New(it.TaxType, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(formatKES(it.TotalAmount), props.Text{Size: 8, Align: align.Right, Top: 1})),
		))
	}
	return rows
}

func totalsRows(inv *entity.SalesInvoice) []core.Row {
	s := etims.Summarize(inv.Items)
	entry := func(label, value string, bold bool) core.Row {
		style := fontstyle.Normal
		if bold {
			style = fontstyle.Bold
		}
		return row.New(5).Add(
			col.New(6),
			col.New(3).Add(text.New(label, props.Text{Style: style, Size: 8, Align: align.Right})),
			col.New(3).Add(text.New(value, props.Text{Style: style, Size: 8, Align: align.Right})),
		)
	}
	var rows []core.Row
	for _, t := range kra.TaxTypes {
		if s.Taxable[t].IsZero() {
			continue
		}
		rows = append(rows,
			entry(fmt.Sprintf("Taxable %s (%d%%):", t, kra.TaxRates[t]), formatKES(s.Taxable[t]), false),
			entry(fmt.Sprintf("Tax %s:", t), formatKES(s.Tax[t]), false),
		)
	}
	rows = append(rows,
		entry("Total tax:", formatKES(s.TotalTax), false),
		entry("TOTAL:", formatKES(s.TotalAmount), true),
	)
	return rows
}

func scuRows(doc appetims.ReceiptDocument) []core.Row {
	inv := doc.Invoice
	info := []string{
		"SCU INFORMATION",
		"Date: " + inv.SdcDateTime,
		"SCU ID: " + inv.SdcID + "   MRC: " + inv.MrcNo,
		fmt.Sprintf("Receipt number: %d/%d", inv.ReceiptNo, inv.TotalReceiptNo),
		"Internal data: " + inv.InternalData,
		"Receipt signature: " + inv.ReceiptSignature,
	}
	texts := make([]core.Component, 0, len(info))
	for i, s := range info {
		p := props.Text{Size: 7.5, Top: float64(2 + i*6), Left: 3, Color: colorGray}
		if i == 0 {
			p.Style, p.Color = fontstyle.Bold, colorPrimary
		}
		texts = append(texts, text.New(s, p))
	}
	return []core.Row{
		row.New(45).Add(
			col.New(4).Add(code.NewQr(doc.QRData, props.Rect{Percent: 95, Center: true})),
			col.New(8).Add(texts...),
		),
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatKES formatea con separador de miles y 2 decimales. Ej: 1160 -> "KES 1,160.00".
func formatKES(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return "KES " + sign + b.String() + "." + frac
}
