// Package etims contiene las reglas de dominio de la facturación electrónica KRA eTIMS:
// cálculo de impuestos por línea, numeración de facturas, espejo de devoluciones y
// validaciones previas al envío. No depende de infraestructura.
package etims

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/pkg/kra"
)

var hundred = decimal.NewFromInt(100)

// TaxRate devuelve el porcentaje del tipo de impuesto (0 si el tipo no grava).
func TaxRate(taxType string) decimal.Decimal {
	return decimal.NewFromInt(kra.TaxRates[taxType])
}

// ComputeLine calcula los montos de una línea a partir de cantidad y precio unitario.
// Los precios del menú incluyen IVA: tax = total * rate / (100 + rate).
func ComputeLine(item *entity.SalesInvoiceItem) {
	total := item.Quantity.Mul(item.UnitPrice).Round(2)
	rate := TaxRate(item.TaxType)
	item.SupplyAmount = total
	item.TaxableAmount = total
	item.TotalAmount = total
	item.TaxAmount = total.Mul(rate).Div(hundred.Add(rate)).Round(2)
}

// Summary totales por tipo de impuesto, en el formato taxblAmtA..E / taxAmtA..E.
type Summary struct {
	Taxable        map[string]decimal.Decimal
	Tax            map[string]decimal.Decimal
	TotalTaxable   decimal.Decimal
	TotalTax       decimal.Decimal
	TotalAmount    decimal.Decimal
	TotalItemCount int
}

// Summarize agrega las líneas ya calculadas.
func Summarize(items []entity.SalesInvoiceItem) Summary {
	s := Summary{
		Taxable: make(map[string]decimal.Decimal, len(kra.TaxTypes)),
		Tax:     make(map[string]decimal.Decimal, len(kra.TaxTypes)),
	}
	for _, t := range kra.TaxTypes {
		s.Taxable[t] = decimal.Zero
		s.Tax[t] = decimal.Zero
	}
	for _, it := range items {
		s.Taxable[it.TaxType] = s.Taxable[it.TaxType].Add(it.TaxableAmount)
		s.Tax[it.TaxType] = s.Tax[it.TaxType].Add(it.TaxAmount)
		s.TotalTaxable = s.TotalTaxable.Add(it.TaxableAmount)
		s.TotalTax = s.TotalTax.Add(it.TaxAmount)
		s.TotalAmount = s.TotalAmount.Add(it.TotalAmount)
	}
	s.TotalItemCount = len(items)
	return s
}

// ApplyTotals copia el resumen a la cabecera de la factura.
func ApplyTotals(inv *entity.SalesInvoice) Summary {
	s := Summarize(inv.Items)
	inv.TaxableAmount = s.TotalTaxable
	inv.TaxAmount = s.TotalTax
	inv.TotalAmount = s.TotalAmount
	return s
}
