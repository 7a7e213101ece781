package etims_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/internal/domain/etims"
	"github.com/jhoicas/Cafeteria-api/pkg/kra"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeLine_VATInclusive(t *testing.T) {
	cases := []struct {
		name    string
		taxType string
		qty     string
		price   string
		total   string
		tax     string
	}{
		{"IVA 16%", kra.TaxTypeB, "2", "580", "1160", "160"},
		{"IVA 8%", kra.TaxTypeE, "1", "108", "108", "8"},
		{"exento", kra.TaxTypeA, "3", "50", "150", "0"},
		{"redondeo a 2 decimales", kra.TaxTypeB, "1", "100", "100", "13.79"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			it := entity.SalesInvoiceItem{TaxType: c.taxType, Quantity: d(c.qty), UnitPrice: d(c.price)}
			etims.ComputeLine(&it)
			assert.True(t, d(c.total).Equal(it.TotalAmount), "total %s", it.TotalAmount)
			assert.True(t, d(c.total).Equal(it.TaxableAmount))
			assert.True(t, d(c.tax).Equal(it.TaxAmount), "tax %s", it.TaxAmount)
		})
	}
}

func TestSummarize_PorTipo(t *testing.T) {
	items := []entity.SalesInvoiceItem{
		{TaxType: kra.TaxTypeB, Quantity: d("1"), UnitPrice: d("116")},
		{TaxType: kra.TaxTypeB, Quantity: d("2"), UnitPrice: d("58")},
		{TaxType: kra.TaxTypeA, Quantity: d("1"), UnitPrice: d("40")},
	}
	for i := range items {
		etims.ComputeLine(&items[i])
	}
	s := etims.Summarize(items)

	assert.True(t, d("232").Equal(s.Taxable[kra.TaxTypeB]))
	assert.True(t, d("32").Equal(s.Tax[kra.TaxTypeB]))
	assert.True(t, d("40").Equal(s.Taxable[kra.TaxTypeA]))
	assert.True(t, s.Tax[kra.TaxTypeE].IsZero())
	assert.True(t, d("272").Equal(s.TotalAmount))
	assert.True(t, d("32").Equal(s.TotalTax))
	assert.Equal(t, 3, s.TotalItemCount)
}
