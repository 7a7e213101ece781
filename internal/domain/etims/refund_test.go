package etims_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/internal/domain/etims"
	"github.com/jhoicas/Cafeteria-api/pkg/kra"
)

func acceptedSale(t *testing.T) *entity.SalesInvoice {
	t.Helper()
	inv := &entity.SalesInvoice{
		ID:          "inv-1",
		Kind:        entity.InvoiceKindSale,
		InvoiceNo:   7,
		Status:      entity.SubmissionSuccess,
		ReceiptNo:   501,
		PaymentType: kra.PaymentCash,
		Items: []entity.SalesInvoiceItem{
			{Seq: 1, ItemCd: "KE2NTU0000001", ItemClsCd: "50202300", Name: "Café", TaxType: kra.TaxTypeB, Quantity: d("2"), UnitPrice: d("150")},
			{Seq: 2, ItemCd: "KE2NTU0000002", ItemClsCd: "50202300", Name: "Agua", TaxType: kra.TaxTypeA, Quantity: d("1"), UnitPrice: d("60")},
		},
	}
	for i := range inv.Items {
		etims.ComputeLine(&inv.Items[i])
	}
	etims.ApplyTotals(inv)
	require.NoError(t, etims.ValidateInvoice(inv))
	return inv
}

func TestNewRefund_NiegaLineasYTotales(t *testing.T) {
	sale := acceptedSale(t)
	r := etims.NewRefund(sale, 3, kra.RefundReasonDefault)

	assert.Equal(t, entity.InvoiceKindRefund, r.Kind)
	assert.Equal(t, "RFD-000003", r.TraderInvoiceNo)
	assert.Equal(t, sale.InvoiceNo, r.OriginalInvoiceNo)
	assert.Equal(t, sale.ReceiptNo, r.OriginalReceiptNo)
	assert.Equal(t, entity.SubmissionPending, r.Status)
	require.Len(t, r.Items, len(sale.Items))
	for i, it := range r.Items {
		orig := sale.Items[i]
		assert.True(t, orig.Quantity.Neg().Equal(it.Quantity))
		assert.True(t, orig.TotalAmount.Neg().Equal(it.TotalAmount))
		assert.True(t, orig.TaxAmount.Neg().Equal(it.TaxAmount))
		assert.True(t, orig.TaxableAmount.Neg().Equal(it.TaxableAmount))
		assert.Equal(t, orig.ItemCd, it.ItemCd)
	}
	assert.True(t, sale.TotalAmount.Neg().Equal(r.TotalAmount))
	assert.True(t, sale.TaxAmount.Neg().Equal(r.TaxAmount))
	assert.NoError(t, etims.ValidateInvoice(r))

	// la venta original no se modifica
	assert.True(t, sale.Items[0].Quantity.IsPositive())
}

func TestRequireCodes(t *testing.T) {
	items := []entity.SalesInvoiceItem{
		{Name: "Café", ItemCd: "KE2NTU0000001", ItemClsCd: "50202300"},
		{Name: "Pastel"},
	}
	err := etims.RequireCodes(items)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnregisteredItem))
	assert.Contains(t, err.Error(), "Pastel")
	assert.NotContains(t, err.Error(), "Café")
}

func TestValidateInvoice_TotalesInconsistentes(t *testing.T) {
	inv := acceptedSale(t)
	inv.TotalAmount = inv.TotalAmount.Add(d("1"))
	err := etims.ValidateInvoice(inv)
	require.Error(t, err)
	assert.True(t, errors.Is(err, etims.ErrInvalidInvoice))
}
