package etims

import (
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
)

// MirrorItems devuelve las líneas de la venta original con cantidades y montos negados,
// listas para una nota crédito. No recalcula impuestos: niega los montos ya aceptados por la KRA.
func MirrorItems(original []entity.SalesInvoiceItem) []entity.SalesInvoiceItem {
	out := make([]entity.SalesInvoiceItem, 0, len(original))
	for _, it := range original {
		m := it
		m.ID = ""
		m.InvoiceID = ""
		m.Quantity = it.Quantity.Neg()
		m.SupplyAmount = it.SupplyAmount.Neg()
		m.TaxableAmount = it.TaxableAmount.Neg()
		m.TaxAmount = it.TaxAmount.Neg()
		m.TotalAmount = it.TotalAmount.Neg()
		out = append(out, m)
	}
	return out
}

// NewRefund arma la nota crédito de una venta aceptada. number es el consecutivo del ámbito refund.
func NewRefund(original *entity.SalesInvoice, number int64, reasonCode string) *entity.SalesInvoice {
	r := &entity.SalesInvoice{
		OrderID:           original.OrderID,
		Kind:              entity.InvoiceKindRefund,
		InvoiceNo:         number,
		TraderInvoiceNo:   TraderInvoiceNo(entity.InvoiceKindRefund, number),
		OriginalInvoiceNo: original.InvoiceNo,
		OriginalReceiptNo: original.ReceiptNo,
		RefundReasonCode:  reasonCode,
		CustomerPIN:       original.CustomerPIN,
		CustomerName:      original.CustomerName,
		PaymentType:       original.PaymentType,
		Status:            entity.SubmissionPending,
		Items:             MirrorItems(original.Items),
	}
	ApplyTotals(r)
	return r
}
