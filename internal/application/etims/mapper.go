package etims

import (
	"context"

	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
)

// ListTransactions bitácora de envíos de un artículo, ingrediente o ajuste.
func (uc *UseCase) ListTransactions(ctx context.Context, referenceID string) ([]dto.KRATransactionResponse, error) {
	list, err := uc.kraTxRepo.ListByReference(ctx, referenceID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.KRATransactionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, dto.KRATransactionResponse{
			ID:         t.ID,
			Kind:       t.Kind,
			ResultCode: t.ResultCode,
			ResultMsg:  t.ResultMsg,
			Status:     t.Status,
			CreatedAt:  t.CreatedAt,
		})
	}
	return out, nil
}

func toInvoiceResponse(inv *entity.SalesInvoice) *dto.SalesInvoiceResponse {
	out := &dto.SalesInvoiceResponse{
		ID:                inv.ID,
		OrderID:           inv.OrderID,
		Kind:              inv.Kind,
		InvoiceNo:         inv.InvoiceNo,
		TraderInvoiceNo:   inv.TraderInvoiceNo,
		OriginalInvoiceNo: inv.OriginalInvoiceNo,
		OriginalReceiptNo: inv.OriginalReceiptNo,
		RefundReasonCode:  inv.RefundReasonCode,
		CustomerPIN:       inv.CustomerPIN,
		CustomerName:      inv.CustomerName,
		PaymentType:       inv.PaymentType,
		TaxableAmount:     inv.TaxableAmount,
		TaxAmount:         inv.TaxAmount,
		TotalAmount:       inv.TotalAmount,
		Status:            inv.Status,
		ErrorMessage:      inv.ErrorMessage,
		ResultCode:        inv.ResultCode,
		Attempts:          inv.Attempts,
		ReceiptNo:         inv.ReceiptNo,
		TotalReceiptNo:    inv.TotalReceiptNo,
		InternalData:      inv.InternalData,
		ReceiptSignature:  inv.ReceiptSignature,
		SdcID:             inv.SdcID,
		MrcNo:             inv.MrcNo,
		SdcDateTime:       inv.SdcDateTime,
		CreatedAt:         inv.CreatedAt,
		UpdatedAt:         inv.UpdatedAt,
		Items:             make([]dto.SalesInvoiceItemResponse, 0, len(inv.Items)),
	}
	for _, it := range inv.Items {
		out.Items = append(out.Items, dto.SalesInvoiceItemResponse{
			Seq:           it.Seq,
			ItemCd:        it.ItemCd,
			ItemClsCd:     it.ItemClsCd,
			Name:          it.Name,
			Quantity:      it.Quantity,
			UnitPrice:     it.UnitPrice,
			TaxType:       it.TaxType,
			TaxableAmount: it.TaxableAmount,
			TaxAmount:     it.TaxAmount,
			TotalAmount:   it.TotalAmount,
		})
	}
	return out
}
