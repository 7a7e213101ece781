package etims

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	domainetims "github.com/jhoicas/Cafeteria-api/internal/domain/etims"
	"github.com/jhoicas/Cafeteria-api/internal/domain/repository"
	"github.com/jhoicas/Cafeteria-api/pkg/kra"
)

// SubmitRefund emite la nota crédito total de una venta aceptada. Las líneas son el espejo
// negativo de la venta y la nota lleva su propia numeración RFD-.
func (uc *UseCase) SubmitRefund(ctx context.Context, userID, invoiceID string, in dto.SubmitRefundRequest) (*dto.SalesInvoiceResponse, error) {
	reason := in.ReasonCode
	if reason == "" {
		reason = kra.RefundReasonDefault
	}
	if _, ok := kra.RefundReasons[reason]; !ok {
		return nil, fmt.Errorf("%w: motivo de devolución %q desconocido", domain.ErrInvalidInput, reason)
	}

	reg, err := uc.creds.Current(ctx)
	if err != nil {
		return nil, err
	}

	original, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, domain.ErrNotFound
	}
	if original.Kind != entity.InvoiceKindSale {
		return nil, fmt.Errorf("%w: solo se devuelven ventas", domain.ErrConflict)
	}
	if original.Status != entity.SubmissionSuccess {
		return nil, fmt.Errorf("%w: la venta %s no fue aceptada por la KRA (estado %s)", domain.ErrConflict, original.TraderInvoiceNo, original.Status)
	}
	prev, err := uc.invoiceRepo.GetRefundOf(ctx, original.InvoiceNo)
	if err != nil {
		return nil, err
	}
	if prev != nil {
		if prev.Status == entity.SubmissionFailed {
			return nil, fmt.Errorf("%w: ya existe la nota %s fallida; use reintento", domain.ErrConflict, prev.TraderInvoiceNo)
		}
		return nil, fmt.Errorf("%w: la venta ya tiene la nota %s", domain.ErrConflict, prev.TraderInvoiceNo)
	}

	refund := domainetims.NewRefund(original, 0, reason)
	refund.ID = uuid.New().String()
	refund.CreatedBy = userID
	refund.CreatedAt = uc.now()
	refund.UpdatedAt = refund.CreatedAt
	if err := domainetims.RequireCodes(refund.Items); err != nil {
		return nil, err
	}

	if err := uc.tx.RunEtims(ctx, func(seqRepo repository.SequenceRepository, invoiceRepo repository.SalesInvoiceRepository, _ repository.StockAdjustmentRepository) error {
		n, err := seqRepo.Next(ctx, domainetims.ScopeRefund)
		if err != nil {
			return err
		}
		refund.InvoiceNo = n
		refund.TraderInvoiceNo = domainetims.TraderInvoiceNo(entity.InvoiceKindRefund, n)
		for i := range refund.Items {
			refund.Items[i].ID = uuid.New().String()
			refund.Items[i].InvoiceID = refund.ID
		}
		if err := domainetims.ValidateInvoice(refund); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return invoiceRepo.Create(ctx, refund)
	}); err != nil {
		return nil, err
	}

	uc.log.Info().Str("invoice_id", refund.ID).Str("original_id", original.ID).
		Int64("org_invc_no", original.InvoiceNo).Str("reason", reason).Msg("etims: nota crédito registrada, enviando a la KRA")
	return uc.submit(ctx, refund, reg, domainetims.Operator{ID: userID})
}
