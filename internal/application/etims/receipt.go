package etims

import (
	"context"
	"fmt"

	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/pkg/kra"
)

// ReceiptPDF genera el recibo de una factura aceptada, con el QR de verificación de la KRA.
func (uc *UseCase) ReceiptPDF(ctx context.Context, invoiceID string) ([]byte, error) {
	if uc.renderer == nil {
		return nil, fmt.Errorf("generador de recibos no configurado")
	}
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.Status != entity.SubmissionSuccess {
		return nil, fmt.Errorf("%w: la factura %s no fue aceptada por la KRA", domain.ErrInvalidInput, inv.TraderInvoiceNo)
	}
	reg, err := uc.creds.Current(ctx)
	if err != nil {
		return nil, err
	}
	return uc.renderer.RenderReceipt(ctx, ReceiptDocument{
		Invoice:      inv,
		TIN:          reg.TIN,
		BhfID:        reg.BhfID,
		TaxpayerName: reg.TaxpayerName,
		BranchName:   reg.BranchName,
		QRData:       kra.ReceiptQRData(uc.cfg.ReceiptURL, reg.TIN, reg.BhfID, inv.ReceiptSignature),
	})
}
