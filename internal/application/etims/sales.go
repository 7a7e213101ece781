package etims

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	domainetims "github.com/jhoicas/Cafeteria-api/internal/domain/etims"
	"github.com/jhoicas/Cafeteria-api/internal/domain/repository"
	"github.com/jhoicas/Cafeteria-api/pkg/kra"
)

// SubmitSale factura un pedido en la KRA.
//
// Errores: ErrNotConfigured sin dispositivo inicializado; ErrUnregisteredItem si alguna línea
// no tiene código (no se crea registro ni se llama a la KRA); ErrUpstream / ErrUpstreamTransport
// si la KRA rechaza o no responde (la factura queda failed y la respuesta la incluye).
func (uc *UseCase) SubmitSale(ctx context.Context, userID string, in dto.SubmitSaleRequest) (*dto.SalesInvoiceResponse, error) {
	if in.OrderID == "" {
		return nil, fmt.Errorf("%w: order_id es obligatorio", domain.ErrInvalidInput)
	}
	if in.CustomerPIN != "" {
		if err := kra.ValidatePIN(in.CustomerPIN); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
	}

	reg, err := uc.creds.Current(ctx)
	if err != nil {
		return nil, err
	}

	order, err := uc.orderRepo.GetByID(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.Status == entity.OrderStatusCancelled {
		return nil, fmt.Errorf("%w: el pedido %s está cancelado", domain.ErrConflict, order.Number)
	}
	if len(order.Items) == 0 {
		return nil, fmt.Errorf("%w: el pedido no tiene líneas", domain.ErrInvalidInput)
	}
	existing, err := uc.invoiceRepo.GetSaleByOrderID(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case entity.SubmissionFailed:
			return nil, fmt.Errorf("%w: el pedido ya tiene la factura %s fallida; use reintento", domain.ErrConflict, existing.TraderInvoiceNo)
		case entity.SubmissionPending:
			return nil, fmt.Errorf("%w: el pedido tiene la factura %s sin resultado; use reintento", domain.ErrConflict, existing.TraderInvoiceNo)
		}
		return nil, fmt.Errorf("%w: el pedido ya fue facturado (%s)", domain.ErrConflict, existing.TraderInvoiceNo)
	}

	pmt, ok := kra.PaymentTypeCode(order.PaymentMethod)
	if !ok {
		return nil, fmt.Errorf("%w: medio de pago %q sin código KRA", domain.ErrInvalidInput, order.PaymentMethod)
	}

	now := uc.now()
	inv := &entity.SalesInvoice{
		ID:           uuid.New().String(),
		OrderID:      order.ID,
		Kind:         entity.InvoiceKindSale,
		CustomerPIN:  kra.NormalizePIN(in.CustomerPIN),
		CustomerName: in.CustomerName,
		PaymentType:  pmt,
		Status:       entity.SubmissionPending,
		CreatedBy:    userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.fillCustomer(ctx, inv, order.CustomerID); err != nil {
		return nil, err
	}
	items, err := uc.invoiceLines(ctx, order)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	domainetims.ApplyTotals(inv)

	// Todas las líneas deben tener código antes de crear el registro.
	if err := domainetims.RequireCodes(inv.Items); err != nil {
		return nil, err
	}
	if err := domainetims.ValidateInvoice(inv); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	if err := uc.createNumbered(ctx, inv); err != nil {
		return nil, err
	}
	uc.log.Info().Str("invoice_id", inv.ID).Int64("invoice_no", inv.InvoiceNo).Str("order_id", order.ID).
		Msg("etims: venta registrada, enviando a la KRA")

	return uc.submit(ctx, inv, reg, domainetims.Operator{ID: userID})
}

// Retry reenvía una factura failed con el mismo número. También acepta una factura pending
// abandonada (sin resultado guardado tras Config.PendingRetry), que de otro modo quedaría
// bloqueada para siempre. Las líneas sin código se vuelven a resolver desde el catálogo; si
// alguna sigue sin código no se llama a la KRA.
func (uc *UseCase) Retry(ctx context.Context, userID, invoiceID string) (*dto.SalesInvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	switch {
	case inv.Status == entity.SubmissionFailed:
	case inv.Status == entity.SubmissionPending && uc.abandoned(inv):
		uc.log.Warn().Str("invoice_id", inv.ID).Int64("invoice_no", inv.InvoiceNo).Time("updated_at", inv.UpdatedAt).
			Msg("etims: factura pending sin resultado, se reintenta")
	case inv.Status == entity.SubmissionPending:
		return nil, fmt.Errorf("%w: la factura %s sigue en envío; reintente más tarde", domain.ErrConflict, inv.TraderInvoiceNo)
	default:
		return nil, fmt.Errorf("%w: solo se reintentan facturas failed (estado actual: %s)", domain.ErrConflict, inv.Status)
	}

	changed, err := uc.resolveCodes(ctx, inv.Items)
	if err != nil {
		return nil, err
	}
	if err := domainetims.RequireCodes(inv.Items); err != nil {
		uc.log.Warn().Str("invoice_id", inv.ID).Err(err).Msg("etims: reintento bloqueado por artículos sin código")
		return nil, err
	}

	reg, err := uc.creds.Current(ctx)
	if err != nil {
		return nil, err
	}
	if changed {
		domainetims.ApplyTotals(inv)
		inv.UpdatedAt = uc.now()
		if err := domainetims.ValidateInvoice(inv); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		err := uc.tx.RunEtims(ctx, func(_ repository.SequenceRepository, invoiceRepo repository.SalesInvoiceRepository, _ repository.StockAdjustmentRepository) error {
			return invoiceRepo.UpdateLines(ctx, inv)
		})
		if err != nil {
			return nil, err
		}
	}

	uc.log.Info().Str("invoice_id", inv.ID).Int64("invoice_no", inv.InvoiceNo).Int("attempt", inv.Attempts+1).
		Msg("etims: reintento manual")
	return uc.submit(ctx, inv, reg, domainetims.Operator{ID: userID})
}

// GetInvoice devuelve la factura con sus líneas y, si fue aceptada, el enlace QR.
func (uc *UseCase) GetInvoice(ctx context.Context, id string) (*dto.SalesInvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	out := toInvoiceResponse(inv)
	if inv.Status == entity.SubmissionSuccess {
		if reg, err := uc.creds.Current(ctx); err == nil {
			out.QRData = kra.ReceiptQRData(uc.cfg.ReceiptURL, reg.TIN, reg.BhfID, inv.ReceiptSignature)
		}
	}
	return out, nil
}

// ListInvoices lista facturas por tipo y estado.
func (uc *UseCase) ListInvoices(ctx context.Context, in dto.InvoiceListRequest) ([]dto.SalesInvoiceResponse, error) {
	in.DefaultPage()
	list, err := uc.invoiceRepo.List(ctx, repository.SalesInvoiceFilter{
		Kind: in.Kind, Status: in.Status, Limit: in.Limit, Offset: in.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.SalesInvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, *toInvoiceResponse(inv))
	}
	return out, nil
}

// createNumbered asigna el número del ámbito y guarda la factura pending en la misma transacción.
func (uc *UseCase) createNumbered(ctx context.Context, inv *entity.SalesInvoice) error {
	return uc.tx.RunEtims(ctx, func(seqRepo repository.SequenceRepository, invoiceRepo repository.SalesInvoiceRepository, _ repository.StockAdjustmentRepository) error {
		n, err := seqRepo.Next(ctx, domainetims.ScopeForKind(inv.Kind))
		if err != nil {
			return err
		}
		inv.InvoiceNo = n
		inv.TraderInvoiceNo = domainetims.TraderInvoiceNo(inv.Kind, n)
		for i := range inv.Items {
			inv.Items[i].ID = uuid.New().String()
			inv.Items[i].InvoiceID = inv.ID
		}
		return invoiceRepo.Create(ctx, inv)
	})
}

// submit envía la factura y persiste el resultado. La factura debe estar ya guardada.
func (uc *UseCase) submit(ctx context.Context, inv *entity.SalesInvoice, reg *entity.KRARegistration, op domainetims.Operator) (*dto.SalesInvoiceResponse, error) {
	inv.Attempts++
	req := domainetims.SalesPayload(inv, reg.Credential(), op, uc.now())

	ex, callErr := uc.gateway.SaveSales(ctx, reg.Credential(), req)
	switch {
	case callErr != nil:
		inv.Status = entity.SubmissionFailed
		inv.ResultCode = ""
		inv.ErrorMessage = callErr.Error()
	case !ex.Response.OK():
		inv.Status = entity.SubmissionFailed
		inv.ResultCode = ex.Response.ResultCd
		inv.ErrorMessage = ex.Response.ResultMsg
	default:
		var receipt kra.SalesReceipt
		if err := ex.Response.DecodeData(&receipt); err != nil {
			// Aceptada pero sin recibo legible: se deja failed para reintento.
			inv.Status = entity.SubmissionFailed
			inv.ResultCode = ex.Response.ResultCd
			inv.ErrorMessage = err.Error()
			callErr = fmt.Errorf("%w: %v", domain.ErrUpstreamTransport, err)
			break
		}
		inv.Status = entity.SubmissionSuccess
		inv.ResultCode = ex.Response.ResultCd
		inv.ErrorMessage = ""
		inv.ReceiptNo = receipt.RcptNo
		inv.TotalReceiptNo = receipt.TotRcptNo
		inv.InternalData = receipt.IntrlData
		inv.ReceiptSignature = receipt.RcptSign
		inv.SdcID = receipt.SdcID
		inv.MrcNo = receipt.MrcNo
		inv.SdcDateTime = receipt.VsdcRcptPbctDate
	}
	inv.UpdatedAt = uc.now()

	if err := uc.invoiceRepo.UpdateSubmission(ctx, inv); err != nil {
		if inv.Status == entity.SubmissionSuccess {
			// La KRA ya aceptó: sin estos datos el recibo no se puede reimprimir.
			uc.log.Error().Err(err).
				Str("invoice_id", inv.ID).Int64("invoice_no", inv.InvoiceNo).
				Int64("rcpt_no", inv.ReceiptNo).Int64("tot_rcpt_no", inv.TotalReceiptNo).
				Str("rcpt_sign", inv.ReceiptSignature).Str("intrl_data", inv.InternalData).
				Str("sdc_id", inv.SdcID).Str("mrc_no", inv.MrcNo).Str("sdc_datetime", inv.SdcDateTime).
				Msg("etims: venta aceptada por la KRA pero no se pudo guardar; conciliar manualmente")
		}
		return nil, fmt.Errorf("guardar resultado de la factura %s: %w", inv.TraderInvoiceNo, err)
	}

	out := toInvoiceResponse(inv)
	if inv.Status == entity.SubmissionSuccess {
		out.QRData = kra.ReceiptQRData(uc.cfg.ReceiptURL, reg.TIN, reg.BhfID, inv.ReceiptSignature)
		uc.log.Info().Str("invoice_id", inv.ID).Int64("invoice_no", inv.InvoiceNo).
			Int64("rcpt_no", inv.ReceiptNo).Str("result_cd", inv.ResultCode).Msg("etims: factura aceptada")
		return out, nil
	}

	uc.log.Warn().Str("invoice_id", inv.ID).Int64("invoice_no", inv.InvoiceNo).
		Str("result_cd", inv.ResultCode).Str("error", inv.ErrorMessage).Msg("etims: factura rechazada o sin respuesta")
	if callErr != nil {
		return out, fmt.Errorf("factura %s: %w", inv.TraderInvoiceNo, callErr)
	}
	return out, fmt.Errorf("%w: factura %s: [%s] %s", domain.ErrUpstream, inv.TraderInvoiceNo, inv.ResultCode, inv.ErrorMessage)
}

// invoiceLines arma las líneas de la factura desde el pedido, con los códigos KRA de cada receta.
func (uc *UseCase) invoiceLines(ctx context.Context, order *entity.Order) ([]entity.SalesInvoiceItem, error) {
	items := make([]entity.SalesInvoiceItem, 0, len(order.Items))
	for i, oi := range order.Items {
		line := entity.SalesInvoiceItem{
			Seq:       i + 1,
			CatalogID: oi.RecipeID,
			Name:      oi.Name,
			Quantity:  oi.Quantity,
			UnitPrice: oi.UnitPrice,
			TaxType:   kra.TaxTypeB,
			PkgUnitCd: kra.PackagingNet,
			QtyUnitCd: kra.QtyUnitPiece,
		}
		recipe, err := uc.recipeRepo.GetByID(ctx, oi.RecipeID)
		if err != nil {
			return nil, err
		}
		if recipe != nil {
			applyTaxItem(&line, recipe.TaxItem)
		}
		domainetims.ComputeLine(&line)
		items = append(items, line)
	}
	return items, nil
}

// resolveCodes completa las líneas sin código desde el catálogo: primero la receta, luego el
// ingrediente con ese id. Se copia el artículo KRA completo (códigos, impuesto y unidades) y se
// recalculan los montos de la línea. Devuelve true si alguna línea cambió.
func (uc *UseCase) resolveCodes(ctx context.Context, items []entity.SalesInvoiceItem) (bool, error) {
	changed := false
	for i := range items {
		it := &items[i]
		if it.ItemCd != "" && it.ItemClsCd != "" {
			continue
		}
		if it.CatalogID == "" {
			continue
		}
		recipe, err := uc.recipeRepo.GetByID(ctx, it.CatalogID)
		if err != nil {
			return false, err
		}
		if recipe != nil && recipe.Registered() {
			applyTaxItem(it, recipe.TaxItem)
			domainetims.ComputeLine(it)
			changed = true
			continue
		}
		ing, err := uc.ingredientRepo.GetByID(ctx, it.CatalogID)
		if err != nil {
			return false, err
		}
		if ing != nil && ing.Registered() {
			applyTaxItem(it, ing.TaxItem)
			domainetims.ComputeLine(it)
			changed = true
		}
	}
	return changed, nil
}

// abandoned indica si una factura pending lleva más de PendingRetry sin resultado.
func (uc *UseCase) abandoned(inv *entity.SalesInvoice) bool {
	after := uc.cfg.PendingRetry
	if after <= 0 {
		after = DefaultPendingRetry
	}
	return uc.now().Sub(inv.UpdatedAt) >= after
}

func (uc *UseCase) fillCustomer(ctx context.Context, inv *entity.SalesInvoice, customerID string) error {
	if customerID == "" || (inv.CustomerPIN != "" && inv.CustomerName != "") {
		return nil
	}
	c, err := uc.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return err
	}
	if c == nil {
		return nil
	}
	if inv.CustomerPIN == "" {
		inv.CustomerPIN = c.KRAPIN
	}
	if inv.CustomerName == "" {
		inv.CustomerName = c.Name
	}
	return nil
}

func applyTaxItem(line *entity.SalesInvoiceItem, t entity.TaxItem) {
	line.ItemCd = t.ItemCd
	line.ItemClsCd = t.ItemClsCd
	if t.TaxType != "" {
		line.TaxType = t.TaxType
	}
	if t.PkgUnitCd != "" {
		line.PkgUnitCd = t.PkgUnitCd
	}
	if t.QtyUnitCd != "" {
		line.QtyUnitCd = t.QtyUnitCd
	}
}

// IsSubmissionFailure indica si err corresponde a un rechazo o falla de comunicación con la KRA.
func IsSubmissionFailure(err error) bool {
	return errors.Is(err, domain.ErrUpstream) || errors.Is(err, domain.ErrUpstreamTransport)
}
