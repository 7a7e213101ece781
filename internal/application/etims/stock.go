package etims

import (
	"context"
	"fmt"

	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	domainetims "github.com/jhoicas/Cafeteria-api/internal/domain/etims"
	"github.com/jhoicas/Cafeteria-api/internal/domain/repository"
	"github.com/jhoicas/Cafeteria-api/pkg/kra"
)

// SubmitStockMovement informa un movimiento de stock (insertStockIO) y luego el saldo
// resultante del ingrediente (saveStockMaster). Un movimiento failed se puede reenviar y
// conserva su sarNo.
func (uc *UseCase) SubmitStockMovement(ctx context.Context, userID, adjustmentID string) (*dto.StockAdjustmentResponse, error) {
	reg, err := uc.creds.Current(ctx)
	if err != nil {
		return nil, err
	}
	adj, err := uc.adjustmentRepo.GetByID(ctx, adjustmentID)
	if err != nil {
		return nil, err
	}
	if adj == nil {
		return nil, domain.ErrNotFound
	}
	if adj.KRAStatus == entity.SubmissionSuccess {
		return nil, fmt.Errorf("%w: el movimiento ya fue informado (sarNo %d)", domain.ErrConflict, adj.SarNo)
	}
	ing, err := uc.ingredientRepo.GetByID(ctx, adj.IngredientID)
	if err != nil {
		return nil, err
	}
	if ing == nil {
		return nil, domain.ErrNotFound
	}
	if !ing.Registered() {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnregisteredItem, ing.Name)
	}

	if adj.SarNo == 0 {
		err := uc.tx.RunEtims(ctx, func(seqRepo repository.SequenceRepository, _ repository.SalesInvoiceRepository, adjustmentRepo repository.StockAdjustmentRepository) error {
			n, err := seqRepo.Next(ctx, domainetims.ScopeStock)
			if err != nil {
				return err
			}
			adj.SarNo = n
			adj.KRAStatus = entity.SubmissionPending
			return adjustmentRepo.UpdateSubmission(ctx, adj.ID, n, entity.SubmissionPending)
		})
		if err != nil {
			return nil, err
		}
	}

	op := domainetims.Operator{ID: userID}
	cred := reg.Credential()
	ioReq := domainetims.StockIOPayload(adj, ing, adj.SarNo, cred, op)
	ex, callErr := uc.gateway.InsertStockIO(ctx, cred, ioReq)
	uc.recordTransaction(ctx, entity.KRATxStockIO, adj.ID, ioReq, ex, callErr)

	out := toAdjustmentResponse(adj, ing)
	if callErr != nil || !ex.Response.OK() {
		adj.KRAStatus = entity.SubmissionFailed
		out.KRAStatus = adj.KRAStatus
		if err := uc.adjustmentRepo.UpdateSubmission(ctx, adj.ID, adj.SarNo, adj.KRAStatus); err != nil {
			return nil, err
		}
		if callErr != nil {
			out.KRAError = callErr.Error()
			uc.log.Warn().Err(callErr).Str("adjustment_id", adj.ID).Int64("sar_no", adj.SarNo).Msg("etims: insertStockIO sin respuesta")
			return out, fmt.Errorf("movimiento %d: %w", adj.SarNo, callErr)
		}
		out.KRAError = fmt.Sprintf("[%s] %s", ex.Response.ResultCd, ex.Response.ResultMsg)
		uc.log.Warn().Str("adjustment_id", adj.ID).Int64("sar_no", adj.SarNo).Str("result_cd", ex.Response.ResultCd).
			Msg("etims: insertStockIO rechazado")
		return out, fmt.Errorf("%w: movimiento %d: %s", domain.ErrUpstream, adj.SarNo, out.KRAError)
	}

	adj.KRAStatus = entity.SubmissionSuccess
	out.KRAStatus = adj.KRAStatus
	if err := uc.adjustmentRepo.UpdateSubmission(ctx, adj.ID, adj.SarNo, adj.KRAStatus); err != nil {
		uc.log.Error().Err(err).Str("adjustment_id", adj.ID).Int64("sar_no", adj.SarNo).
			Msg("etims: movimiento aceptado por la KRA pero no se pudo guardar; conciliar manualmente")
		return nil, err
	}

	// El saldo se informa aparte; si falla el movimiento sigue aceptado y queda el aviso.
	masterReq := domainetims.StockMasterPayload(ing, cred, op)
	mex, mErr := uc.gateway.SaveStockMaster(ctx, cred, masterReq)
	uc.recordTransaction(ctx, entity.KRATxStockMaster, ing.ID, masterReq, mex, mErr)
	switch {
	case mErr != nil:
		out.KRAError = "saveStockMaster: " + mErr.Error()
	case !mex.Response.OK():
		out.KRAError = fmt.Sprintf("saveStockMaster: [%s] %s", mex.Response.ResultCd, mex.Response.ResultMsg)
	}
	if out.KRAError != "" {
		uc.log.Warn().Str("ingredient_id", ing.ID).Str("detail", out.KRAError).Msg("etims: saldo de stock no informado")
	}

	uc.log.Info().Str("adjustment_id", adj.ID).Int64("sar_no", adj.SarNo).Str("sar_type_cd", adj.SarTyCd).
		Msg("etims: movimiento de stock informado")
	return out, nil
}

func toAdjustmentResponse(a *entity.StockAdjustment, ing *entity.Ingredient) *dto.StockAdjustmentResponse {
	direction := "out"
	if kra.StockIncoming(a.SarTyCd) {
		direction = "in"
	}
	out := &dto.StockAdjustmentResponse{
		ID:           a.ID,
		IngredientID: a.IngredientID,
		SarTyCd:      a.SarTyCd,
		Direction:    direction,
		Quantity:     a.Quantity,
		UnitCost:     a.UnitCost,
		Reason:       a.Reason,
		SarNo:        a.SarNo,
		KRAStatus:    a.KRAStatus,
		CreatedAt:    a.CreatedAt,
	}
	if ing != nil {
		out.StockAfter = ing.StockQty
	}
	return out
}
