package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/internal/domain/inventory"
	"github.com/jhoicas/Cafeteria-api/internal/domain/repository"
	"github.com/jhoicas/Cafeteria-api/pkg/kra"
	"github.com/jhoicas/Cafeteria-api/pkg/logger"
)

// UseCase movimientos de stock de ingredientes.
type UseCase struct {
	txRunner       TxRunner
	ingredientRepo repository.IngredientRepository
	adjustmentRepo repository.StockAdjustmentRepository
	submitter      StockSubmitter
	log            *logger.Logger
	now            func() time.Time
}

// NewUseCase construye el caso de uso. submitter puede ser nil (sin envío a la KRA).
func NewUseCase(
	txRunner TxRunner,
	ingredientRepo repository.IngredientRepository,
	adjustmentRepo repository.StockAdjustmentRepository,
	submitter StockSubmitter,
	log *logger.Logger,
) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		txRunner:       txRunner,
		ingredientRepo: ingredientRepo,
		adjustmentRepo: adjustmentRepo,
		submitter:      submitter,
		log:            log.Component("inventory"),
		now:            time.Now,
	}
}

// RegisterAdjustment bloquea el ingrediente (SELECT FOR UPDATE), aplica el movimiento y lo
// guarda en la misma transacción. En las entradas con costo recalcula el costo promedio.
// Con SubmitToKRA el movimiento se informa después del commit; si ese envío falla el ajuste
// local queda hecho y la respuesta trae el error de la KRA.
func (uc *UseCase) RegisterAdjustment(ctx context.Context, userID string, in dto.StockAdjustmentRequest) (*dto.StockAdjustmentResponse, error) {
	if !kra.ValidStockType(in.SarTyCd) {
		return nil, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, in.SarTyCd)
	}
	if !in.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrInvalidInput)
	}
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return nil, fmt.Errorf("%w: costo unitario negativo", domain.ErrInvalidInput)
	}
	incoming := kra.StockIncoming(in.SarTyCd)
	now := uc.now()

	adj := &entity.StockAdjustment{
		ID:           uuid.New().String(),
		IngredientID: in.IngredientID,
		SarTyCd:      in.SarTyCd,
		Quantity:     in.Quantity,
		Reason:       in.Reason,
		CreatedBy:    userID,
		CreatedAt:    now,
	}
	var after decimal.Decimal

	err := uc.txRunner.RunStock(ctx, func(ingredientRepo repository.IngredientRepository, adjustmentRepo repository.StockAdjustmentRepository) error {
		ing, err := ingredientRepo.GetForUpdate(ctx, in.IngredientID)
		if err != nil {
			return err
		}
		if ing == nil {
			return domain.ErrNotFound
		}
		after, err = inventory.ApplyMovement(ing.StockQty, in.Quantity, incoming)
		if err != nil {
			return err
		}

		adj.UnitCost = ing.UnitCost
		if incoming && in.UnitCost != nil {
			adj.UnitCost = *in.UnitCost
			ing.UnitCost = inventory.WeightedAverageCost(ing.StockQty, ing.UnitCost, in.Quantity, *in.UnitCost)
			ing.UpdatedAt = now
			if err := ingredientRepo.Update(ctx, ing); err != nil {
				return err
			}
		}
		if err := ingredientRepo.SetStock(ctx, ing.ID, after); err != nil {
			return err
		}
		return adjustmentRepo.Create(ctx, adj)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("ingredient_id", in.IngredientID).Str("sar_type_cd", in.SarTyCd).
		Str("quantity", in.Quantity.String()).Str("stock_after", after.String()).Msg("inventario: movimiento registrado")

	out := toResponse(adj, after)
	if !in.SubmitToKRA || uc.submitter == nil {
		return out, nil
	}
	sub, err := uc.submitter.SubmitStockMovement(ctx, userID, adj.ID)
	if sub != nil {
		out.SarNo, out.KRAStatus, out.KRAError = sub.SarNo, sub.KRAStatus, sub.KRAError
	}
	if err != nil {
		uc.log.Warn().Err(err).Str("adjustment_id", adj.ID).Msg("inventario: movimiento no informado a la KRA")
		if out.KRAError == "" {
			out.KRAError = err.Error()
		}
		if out.KRAStatus == "" {
			out.KRAStatus = entity.SubmissionFailed
		}
	}
	return out, nil
}

// ListAdjustments movimientos de un ingrediente (o de todos con ingredientID vacío).
func (uc *UseCase) ListAdjustments(ctx context.Context, ingredientID string, page dto.PageRequest) ([]dto.StockAdjustmentResponse, error) {
	page.DefaultPage()
	list, err := uc.adjustmentRepo.ListByIngredient(ctx, ingredientID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockAdjustmentResponse, 0, len(list))
	for _, a := range list {
		r := toResponse(a, decimal.Zero)
		out = append(out, *r)
	}
	return out, nil
}

func toResponse(a *entity.StockAdjustment, after decimal.Decimal) *dto.StockAdjustmentResponse {
	direction := "out"
	if kra.StockIncoming(a.SarTyCd) {
		direction = "in"
	}
	return &dto.StockAdjustmentResponse{
		ID:           a.ID,
		IngredientID: a.IngredientID,
		SarTyCd:      a.SarTyCd,
		Direction:    direction,
		Quantity:     a.Quantity,
		UnitCost:     a.UnitCost,
		Reason:       a.Reason,
		StockAfter:   after,
		SarNo:        a.SarNo,
		KRAStatus:    a.KRAStatus,
		CreatedAt:    a.CreatedAt,
	}
}
