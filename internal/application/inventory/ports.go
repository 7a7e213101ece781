package inventory

import (
	"context"

	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
	"github.com/jhoicas/Cafeteria-api/internal/domain/repository"
)

// TxRunner ejecuta fn en una transacción con los repos de ingredientes y movimientos atados a ella.
// El bloqueo del ingrediente, el nuevo saldo y el movimiento se confirman juntos.
type TxRunner interface {
	RunStock(ctx context.Context, fn func(
		ingredientRepo repository.IngredientRepository,
		adjustmentRepo repository.StockAdjustmentRepository,
	) error) error
}

// StockSubmitter informa el movimiento a la KRA (lo implementa etims.UseCase).
type StockSubmitter interface {
	SubmitStockMovement(ctx context.Context, userID, adjustmentID string) (*dto.StockAdjustmentResponse, error)
}
