package repository

import (
	"context"

	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
)

// StockAdjustmentRepository define el puerto de persistencia para los movimientos de stock.
type StockAdjustmentRepository interface {
	Create(ctx context.Context, adj *entity.StockAdjustment) error
	GetByID(ctx context.Context, id string) (*entity.StockAdjustment, error)
	ListByIngredient(ctx context.Context, ingredientID string, limit, offset int) ([]*entity.StockAdjustment, error)
	// UpdateSubmission guarda el sarNo asignado y el estado del envío a la KRA.
	UpdateSubmission(ctx context.Context, id string, sarNo int64, status string) error
}
