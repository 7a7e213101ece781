package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
)

// IngredientRepository define el puerto de persistencia para Ingredient.
type IngredientRepository interface {
	Create(ctx context.Context, ingredient *entity.Ingredient) error
	GetByID(ctx context.Context, id string) (*entity.Ingredient, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Ingredient, error)
	// ListBelowReorder ingredientes con stock_qty <= reorder_level.
	ListBelowReorder(ctx context.Context) ([]*entity.Ingredient, error)
	Update(ctx context.Context, ingredient *entity.Ingredient) error
	// UpdateTaxItem guarda los códigos KRA asignados al registrar el artículo.
	UpdateTaxItem(ctx context.Context, id string, item entity.TaxItem) error
	// GetForUpdate bloquea la fila (SELECT ... FOR UPDATE); usar dentro de una tx.
	GetForUpdate(ctx context.Context, id string) (*entity.Ingredient, error)
	SetStock(ctx context.Context, id string, qty decimal.Decimal) error
}
