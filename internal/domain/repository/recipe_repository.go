package repository

import (
	"context"

	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
)

// RecipeRepository define el puerto de persistencia para las recetas (menú) y sus ingredientes.
type RecipeRepository interface {
	// Create inserta la receta y sus ingredientes; usar dentro de una tx.
	Create(ctx context.Context, recipe *entity.Recipe) error
	GetByID(ctx context.Context, id string) (*entity.Recipe, error)
	List(ctx context.Context, onlyActive bool, limit, offset int) ([]*entity.Recipe, error)
	// Update reemplaza los datos de la receta y su lista de ingredientes.
	Update(ctx context.Context, recipe *entity.Recipe) error
	UpdateTaxItem(ctx context.Context, id string, item entity.TaxItem) error
}
