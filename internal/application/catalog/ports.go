// Package catalog casos de uso del catálogo de la cafetería: clientes, proveedores,
// ingredientes y recetas (menú). Los códigos KRA de ingredientes y recetas solo se asignan
// con el registro de artículos en eTIMS.
package catalog

import (
	"context"

	"github.com/jhoicas/Cafeteria-api/internal/domain/repository"
)

// TxRunner guarda la receta y su lista de ingredientes en una sola transacción.
type TxRunner interface {
	RunRecipe(ctx context.Context, fn func(recipeRepo repository.RecipeRepository) error) error
}
