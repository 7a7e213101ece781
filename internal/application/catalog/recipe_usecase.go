package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/internal/domain/repository"
)

// RecipeUseCase casos de uso para recetas (platos y bebidas del menú).
type RecipeUseCase struct {
	txRunner       TxRunner
	repo           repository.RecipeRepository
	ingredientRepo repository.IngredientRepository
}

func NewRecipeUseCase(txRunner TxRunner, repo repository.RecipeRepository, ingredientRepo repository.IngredientRepository) *RecipeUseCase {
	return &RecipeUseCase{txRunner: txRunner, repo: repo, ingredientRepo: ingredientRepo}
}

// recipeIngredients valida que los ingredientes existan, no se repitan y tengan cantidad positiva.
func (uc *RecipeUseCase) recipeIngredients(ctx context.Context, recipeID string, in []dto.RecipeIngredientDTO) ([]entity.RecipeIngredient, error) {
	seen := make(map[string]bool, len(in))
	out := make([]entity.RecipeIngredient, 0, len(in))
	for _, ri := range in {
		if seen[ri.IngredientID] {
			return nil, fmt.Errorf("%w: ingrediente %s repetido", domain.ErrInvalidInput, ri.IngredientID)
		}
		seen[ri.IngredientID] = true
		if !ri.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: la cantidad por porción debe ser positiva", domain.ErrInvalidInput)
		}
		ing, err := uc.ingredientRepo.GetByID(ctx, ri.IngredientID)
		if err != nil {
			return nil, err
		}
		if ing == nil {
			return nil, fmt.Errorf("%w: ingrediente %s no existe", domain.ErrInvalidInput, ri.IngredientID)
		}
		out = append(out, entity.RecipeIngredient{RecipeID: recipeID, IngredientID: ri.IngredientID, Quantity: ri.Quantity})
	}
	return out, nil
}

func (uc *RecipeUseCase) Create(ctx context.Context, in dto.RecipeRequest) (*dto.RecipeResponse, error) {
	if !in.Price.IsPositive() {
		return nil, fmt.Errorf("%w: el precio debe ser positivo", domain.ErrInvalidInput)
	}
	id := uuid.New().String()
	ingredients, err := uc.recipeIngredients(ctx, id, in.Ingredients)
	if err != nil {
		return nil, err
	}
	item, err := taxItemFrom(in.TaxItemDTO, entity.TaxItem{})
	if err != nil {
		return nil, err
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	now := time.Now()
	r := &entity.Recipe{
		ID:          id,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price.Round(2),
		Active:      active,
		TaxItem:     item,
		Ingredients: ingredients,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.txRunner.RunRecipe(ctx, func(repo repository.RecipeRepository) error {
		return repo.Create(ctx, r)
	}); err != nil {
		return nil, err
	}
	return toRecipeResponse(r), nil
}

func (uc *RecipeUseCase) GetByID(ctx context.Context, id string) (*dto.RecipeResponse, error) {
	r, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	return toRecipeResponse(r), nil
}

// List lista el menú; onlyActive filtra lo que se puede vender.
func (uc *RecipeUseCase) List(ctx context.Context, onlyActive bool, page dto.PageRequest) ([]dto.RecipeResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, onlyActive, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RecipeResponse, 0, len(list))
	for _, r := range list {
		out = append(out, *toRecipeResponse(r))
	}
	return out, nil
}

// Update reemplaza datos e ingredientes. El código KRA ya asignado se conserva.
func (uc *RecipeUseCase) Update(ctx context.Context, id string, in dto.RecipeRequest) (*dto.RecipeResponse, error) {
	r, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	if !in.Price.IsPositive() {
		return nil, fmt.Errorf("%w: el precio debe ser positivo", domain.ErrInvalidInput)
	}
	ingredients, err := uc.recipeIngredients(ctx, id, in.Ingredients)
	if err != nil {
		return nil, err
	}
	item, err := taxItemFrom(in.TaxItemDTO, r.TaxItem)
	if err != nil {
		return nil, err
	}
	r.Name = strings.TrimSpace(in.Name)
	r.Description = in.Description
	r.Price = in.Price.Round(2)
	if in.Active != nil {
		r.Active = *in.Active
	}
	r.TaxItem = item
	r.Ingredients = ingredients
	r.UpdatedAt = time.Now()
	if err := uc.txRunner.RunRecipe(ctx, func(repo repository.RecipeRepository) error {
		return repo.Update(ctx, r)
	}); err != nil {
		return nil, err
	}
	return toRecipeResponse(r), nil
}

func toRecipeResponse(r *entity.Recipe) *dto.RecipeResponse {
	out := &dto.RecipeResponse{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		Active:        r.Active,
		KRARegistered: r.Registered(),
		TaxItemDTO:    toTaxItemDTO(r.TaxItem),
	}
	for _, ri := range r.Ingredients {
		out.Ingredients = append(out.Ingredients, dto.RecipeIngredientDTO{IngredientID: ri.IngredientID, Quantity: ri.Quantity})
	}
	return out
}
