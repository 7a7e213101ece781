package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/internal/domain/repository"
)

var _ repository.RecipeRepository = (*RecipeRepo)(nil)

const recipeColumns = `id, name, description, price, active, kra_item_cd, kra_item_cls_cd, tax_type,
	pkg_unit_cd, qty_unit_cd, created_at, updated_at`

// RecipeRepo implementación de RecipeRepository. Create y Update escriben varias tablas:
// pasar una tx como Querier.
type RecipeRepo struct {
	q Querier
}

func NewRecipeRepository(q Querier) *RecipeRepo {
	return &RecipeRepo{q: q}
}

func scanRecipe(row pgx.Row) (*entity.Recipe, error) {
	var rc entity.Recipe
	err := row.Scan(
		&rc.ID, &rc.Name, &rc.Description, &rc.Price, &rc.Active, &rc.ItemCd, &rc.ItemClsCd, &rc.TaxType,
		&rc.PkgUnitCd, &rc.QtyUnitCd, &rc.CreatedAt, &rc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rc, nil
}

func (r *RecipeRepo) Create(ctx context.Context, rc *entity.Recipe) error {
	query := `
		INSERT INTO recipes (id, name, description, price, active, kra_item_cd, kra_item_cls_cd, tax_type,
			pkg_unit_cd, qty_unit_cd, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		rc.ID, rc.Name, rc.Description, rc.Price, rc.Active, rc.ItemCd, rc.ItemClsCd, rc.TaxType,
		rc.PkgUnitCd, rc.QtyUnitCd, rc.CreatedAt, rc.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert recipe: %w", err)
	}
	return r.insertIngredients(ctx, rc)
}

func (r *RecipeRepo) insertIngredients(ctx context.Context, rc *entity.Recipe) error {
	for _, ri := range rc.Ingredients {
		_, err := r.q.Exec(ctx,
			`INSERT INTO recipe_ingredients (recipe_id, ingredient_id, quantity) VALUES ($1, $2, $3)`,
			rc.ID, ri.IngredientID, ri.Quantity,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: ingrediente repetido en la receta", domain.ErrDuplicate)
			}
			return fmt.Errorf("insert recipe ingredient: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la receta con sus ingredientes.
func (r *RecipeRepo) GetByID(ctx context.Context, id string) (*entity.Recipe, error) {
	rc, err := scanRecipe(r.q.QueryRow(ctx, `SELECT `+recipeColumns+` FROM recipes WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	rows, err := r.q.Query(ctx,
		`SELECT recipe_id, ingredient_id, quantity FROM recipe_ingredients WHERE recipe_id = $1 ORDER BY ingredient_id`, id)
	if err != nil {
		return nil, fmt.Errorf("get recipe ingredients: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var ri entity.RecipeIngredient
		if err := rows.Scan(&ri.RecipeID, &ri.IngredientID, &ri.Quantity); err != nil {
			return nil, fmt.Errorf("scan recipe ingredient: %w", err)
		}
		rc.Ingredients = append(rc.Ingredients, ri)
	}
	return rc, rows.Err()
}

// List lista recetas (sin ingredientes). onlyActive filtra el menú vigente.
func (r *RecipeRepo) List(ctx context.Context, onlyActive bool, limit, offset int) ([]*entity.Recipe, error) {
	limit, offset = pageArgs(limit, offset)
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE ($1 = false OR active) ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, onlyActive, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Recipe
	for rows.Next() {
		rc, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		list = append(list, rc)
	}
	return list, rows.Err()
}

// Update reemplaza los datos de la receta y sus ingredientes.
func (r *RecipeRepo) Update(ctx context.Context, rc *entity.Recipe) error {
	query := `
		UPDATE recipes SET name = $2, description = $3, price = $4, active = $5, tax_type = $6,
			pkg_unit_cd = $7, qty_unit_cd = $8, kra_item_cls_cd = $9, updated_at = $10
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		rc.ID, rc.Name, rc.Description, rc.Price, rc.Active, rc.TaxType, rc.PkgUnitCd, rc.QtyUnitCd, rc.ItemClsCd, rc.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update recipe: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = $1`, rc.ID); err != nil {
		return fmt.Errorf("delete recipe ingredients: %w", err)
	}
	return r.insertIngredients(ctx, rc)
}

// UpdateTaxItem guarda los códigos KRA de la receta.
func (r *RecipeRepo) UpdateTaxItem(ctx context.Context, id string, item entity.TaxItem) error {
	query := `
		UPDATE recipes SET kra_item_cd = $2, kra_item_cls_cd = $3, tax_type = $4, pkg_unit_cd = $5,
			qty_unit_cd = $6, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, item.ItemCd, item.ItemClsCd, item.TaxType, item.PkgUnitCd, item.QtyUnitCd)
	if err != nil {
		return fmt.Errorf("update recipe tax item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
