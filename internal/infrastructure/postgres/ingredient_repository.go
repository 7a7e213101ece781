package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/internal/domain/repository"
)

var _ repository.IngredientRepository = (*IngredientRepo)(nil)

const ingredientColumns = `id, name, unit, stock_qty, reorder_level, unit_cost, COALESCE(supplier_id::text, ''),
	kra_item_cd, kra_item_cls_cd, tax_type, pkg_unit_cd, qty_unit_cd, created_at, updated_at`

// IngredientRepo implementación de IngredientRepository (usable con pool o tx).
type IngredientRepo struct {
	q Querier
}

// NewIngredientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewIngredientRepository(q Querier) *IngredientRepo {
	return &IngredientRepo{q: q}
}

func scanIngredient(row pgx.Row) (*entity.Ingredient, error) {
	var i entity.Ingredient
	err := row.Scan(
		&i.ID, &i.Name, &i.Unit, &i.StockQty, &i.ReorderLevel, &i.UnitCost, &i.SupplierID,
		&i.ItemCd, &i.ItemClsCd, &i.TaxType, &i.PkgUnitCd, &i.QtyUnitCd, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// Create persiste un ingrediente.
func (r *IngredientRepo) Create(ctx context.Context, i *entity.Ingredient) error {
	query := `
		INSERT INTO ingredients (id, name, unit, stock_qty, reorder_level, unit_cost, supplier_id,
			kra_item_cd, kra_item_cls_cd, tax_type, pkg_unit_cd, qty_unit_cd, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		i.ID, i.Name, i.Unit, i.StockQty, i.ReorderLevel, i.UnitCost, nullUUID(i.SupplierID),
		i.ItemCd, i.ItemClsCd, i.TaxType, i.PkgUnitCd, i.QtyUnitCd, i.CreatedAt, i.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert ingredient: %w", err)
	}
	return nil
}

// GetByID obtiene un ingrediente por ID.
func (r *IngredientRepo) GetByID(ctx context.Context, id string) (*entity.Ingredient, error) {
	i, err := scanIngredient(r.q.QueryRow(ctx, `SELECT `+ingredientColumns+` FROM ingredients WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ingredient: %w", err)
	}
	return i, nil
}

// GetForUpdate obtiene el ingrediente y bloquea la fila (SELECT FOR UPDATE).
func (r *IngredientRepo) GetForUpdate(ctx context.Context, id string) (*entity.Ingredient, error) {
	i, err := scanIngredient(r.q.QueryRow(ctx, `SELECT `+ingredientColumns+` FROM ingredients WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ingredient for update: %w", err)
	}
	return i, nil
}

// List lista ingredientes por nombre.
func (r *IngredientRepo) List(ctx context.Context, limit, offset int) ([]*entity.Ingredient, error) {
	limit, offset = pageArgs(limit, offset)
	return r.list(ctx, `SELECT `+ingredientColumns+` FROM ingredients ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
}

// ListBelowReorder ingredientes en o bajo el nivel de reposición.
func (r *IngredientRepo) ListBelowReorder(ctx context.Context) ([]*entity.Ingredient, error) {
	return r.list(ctx, `SELECT `+ingredientColumns+` FROM ingredients WHERE stock_qty <= reorder_level ORDER BY name`)
}

func (r *IngredientRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Ingredient, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	defer rows.Close()
	var list []*entity.Ingredient
	for rows.Next() {
		i, err := scanIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		list = append(list, i)
	}
	return list, rows.Err()
}

// Update actualiza los datos maestros. No toca stock ni códigos KRA.
func (r *IngredientRepo) Update(ctx context.Context, i *entity.Ingredient) error {
	query := `
		UPDATE ingredients SET name = $2, unit = $3, reorder_level = $4, unit_cost = $5, supplier_id = $6,
			tax_type = $7, pkg_unit_cd = $8, qty_unit_cd = $9, kra_item_cls_cd = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		i.ID, i.Name, i.Unit, i.ReorderLevel, i.UnitCost, nullUUID(i.SupplierID),
		i.TaxType, i.PkgUnitCd, i.QtyUnitCd, i.ItemClsCd, i.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update ingredient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateTaxItem guarda los códigos KRA del ingrediente.
func (r *IngredientRepo) UpdateTaxItem(ctx context.Context, id string, item entity.TaxItem) error {
	query := `
		UPDATE ingredients SET kra_item_cd = $2, kra_item_cls_cd = $3, tax_type = $4, pkg_unit_cd = $5,
			qty_unit_cd = $6, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, item.ItemCd, item.ItemClsCd, item.TaxType, item.PkgUnitCd, item.QtyUnitCd)
	if err != nil {
		return fmt.Errorf("update ingredient tax item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetStock fija el stock del ingrediente. El CHECK stock_qty >= 0 rechaza negativos.
func (r *IngredientRepo) SetStock(ctx context.Context, id string, qty decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE ingredients SET stock_qty = $2, updated_at = now() WHERE id = $1`, id, qty)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInsufficientStock
		}
		return fmt.Errorf("set stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
