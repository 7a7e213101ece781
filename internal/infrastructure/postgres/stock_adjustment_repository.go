package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/internal/domain/repository"
)

var _ repository.StockAdjustmentRepository = (*StockAdjustmentRepo)(nil)

const stockAdjustmentColumns = `id, ingredient_id, sar_type_cd, quantity, unit_cost, reason, sar_no, kra_status,
	COALESCE(created_by::text, ''), created_at`

// StockAdjustmentRepo implementación de StockAdjustmentRepository (usable con pool o tx).
type StockAdjustmentRepo struct {
	q Querier
}

// NewStockAdjustmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockAdjustmentRepository(q Querier) *StockAdjustmentRepo {
	return &StockAdjustmentRepo{q: q}
}

func scanStockAdjustment(row pgx.Row) (*entity.StockAdjustment, error) {
	var a entity.StockAdjustment
	err := row.Scan(&a.ID, &a.IngredientID, &a.SarTyCd, &a.Quantity, &a.UnitCost, &a.Reason, &a.SarNo, &a.KRAStatus,
		&a.CreatedBy, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create registra el movimiento.
func (r *StockAdjustmentRepo) Create(ctx context.Context, a *entity.StockAdjustment) error {
	query := `
		INSERT INTO stock_adjustments (id, ingredient_id, sar_type_cd, quantity, unit_cost, reason, sar_no,
			kra_status, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query, a.ID, a.IngredientID, a.SarTyCd, a.Quantity, a.UnitCost, a.Reason, a.SarNo,
		a.KRAStatus, nullUUID(a.CreatedBy), a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert stock adjustment: %w", err)
	}
	return nil
}

func (r *StockAdjustmentRepo) GetByID(ctx context.Context, id string) (*entity.StockAdjustment, error) {
	a, err := scanStockAdjustment(r.q.QueryRow(ctx, `SELECT `+stockAdjustmentColumns+` FROM stock_adjustments WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock adjustment: %w", err)
	}
	return a, nil
}

// ListByIngredient movimientos de un ingrediente; ingredientID vacío lista todos.
func (r *StockAdjustmentRepo) ListByIngredient(ctx context.Context, ingredientID string, limit, offset int) ([]*entity.StockAdjustment, error) {
	limit, offset = pageArgs(limit, offset)
	query := `SELECT ` + stockAdjustmentColumns + ` FROM stock_adjustments
		WHERE ($1 = '' OR ingredient_id::text = $1) ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, ingredientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock adjustments: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockAdjustment
	for rows.Next() {
		a, err := scanStockAdjustment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock adjustment: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// UpdateSubmission guarda sarNo y estado del envío a la KRA.
func (r *StockAdjustmentRepo) UpdateSubmission(ctx context.Context, id string, sarNo int64, status string) error {
	tag, err := r.q.Exec(ctx, `UPDATE stock_adjustments SET sar_no = $2, kra_status = $3 WHERE id = $1`, id, sarNo, status)
	if err != nil {
		return fmt.Errorf("update stock adjustment submission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
