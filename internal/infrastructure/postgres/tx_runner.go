package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Cafeteria-api/internal/application/catalog"
	appetims "github.com/jhoicas/Cafeteria-api/internal/application/etims"
	"github.com/jhoicas/Cafeteria-api/internal/application/inventory"
	"github.com/jhoicas/Cafeteria-api/internal/application/orders"
	"github.com/jhoicas/Cafeteria-api/internal/domain/repository"
)

var (
	_ appetims.TxRunner  = (*TxRunner)(nil)
	_ inventory.TxRunner = (*TxRunner)(nil)
	_ orders.TxRunner    = (*TxRunner)(nil)
	_ catalog.TxRunner   = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// inTx inicia una transacción, ejecuta fn y hace Commit o Rollback.
func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunEtims numeración + facturas + movimientos de stock en una sola tx (asignar número e insertar pending).
func (r *TxRunner) RunEtims(ctx context.Context, fn func(
	seqRepo repository.SequenceRepository,
	invoiceRepo repository.SalesInvoiceRepository,
	adjustmentRepo repository.StockAdjustmentRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewSequenceRepository(tx), NewSalesInvoiceRepository(tx), NewStockAdjustmentRepository(tx))
	})
}

// RunStock ajuste de stock: bloquea el ingrediente, cambia stock_qty e inserta el movimiento.
func (r *TxRunner) RunStock(ctx context.Context, fn func(
	ingredientRepo repository.IngredientRepository,
	adjustmentRepo repository.StockAdjustmentRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewIngredientRepository(tx), NewStockAdjustmentRepository(tx))
	})
}

// RunOrder número de pedido + cabecera + líneas.
func (r *TxRunner) RunOrder(ctx context.Context, fn func(
	seqRepo repository.SequenceRepository,
	orderRepo repository.OrderRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewSequenceRepository(tx), NewOrderRepository(tx))
	})
}

// RunRecipe receta y su lista de ingredientes.
func (r *TxRunner) RunRecipe(ctx context.Context, fn func(recipeRepo repository.RecipeRepository) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewRecipeRepository(tx))
	})
}
