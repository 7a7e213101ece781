package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	domainetims "github.com/jhoicas/Cafeteria-api/internal/domain/etims"
	"github.com/jhoicas/Cafeteria-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// seedSource valor inicial de un ámbito: el máximo ya usado en la tabla dueña.
// Con prefix, query devuelve los números con prefijo y se toma el mayor sufijo numérico
// (los sufijos corruptos se ignoran); sin prefix, query devuelve directamente el máximo.
type seedSource struct {
	query  string
	prefix string
}

// Solo se evalúan la primera vez que se usa el ámbito (cuando no existe la fila).
var seedSources = map[string]seedSource{
	domainetims.ScopeSale: {
		query:  `SELECT trader_invoice_no FROM sales_invoices WHERE kind = 'sale'`,
		prefix: domainetims.PrefixSale,
	},
	domainetims.ScopeRefund: {
		query:  `SELECT trader_invoice_no FROM sales_invoices WHERE kind = 'refund'`,
		prefix: domainetims.PrefixRefund,
	},
	"order": {
		query:  `SELECT number FROM orders`,
		prefix: entity.OrderNumberPrefix,
	},
	domainetims.ScopeStock: {
		query: `SELECT COALESCE(MAX(sar_no), 0) FROM stock_adjustments`,
	},
	domainetims.ScopeItem: {
		query: `SELECT COALESCE(MAX(RIGHT(code, 7)::bigint), 0) FROM (
			SELECT kra_item_cd AS code FROM ingredients UNION ALL SELECT kra_item_cd FROM recipes
		) c WHERE code ~ '[0-9]{7}$'`,
	},
}

// SequenceRepo consecutivos atómicos sobre number_sequences.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Pasar la tx en la que se inserta el registro numerado.
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next asigna el siguiente número del ámbito. El incremento es un UPDATE ... RETURNING sobre la
// fila del ámbito; la primera vez se inserta max(existentes)+1 con ON CONFLICT, así dos
// transacciones concurrentes nunca obtienen el mismo valor.
func (r *SequenceRepo) Next(ctx context.Context, scope string) (int64, error) {
	src, ok := seedSources[scope]
	if !ok {
		return 0, fmt.Errorf("ámbito de numeración desconocido %q", scope)
	}

	var n int64
	err := r.q.QueryRow(ctx,
		`UPDATE number_sequences SET last_value = last_value + 1 WHERE scope = $1 RETURNING last_value`,
		scope).Scan(&n)
	if err == nil {
		return n, nil
	}
	if !isNoRows(err) {
		return 0, fmt.Errorf("next sequence %s: %w", scope, err)
	}

	current, err := r.highest(ctx, src)
	if err != nil {
		return 0, fmt.Errorf("seed sequence %s: %w", scope, err)
	}
	query := `
		INSERT INTO number_sequences (scope, last_value)
		VALUES ($1, $2)
		ON CONFLICT (scope) DO UPDATE SET last_value = number_sequences.last_value + 1
		RETURNING last_value`
	if err := r.q.QueryRow(ctx, query, scope, domainetims.NextNumber(current)).Scan(&n); err != nil {
		return 0, fmt.Errorf("next sequence %s: %w", scope, err)
	}
	return n, nil
}

func (r *SequenceRepo) highest(ctx context.Context, src seedSource) (int64, error) {
	if src.prefix == "" {
		var n int64
		err := r.q.QueryRow(ctx, src.query).Scan(&n)
		return n, err
	}
	rows, err := r.q.Query(ctx, src.query)
	if err != nil {
		return 0, err
	}
	values, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return 0, err
	}
	return domainetims.HighestSuffix(src.prefix, values), nil
}
