package repository

import "context"

// SequenceRepository entrega consecutivos atómicos por ámbito (sale, refund, stock, item, order).
// Next nunca devuelve el mismo valor dos veces para un ámbito.
type SequenceRepository interface {
	Next(ctx context.Context, scope string) (int64, error)
}
