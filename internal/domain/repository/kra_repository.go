package repository

import (
	"context"

	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
)

// KRARegistrationRepository persistencia de las inicializaciones del dispositivo.
type KRARegistrationRepository interface {
	Create(ctx context.Context, reg *entity.KRARegistration) error
	// GetActive devuelve la inicialización exitosa más reciente, o (nil, nil).
	GetActive(ctx context.Context) (*entity.KRARegistration, error)
	List(ctx context.Context, limit, offset int) ([]*entity.KRARegistration, error)
}

// KRATransactionRepository bitácora de envíos de artículos y stock.
type KRATransactionRepository interface {
	Create(ctx context.Context, tx *entity.KRATransaction) error
	ListByReference(ctx context.Context, referenceID string) ([]*entity.KRATransaction, error)
}
