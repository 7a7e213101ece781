package orders

import (
	"context"

	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
	"github.com/jhoicas/Cafeteria-api/internal/domain/repository"
)

// TxRunner asigna el número del pedido y lo guarda con sus líneas en una sola transacción.
type TxRunner interface {
	RunOrder(ctx context.Context, fn func(
		seqRepo repository.SequenceRepository,
		orderRepo repository.OrderRepository,
	) error) error
}

// TicketPublisher publica los cambios de estado para la pantalla de cocina.
type TicketPublisher interface {
	PublishTicket(ctx context.Context, ticket dto.KitchenTicket) error
}
