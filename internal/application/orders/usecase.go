// Package orders pedidos del punto de venta y su flujo en cocina.
package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/internal/domain/repository"
	"github.com/jhoicas/Cafeteria-api/pkg/kra"
	"github.com/jhoicas/Cafeteria-api/pkg/logger"
)

// ScopeOrder ámbito de numeración de pedidos.
const ScopeOrder = "order"

// UseCase casos de uso de pedidos.
type UseCase struct {
	txRunner     TxRunner
	orderRepo    repository.OrderRepository
	recipeRepo   repository.RecipeRepository
	customerRepo repository.CustomerRepository
	publisher    TicketPublisher
	sanitizer    *bluemonday.Policy
	log          *logger.Logger
	now          func() time.Time
}

// NewUseCase construye el caso de uso. publisher puede ser nil (sin cola de cocina).
func NewUseCase(
	txRunner TxRunner,
	orderRepo repository.OrderRepository,
	recipeRepo repository.RecipeRepository,
	customerRepo repository.CustomerRepository,
	publisher TicketPublisher,
	log *logger.Logger,
) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		txRunner:     txRunner,
		orderRepo:    orderRepo,
		recipeRepo:   recipeRepo,
		customerRepo: customerRepo,
		publisher:    publisher,
		sanitizer:    bluemonday.StrictPolicy(),
		log:          log.Component("orders"),
		now:          time.Now,
	}
}

// Create arma el pedido con precios del menú (solo recetas activas) y lo numera ORD-000001.
func (uc *UseCase) Create(ctx context.Context, userID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: el pedido no tiene líneas", domain.ErrInvalidInput)
	}
	if _, ok := kra.PaymentTypeCode(in.PaymentMethod); !ok {
		return nil, fmt.Errorf("%w: medio de pago %q", domain.ErrInvalidInput, in.PaymentMethod)
	}
	if in.CustomerID != "" {
		c, err := uc.customerRepo.GetByID(ctx, in.CustomerID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, fmt.Errorf("%w: cliente %s no existe", domain.ErrInvalidInput, in.CustomerID)
		}
	}

	now := uc.now()
	order := &entity.Order{
		ID:            uuid.New().String(),
		CustomerID:    in.CustomerID,
		Status:        entity.OrderStatusPending,
		PaymentMethod: strings.ToLower(strings.TrimSpace(in.PaymentMethod)),
		Notes:         strings.TrimSpace(uc.sanitizer.Sanitize(in.Notes)),
		CreatedBy:     userID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	total := decimal.Zero
	for _, li := range in.Items {
		if !li.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrInvalidInput)
		}
		r, err := uc.recipeRepo.GetByID(ctx, li.RecipeID)
		if err != nil {
			return nil, err
		}
		if r == nil || !r.Active {
			return nil, fmt.Errorf("%w: la receta %s no está en el menú", domain.ErrInvalidInput, li.RecipeID)
		}
		lineTotal := li.Quantity.Mul(r.Price).Round(2)
		order.Items = append(order.Items, entity.OrderItem{
			ID:        uuid.New().String(),
			OrderID:   order.ID,
			RecipeID:  r.ID,
			Name:      r.Name,
			Quantity:  li.Quantity,
			UnitPrice: r.Price,
			LineTotal: lineTotal,
		})
		total = total.Add(lineTotal)
	}
	order.Total = total

	err := uc.txRunner.RunOrder(ctx, func(seqRepo repository.SequenceRepository, orderRepo repository.OrderRepository) error {
		n, err := seqRepo.Next(ctx, ScopeOrder)
		if err != nil {
			return err
		}
		order.Number = entity.OrderNumber(n)
		return orderRepo.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("order_id", order.ID).Str("number", order.Number).Str("total", total.String()).Msg("pedido creado")
	uc.publish(ctx, order)
	return toOrderResponse(order), nil
}

func (uc *UseCase) GetByID(ctx context.Context, id string) (*dto.OrderResponse, error) {
	o, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return toOrderResponse(o), nil
}

// List pedidos, opcionalmente por estado (pantalla de cocina: pending y preparing).
func (uc *UseCase) List(ctx context.Context, status string, page dto.PageRequest) ([]dto.OrderResponse, error) {
	page.DefaultPage()
	list, err := uc.orderRepo.List(ctx, repository.OrderFilter{Status: status, Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, *toOrderResponse(o))
	}
	return out, nil
}

// UpdateStatus avanza el pedido en cocina. Transición inválida: ErrConflict.
func (uc *UseCase) UpdateStatus(ctx context.Context, id string, in dto.UpdateOrderStatusRequest) (*dto.OrderResponse, error) {
	o, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	if !entity.CanTransition(o.Status, in.Status) {
		return nil, fmt.Errorf("%w: el pedido %s no puede pasar de %s a %s", domain.ErrConflict, o.Number, o.Status, in.Status)
	}
	if err := uc.orderRepo.UpdateStatus(ctx, o.ID, in.Status); err != nil {
		return nil, err
	}
	o.Status = in.Status
	o.UpdatedAt = uc.now()

	uc.log.Info().Str("order_id", o.ID).Str("number", o.Number).Str("status", o.Status).Msg("pedido actualizado")
	uc.publish(ctx, o)
	return toOrderResponse(o), nil
}

// publish un fallo de la cola no revierte el pedido.
func (uc *UseCase) publish(ctx context.Context, o *entity.Order) {
	if uc.publisher == nil {
		return
	}
	ticket := dto.KitchenTicket{
		OrderID:   o.ID,
		Number:    o.Number,
		Status:    o.Status,
		Notes:     o.Notes,
		Items:     toItemResponses(o.Items),
		ChangedAt: uc.now(),
	}
	if err := uc.publisher.PublishTicket(ctx, ticket); err != nil {
		uc.log.Warn().Err(err).Str("order_id", o.ID).Str("status", o.Status).Msg("no se pudo publicar el ticket de cocina")
	}
}

func toItemResponses(items []entity.OrderItem) []dto.OrderItemResponse {
	out := make([]dto.OrderItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.OrderItemResponse{
			RecipeID:  it.RecipeID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			LineTotal: it.LineTotal,
		})
	}
	return out
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	return &dto.OrderResponse{
		ID:            o.ID,
		Number:        o.Number,
		CustomerID:    o.CustomerID,
		Status:        o.Status,
		PaymentMethod: o.PaymentMethod,
		Total:         o.Total,
		Notes:         o.Notes,
		Items:         toItemResponses(o.Items),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}
