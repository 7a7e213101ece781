package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest body para POST /api/orders. Los precios salen del menú, no del cliente.
type CreateOrderRequest struct {
	CustomerID    string             `json:"customer_id" validate:"omitempty,uuid"`
	PaymentMethod string             `json:"payment_method" validate:"required"`
	Notes         string             `json:"notes" validate:"omitempty,max=500"`
	Items         []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// OrderItemRequest línea del pedido.
type OrderItemRequest struct {
	RecipeID string          `json:"recipe_id" validate:"required,uuid"`
	Quantity decimal.Decimal `json:"quantity"`
}

// UpdateOrderStatusRequest body para PATCH /api/orders/:id/status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=preparing ready served cancelled"`
}

// OrderResponse pedido con sus líneas.
type OrderResponse struct {
	ID            string              `json:"id"`
	Number        string              `json:"number"`
	CustomerID    string              `json:"customer_id,omitempty"`
	Status        string              `json:"status"`
	PaymentMethod string              `json:"payment_method"`
	Total         decimal.Decimal     `json:"total"`
	Notes         string              `json:"notes,omitempty"`
	Items         []OrderItemResponse `json:"items,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// OrderItemResponse línea del pedido en respuestas.
type OrderItemResponse struct {
	RecipeID  string          `json:"recipe_id"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// KitchenTicket evento publicado a cocina en cada cambio de estado.
type KitchenTicket struct {
	OrderID   string              `json:"order_id"`
	Number    string              `json:"number"`
	Status    string              `json:"status"`
	Notes     string              `json:"notes,omitempty"`
	Items     []OrderItemResponse `json:"items"`
	ChangedAt time.Time           `json:"changed_at"`
}
