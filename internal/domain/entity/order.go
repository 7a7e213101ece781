package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Estados del pedido en cocina.
const (
	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusServed    = "served"
	OrderStatusCancelled = "cancelled"
)

// orderTransitions transiciones permitidas del flujo de cocina.
var orderTransitions = map[string][]string{
	OrderStatusPending:   {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:     {OrderStatusServed, OrderStatusCancelled},
}

// CanTransition indica si el pedido puede pasar de from a to.
func CanTransition(from, to string) bool {
	for _, s := range orderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// OrderNumberPrefix prefijo del número de pedido.
const OrderNumberPrefix = "ORD-"

// OrderNumber formatea el consecutivo del pedido, ej. ORD-000001.
func OrderNumber(n int64) string {
	return fmt.Sprintf("%s%06d", OrderNumberPrefix, n)
}

// Order pedido del punto de venta.
type Order struct {
	ID            string
	Number        string
	CustomerID    string
	Status        string
	PaymentMethod string
	Total         decimal.Decimal
	Notes         string
	CreatedBy     string
	Items         []OrderItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderItem línea del pedido; Name y UnitPrice son copia del menú al momento de la venta.
type OrderItem struct {
	ID        string
	OrderID   string
	RecipeID  string
	Name      string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}
