// Package inventory reglas de stock de ingredientes: saldo resultante de un movimiento y
// costo promedio ponderado en las entradas.
package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cafeteria-api/internal/domain"
)

// WeightedAverageCost costo unitario después de una entrada:
//
//	((stock * costo) + (entrada * costoEntrada)) / (stock + entrada)
//
// Si el stock resultante no es positivo conserva el costo de la entrada.
func WeightedAverageCost(stock, cost, incoming, incomingCost decimal.Decimal) decimal.Decimal {
	total := stock.Add(incoming)
	if total.LessThanOrEqual(decimal.Zero) {
		return incomingCost.Round(2)
	}
	return stock.Mul(cost).Add(incoming.Mul(incomingCost)).Div(total).Round(2)
}

// ApplyMovement saldo después de mover qty (siempre positiva) hacia dentro o fuera.
// Una salida mayor al stock devuelve domain.ErrInsufficientStock.
func ApplyMovement(stock, qty decimal.Decimal, incoming bool) (decimal.Decimal, error) {
	if !qty.IsPositive() {
		return stock, domain.ErrInvalidInput
	}
	if incoming {
		return stock.Add(qty), nil
	}
	if stock.LessThan(qty) {
		return stock, domain.ErrInsufficientStock
	}
	return stock.Sub(qty), nil
}

// SuggestedOrder cantidad a pedir para llegar a 1.5 veces el nivel de reposición; nunca negativa.
func SuggestedOrder(stock, reorderLevel decimal.Decimal) decimal.Decimal {
	qty := reorderLevel.Mul(decimal.NewFromFloat(1.5)).Sub(stock)
	if qty.IsNegative() {
		return decimal.Zero
	}
	return qty
}
