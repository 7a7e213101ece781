package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
	"github.com/jhoicas/Cafeteria-api/internal/domain/inventory"
)

// ReplenishmentList ingredientes en o bajo su nivel de reposición con la cantidad sugerida de
// compra. Ordena por mayor déficit relativo (stock / nivel) y luego por costo estimado.
func (uc *UseCase) ReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	items, err := uc.ingredientRepo.ListBelowReorder(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReplenishmentSuggestionDTO, 0, len(items))
	for _, ing := range items {
		qty := inventory.SuggestedOrder(ing.StockQty, ing.ReorderLevel)
		out = append(out, dto.ReplenishmentSuggestionDTO{
			IngredientID:       ing.ID,
			Name:               ing.Name,
			Unit:               ing.Unit,
			CurrentStock:       ing.StockQty,
			ReorderLevel:       ing.ReorderLevel,
			SuggestedOrderQty:  qty,
			EstimatedOrderCost: qty.Mul(ing.UnitCost).Round(2),
			SupplierID:         ing.SupplierID,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		ra, rb := coverage(a), coverage(b)
		if !ra.Equal(rb) {
			return ra.LessThan(rb)
		}
		return a.EstimatedOrderCost.GreaterThan(b.EstimatedOrderCost)
	})
	return out, nil
}

// coverage fracción del nivel de reposición cubierta por el stock actual.
func coverage(s dto.ReplenishmentSuggestionDTO) decimal.Decimal {
	if !s.ReorderLevel.IsPositive() {
		return decimal.NewFromInt(1)
	}
	return s.CurrentStock.Div(s.ReorderLevel)
}
