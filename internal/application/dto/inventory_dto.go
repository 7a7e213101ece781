package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockAdjustmentRequest body para POST /api/inventory/adjustments.
// SarTyCd es el tipo de movimiento KRA: 01-06 entradas, 11-16 salidas.
type StockAdjustmentRequest struct {
	IngredientID string           `json:"ingredient_id" validate:"required,uuid"`
	SarTyCd      string           `json:"sar_type_cd" validate:"required,len=2,numeric"`
	Quantity     decimal.Decimal  `json:"quantity"`
	UnitCost     *decimal.Decimal `json:"unit_cost,omitempty"`
	Reason       string           `json:"reason" validate:"omitempty,max=300"`
	SubmitToKRA  bool             `json:"submit_to_kra"`
}

// StockAdjustmentResponse movimiento registrado.
type StockAdjustmentResponse struct {
	ID           string          `json:"id"`
	IngredientID string          `json:"ingredient_id"`
	SarTyCd      string          `json:"sar_type_cd"`
	Direction    string          `json:"direction"` // in | out
	Quantity     decimal.Decimal `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	Reason       string          `json:"reason,omitempty"`
	StockAfter   decimal.Decimal `json:"stock_after"`
	SarNo        int64           `json:"sar_no,omitempty"`
	KRAStatus    string          `json:"kra_status,omitempty"`
	KRAError     string          `json:"kra_error,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ReplenishmentSuggestionDTO sugerencia de compra para un ingrediente bajo su nivel de reposición.
type ReplenishmentSuggestionDTO struct {
	IngredientID       string          `json:"ingredient_id"`
	Name               string          `json:"name"`
	Unit               string          `json:"unit"`
	CurrentStock       decimal.Decimal `json:"current_stock"`
	ReorderLevel       decimal.Decimal `json:"reorder_level"`
	SuggestedOrderQty  decimal.Decimal `json:"suggested_order_qty"`  // ReorderLevel * 1.5 - CurrentStock
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitCost
	SupplierID         string          `json:"supplier_id,omitempty"`
}
