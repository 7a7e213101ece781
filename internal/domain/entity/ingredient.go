package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ingredient materia prima en bodega. El stock se mueve solo vía StockAdjustment.
type Ingredient struct {
	ID           string
	Name         string
	Unit         string // unidad local (kg, l, unidad)
	StockQty     decimal.Decimal
	ReorderLevel decimal.Decimal
	UnitCost     decimal.Decimal
	SupplierID   string
	TaxItem
	CreatedAt time.Time
	UpdatedAt time.Time
}
