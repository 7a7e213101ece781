package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockAdjustment movimiento de stock de un ingrediente (compra, merma, ajuste...).
// Quantity es siempre positiva; el sentido lo da SarTyCd.
type StockAdjustment struct {
	ID           string
	IngredientID string
	SarTyCd      string // tipo de movimiento KRA (02 compra, 16 ajuste salida...)
	Quantity     decimal.Decimal
	UnitCost     decimal.Decimal
	Reason       string
	SarNo        int64 // asignado al enviar a la KRA; 0 = no enviado
	KRAStatus    string
	CreatedBy    string
	CreatedAt    time.Time
}
