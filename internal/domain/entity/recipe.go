package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recipe es un plato o bebida del menú. Price incluye IVA.
type Recipe struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Active      bool
	TaxItem
	Ingredients []RecipeIngredient
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RecipeIngredient cantidad de un ingrediente por porción.
type RecipeIngredient struct {
	RecipeID     string
	IngredientID string
	Quantity     decimal.Decimal
}
