package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerRequest body para POST/PUT /api/customers.
type CustomerRequest struct {
	Name   string `json:"name" validate:"required,max=200"`
	KRAPIN string `json:"kra_pin" validate:"omitempty,len=11"`
	Email  string `json:"email" validate:"omitempty,email"`
	Phone  string `json:"phone" validate:"omitempty,max=30"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	KRAPIN    string    `json:"kra_pin,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SupplierRequest body para POST/PUT /api/suppliers.
type SupplierRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	KRAPIN      string `json:"kra_pin" validate:"omitempty,len=11"`
	ContactName string `json:"contact_name" validate:"omitempty,max=200"`
	Phone       string `json:"phone" validate:"omitempty,max=30"`
	Email       string `json:"email" validate:"omitempty,email"`
}

// SupplierResponse proveedor en respuestas.
type SupplierResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	KRAPIN      string    `json:"kra_pin,omitempty"`
	ContactName string    `json:"contact_name,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TaxItemDTO códigos KRA de un artículo.
type TaxItemDTO struct {
	ItemCd    string `json:"item_cd,omitempty"`
	ItemClsCd string `json:"item_cls_cd,omitempty" validate:"omitempty,max=10"`
	TaxType   string `json:"tax_type" validate:"omitempty,oneof=A B C D E"`
	PkgUnitCd string `json:"pkg_unit_cd" validate:"omitempty,oneof=NT BG BX CA BO"`
	QtyUnitCd string `json:"qty_unit_cd" validate:"omitempty,oneof=U KG GRM L ML PA"`
}

// IngredientRequest body para POST/PUT /api/ingredients. StockQty solo aplica al crear.
type IngredientRequest struct {
	Name         string          `json:"name" validate:"required,max=200"`
	Unit         string          `json:"unit" validate:"required,max=20"`
	StockQty     decimal.Decimal `json:"stock_qty"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	SupplierID   string          `json:"supplier_id" validate:"omitempty,uuid"`
	TaxItemDTO
}

// IngredientResponse ingrediente en respuestas.
type IngredientResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Unit          string          `json:"unit"`
	StockQty      decimal.Decimal `json:"stock_qty"`
	ReorderLevel  decimal.Decimal `json:"reorder_level"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	SupplierID    string          `json:"supplier_id,omitempty"`
	KRARegistered bool            `json:"kra_registered"`
	TaxItemDTO
}

// RecipeIngredientDTO ingrediente por porción.
type RecipeIngredientDTO struct {
	IngredientID string          `json:"ingredient_id" validate:"required,uuid"`
	Quantity     decimal.Decimal `json:"quantity"`
}

// RecipeRequest body para POST/PUT /api/recipes.
type RecipeRequest struct {
	Name        string                `json:"name" validate:"required,max=200"`
	Description string                `json:"description" validate:"omitempty,max=1000"`
	Price       decimal.Decimal       `json:"price"`
	Active      *bool                 `json:"active,omitempty"`
	Ingredients []RecipeIngredientDTO `json:"ingredients" validate:"dive"`
	TaxItemDTO
}

// RecipeResponse receta en respuestas.
type RecipeResponse struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	Description   string                `json:"description,omitempty"`
	Price         decimal.Decimal       `json:"price"`
	Active        bool                  `json:"active"`
	KRARegistered bool                  `json:"kra_registered"`
	Ingredients   []RecipeIngredientDTO `json:"ingredients,omitempty"`
	TaxItemDTO
}
