package catalog_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cafeteria-api/internal/application/catalog"
	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/internal/testutil/memstore"
	"github.com/jhoicas/Cafeteria-api/pkg/kra"
)

func TestCustomer_PINDuplicado(t *testing.T) {
	store := memstore.New()
	uc := catalog.NewCustomerUseCase(store.CustomerRepo())
	ctx := context.Background()

	c, err := uc.Create(ctx, dto.CustomerRequest{Name: "Jane", KRAPIN: " a123456789z"})
	require.NoError(t, err)
	assert.Equal(t, "A123456789Z", c.KRAPIN)

	_, err = uc.Create(ctx, dto.CustomerRequest{Name: "Otra", KRAPIN: "A123456789Z"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.CustomerRequest{Name: "Mal", KRAPIN: "X12"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// sin PIN es válido (venta a consumidor final)
	_, err = uc.Create(ctx, dto.CustomerRequest{Name: "Consumidor"})
	require.NoError(t, err)
}

func TestIngredient_UpdateNoTocaStockNiCodigo(t *testing.T) {
	store := memstore.New()
	uc := catalog.NewIngredientUseCase(store.IngredientRepo(), store.SupplierRepo())
	ctx := context.Background()

	created, err := uc.Create(ctx, dto.IngredientRequest{
		Name: "Leche", Unit: "l", StockQty: decimal.NewFromInt(12), ReorderLevel: decimal.NewFromInt(5), UnitCost: decimal.NewFromInt(90),
	})
	require.NoError(t, err)
	assert.Equal(t, kra.TaxTypeB, created.TaxType)
	assert.False(t, created.KRARegistered)

	require.NoError(t, store.IngredientRepo().UpdateTaxItem(ctx, created.ID, entity.TaxItem{ItemCd: "KE1NTL0000001", ItemClsCd: "50131700", TaxType: kra.TaxTypeA}))

	updated, err := uc.Update(ctx, created.ID, dto.IngredientRequest{
		Name: "Leche entera", Unit: "l", StockQty: decimal.NewFromInt(999), UnitCost: decimal.NewFromInt(95),
		TaxItemDTO: dto.TaxItemDTO{ItemCd: "OTRO", ItemClsCd: "99999999"},
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(12).Equal(updated.StockQty))
	assert.Equal(t, "KE1NTL0000001", updated.ItemCd)
	assert.Equal(t, "50131700", updated.ItemClsCd)
	assert.True(t, updated.KRARegistered)

	_, err = uc.Create(ctx, dto.IngredientRequest{Name: "X", Unit: "kg", SupplierID: "5b0c7c8a-0000-4000-8000-000000000009"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecipe_CreateValidaIngredientes(t *testing.T) {
	store := memstore.New()
	ing := catalog.NewIngredientUseCase(store.IngredientRepo(), store.SupplierRepo())
	uc := catalog.NewRecipeUseCase(store.Tx(), store.RecipeRepo(), store.IngredientRepo())
	ctx := context.Background()

	milk, err := ing.Create(ctx, dto.IngredientRequest{Name: "Leche", Unit: "l"})
	require.NoError(t, err)

	r, err := uc.Create(ctx, dto.RecipeRequest{
		Name: "Latte", Price: decimal.RequireFromString("250"),
		Ingredients: []dto.RecipeIngredientDTO{{IngredientID: milk.ID, Quantity: decimal.RequireFromString("0.25")}},
	})
	require.NoError(t, err)
	assert.True(t, r.Active)
	assert.Len(t, r.Ingredients, 1)

	_, err = uc.Create(ctx, dto.RecipeRequest{
		Name: "Doble", Price: decimal.NewFromInt(100),
		Ingredients: []dto.RecipeIngredientDTO{
			{IngredientID: milk.ID, Quantity: decimal.NewFromInt(1)},
			{IngredientID: milk.ID, Quantity: decimal.NewFromInt(1)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.RecipeRequest{Name: "Gratis", Price: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	inactive := false
	_, err = uc.Update(ctx, r.ID, dto.RecipeRequest{Name: "Latte", Price: decimal.NewFromInt(260), Active: &inactive})
	require.NoError(t, err)
	menu, err := uc.List(ctx, true, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, menu)
}
