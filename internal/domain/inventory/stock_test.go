package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/internal/domain/inventory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestWeightedAverageCost(t *testing.T) {
	// 10 kg a 100 + 30 kg a 120 = 115
	assert.True(t, d("115").Equal(inventory.WeightedAverageCost(d("10"), d("100"), d("30"), d("120"))))
	// sin stock previo queda el costo de la entrada
	assert.True(t, d("80").Equal(inventory.WeightedAverageCost(d("0"), d("0"), d("5"), d("80"))))
}

func TestApplyMovement(t *testing.T) {
	got, err := inventory.ApplyMovement(d("4.5"), d("2"), true)
	require.NoError(t, err)
	assert.True(t, d("6.5").Equal(got))

	got, err = inventory.ApplyMovement(d("4.5"), d("4.5"), false)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = inventory.ApplyMovement(d("1"), d("2"), false)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = inventory.ApplyMovement(d("1"), d("0"), true)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSuggestedOrder(t *testing.T) {
	assert.True(t, d("11").Equal(inventory.SuggestedOrder(d("4"), d("10"))))
	assert.True(t, inventory.SuggestedOrder(d("20"), d("10")).IsZero())
}
