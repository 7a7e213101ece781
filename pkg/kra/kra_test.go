package kra_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cafeteria-api/pkg/kra"
)

func TestValidatePIN(t *testing.T) {
	cases := []struct {
		pin string
		ok  bool
	}{
		{"P051234567Q", true},
		{" a123456789z ", true},
		{"P05123456Q", false},  // corto
		{"X051234567Q", false}, // prefijo inválido
		{"P05123A567Q", false}, // letra en la parte numérica
		{"P0512345678", false}, // sin letra de control
	}
	for _, c := range cases {
		err := kra.ValidatePIN(c.pin)
		if c.ok {
			assert.NoError(t, err, c.pin)
		} else {
			assert.Error(t, err, c.pin)
		}
	}
}

func TestItemCode(t *testing.T) {
	code, err := kra.ItemCode(kra.ProductTypeFinished, kra.PackagingNet, kra.QtyUnitPiece, 12)
	require.NoError(t, err)
	assert.Equal(t, "KE2NTU0000012", code)

	_, err = kra.ItemCode("9", kra.PackagingNet, kra.QtyUnitPiece, 1)
	assert.Error(t, err)
	_, err = kra.ItemCode(kra.ProductTypeRawMaterial, "ZZ", kra.QtyUnitKg, 1)
	assert.Error(t, err)
	_, err = kra.ItemCode(kra.ProductTypeRawMaterial, kra.PackagingBag, kra.QtyUnitKg, 0)
	assert.Error(t, err)
}

func TestItemCodeSeq(t *testing.T) {
	n, ok := kra.ItemCodeSeq("KE1NTKG0000042")
	assert.True(t, ok)
	assert.Equal(t, int64(42), n)

	_, ok = kra.ItemCodeSeq("KE2NTU-000001")
	assert.False(t, ok)
	_, ok = kra.ItemCodeSeq("")
	assert.False(t, ok)
}

func TestPaymentTypeCode(t *testing.T) {
	code, ok := kra.PaymentTypeCode("M-Pesa")
	assert.True(t, ok)
	assert.Equal(t, kra.PaymentMobileMoney, code)

	code, ok = kra.PaymentTypeCode("05")
	assert.True(t, ok)
	assert.Equal(t, kra.PaymentCard, code)

	_, ok = kra.PaymentTypeCode("bitcoin")
	assert.False(t, ok)
}

func TestStockTypes(t *testing.T) {
	assert.True(t, kra.StockIncoming(kra.StockInPurchase))
	assert.False(t, kra.StockIncoming(kra.StockOutSale))
	assert.True(t, kra.ValidStockType("16"))
	assert.False(t, kra.ValidStockType("09"))
}
