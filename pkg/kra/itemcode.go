package kra

import (
	"fmt"
	"strconv"
)

// CountryOfOrigin para artículos producidos localmente.
const CountryOfOrigin = "KE"

// ItemCode arma el código de artículo eTIMS:
//
//	país(2) + tipo de producto(1) + unidad de empaque(2) + unidad de cantidad + secuencia(7)
//
// Ej: KE + 2 + NT + U + 0000012 = "KE2NTU0000012".
func ItemCode(productType, pkgUnit, qtyUnit string, seq int64) (string, error) {
	switch productType {
	case ProductTypeRawMaterial, ProductTypeFinished, ProductTypeService:
	default:
		return "", fmt.Errorf("kra: tipo de producto inválido %q", productType)
	}
	if !ValidPackagingUnits[pkgUnit] {
		return "", fmt.Errorf("kra: unidad de empaque inválida %q", pkgUnit)
	}
	if !ValidQuantityUnits[qtyUnit] {
		return "", fmt.Errorf("kra: unidad de cantidad inválida %q", qtyUnit)
	}
	if seq <= 0 || seq > 9999999 {
		return "", fmt.Errorf("kra: secuencia de artículo fuera de rango: %d", seq)
	}
	return fmt.Sprintf("%s%s%s%s%07d", CountryOfOrigin, productType, pkgUnit, qtyUnit, seq), nil
}

// ItemCodeSeq extrae la secuencia (últimos 7 dígitos) de un código de artículo.
func ItemCodeSeq(code string) (int64, bool) {
	if len(code) < 7 {
		return 0, false
	}
	tail := code[len(code)-7:]
	for _, r := range tail {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(tail, 10, 64)
	return n, err == nil
}
