package etims

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
)

// Ámbitos de numeración. Cada ámbito tiene su propio consecutivo.
const (
	ScopeSale   = "sale"
	ScopeRefund = "refund"
	ScopeStock  = "stock"
	ScopeItem   = "item"
)

// Prefijos del número de factura del comercio (trdInvcNo).
const (
	PrefixSale   = "INV-"
	PrefixRefund = "RFD-"
)

// NextNumber devuelve el siguiente consecutivo: max(existentes) + 1, o 1 si no hay previos.
func NextNumber(current int64) int64 {
	if current < 0 {
		current = 0
	}
	return current + 1
}

// ScopeForKind ámbito de numeración de un tipo de factura.
func ScopeForKind(kind string) string {
	if kind == entity.InvoiceKindRefund {
		return ScopeRefund
	}
	return ScopeSale
}

// PrefixForKind prefijo del trdInvcNo según el tipo de factura.
func PrefixForKind(kind string) string {
	if kind == entity.InvoiceKindRefund {
		return PrefixRefund
	}
	return PrefixSale
}

// TraderInvoiceNo formatea el número del comercio, ej. INV-000042.
func TraderInvoiceNo(kind string, n int64) string {
	return fmt.Sprintf("%s%06d", PrefixForKind(kind), n)
}

// ParseSuffix extrae la parte numérica de un número con prefijo.
// Devuelve false si el prefijo no coincide o el sufijo no es numérico.
func ParseSuffix(prefix, value string) (int64, bool) {
	if !strings.HasPrefix(value, prefix) {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimPrefix(value, prefix), 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// HighestSuffix devuelve el mayor sufijo numérico entre valores con el prefijo dado.
// Los valores con sufijo corrupto se ignoran.
func HighestSuffix(prefix string, values []string) int64 {
	var max int64
	for _, v := range values {
		if n, ok := ParseSuffix(prefix, v); ok && n > max {
			max = n
		}
	}
	return max
}
