package etims

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/pkg/kra"
)

// ErrInvalidInvoice agrupa errores de consistencia de la factura.
var ErrInvalidInvoice = errors.New("factura inválida para eTIMS")

// RequireCodes verifica que todas las líneas tengan código y clasificación KRA.
// El error envuelve domain.ErrUnregisteredItem y nombra las líneas faltantes.
func RequireCodes(items []entity.SalesInvoiceItem) error {
	var missing []string
	for _, it := range items {
		if it.ItemCd == "" || it.ItemClsCd == "" {
			missing = append(missing, it.Name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrUnregisteredItem, strings.Join(missing, ", "))
	}
	return nil
}

// ValidateInvoice revisa la factura antes de enviarla: líneas con código, tipos de impuesto
// conocidos y totales de cabecera iguales a la suma de las líneas.
func ValidateInvoice(inv *entity.SalesInvoice) error {
	if inv == nil {
		return fmt.Errorf("%w: factura nula", ErrInvalidInvoice)
	}
	if len(inv.Items) == 0 {
		return fmt.Errorf("%w: la factura debe tener al menos una línea", ErrInvalidInvoice)
	}
	if err := RequireCodes(inv.Items); err != nil {
		return err
	}
	var errs []error
	for _, it := range inv.Items {
		if !kra.ValidTaxType(it.TaxType) {
			errs = append(errs, fmt.Errorf("línea %d: tipo de impuesto %q desconocido", it.Seq, it.TaxType))
		}
	}
	s := Summarize(inv.Items)
	if !inv.TotalAmount.Equal(s.TotalAmount) {
		errs = append(errs, fmt.Errorf("total (%s) no coincide con la suma de líneas (%s)", inv.TotalAmount, s.TotalAmount))
	}
	if !inv.TaxAmount.Equal(s.TotalTax) {
		errs = append(errs, fmt.Errorf("impuesto (%s) no coincide con la suma de líneas (%s)", inv.TaxAmount, s.TotalTax))
	}
	if inv.Kind == entity.InvoiceKindRefund {
		if inv.OriginalInvoiceNo == 0 {
			errs = append(errs, errors.New("la devolución debe referenciar la factura original"))
		}
		if inv.TotalAmount.GreaterThan(decimal.Zero) {
			errs = append(errs, errors.New("la devolución debe tener total negativo"))
		}
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidInvoice}, errs...)...)
	}
	return nil
}
