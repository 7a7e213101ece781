package repository

import (
	"context"

	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
)

// SalesInvoiceFilter filtros del listado de facturas eTIMS.
type SalesInvoiceFilter struct {
	Kind   string
	Status string
	Limit  int
	Offset int
}

// SalesInvoiceRepository define el puerto de persistencia de las facturas enviadas a la KRA.
type SalesInvoiceRepository interface {
	// Create inserta la cabecera y las líneas; usar dentro de una tx.
	Create(ctx context.Context, invoice *entity.SalesInvoice) error
	GetByID(ctx context.Context, id string) (*entity.SalesInvoice, error)
	// GetSaleByOrderID devuelve la factura de venta del pedido, si existe.
	GetSaleByOrderID(ctx context.Context, orderID string) (*entity.SalesInvoice, error)
	// GetRefundOf devuelve la nota crédito de una venta, si existe.
	GetRefundOf(ctx context.Context, invoiceNo int64) (*entity.SalesInvoice, error)
	List(ctx context.Context, filter SalesInvoiceFilter) ([]*entity.SalesInvoice, error)
	// UpdateSubmission guarda el estado del envío: status, resultado, intentos y
	// los campos del recibo devueltos por la KRA.
	UpdateSubmission(ctx context.Context, invoice *entity.SalesInvoice) error
	// UpdateLines reescribe códigos, impuesto, unidades y montos de las líneas y los totales
	// de la cabecera (reintentos con datos del catálogo).
	UpdateLines(ctx context.Context, invoice *entity.SalesInvoice) error
}
