package etims

import (
	"context"
	"time"

	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/internal/domain/repository"
	"github.com/jhoicas/Cafeteria-api/pkg/kra"
)

// TxRunner ejecuta fn en una transacción con los repos de numeración y facturas atados a ella.
// La asignación del número y el insert del registro pendiente van siempre juntos.
type TxRunner interface {
	RunEtims(ctx context.Context, fn func(
		seqRepo repository.SequenceRepository,
		invoiceRepo repository.SalesInvoiceRepository,
		adjustmentRepo repository.StockAdjustmentRepository,
	) error) error
}

// Gateway puerto de salida hacia la API OSCU de la KRA.
// Un error significa falla de transporte; un resultCd distinto de 000 viaja en la respuesta.
type Gateway interface {
	InitDevice(ctx context.Context, req kra.InitRequest) (*kra.Exchange, error)
	SaveSales(ctx context.Context, cred entity.Credential, req kra.SalesRequest) (*kra.Exchange, error)
	InsertStockIO(ctx context.Context, cred entity.Credential, req kra.StockIORequest) (*kra.Exchange, error)
	SaveStockMaster(ctx context.Context, cred entity.Credential, req kra.StockMasterRequest) (*kra.Exchange, error)
	SaveItem(ctx context.Context, cred entity.Credential, req kra.ItemRequest) (*kra.Exchange, error)
	SelectItemClasses(ctx context.Context, cred entity.Credential, req kra.ItemClassRequest) (*kra.Exchange, error)
	SelectCustomer(ctx context.Context, cred entity.Credential, req kra.CustomerRequest) (*kra.Exchange, error)
}

// ReferenceCache caché de catálogos de referencia (clasificaciones, contribuyentes).
type ReferenceCache interface {
	Get(ctx context.Context, key string, v any) (bool, error)
	Set(ctx context.Context, key string, v any) error
}

// ReceiptDocument datos para imprimir un recibo aceptado.
type ReceiptDocument struct {
	Invoice      *entity.SalesInvoice
	TIN          string
	BhfID        string
	TaxpayerName string
	BranchName   string
	QRData       string
}

// ReceiptRenderer genera el PDF del recibo.
type ReceiptRenderer interface {
	RenderReceipt(ctx context.Context, doc ReceiptDocument) ([]byte, error)
}

// Config valores por defecto del dispositivo y base del enlace QR.
type Config struct {
	TIN          string
	BhfID        string
	DeviceSerial string
	ReceiptURL   string
	// PendingRetry antigüedad a partir de la cual una factura pending se considera abandonada
	// y se puede reintentar. Cero = DefaultPendingRetry.
	PendingRetry time.Duration
}

// DefaultPendingRetry debe superar el timeout del cliente KRA.
const DefaultPendingRetry = 2 * time.Minute
