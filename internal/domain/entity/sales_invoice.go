package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de envío a la KRA.
const (
	SubmissionPending = "pending" // Registrada localmente, envío en curso
	SubmissionSuccess = "success" // Aceptada (resultCd 000); terminal
	SubmissionFailed  = "failed"  // Rechazada o sin respuesta; admite reintento manual
)

// Tipos de factura.
const (
	InvoiceKindSale   = "sale"
	InvoiceKindRefund = "refund"
)

// SalesInvoice factura electrónica enviada (o por enviar) a eTIMS.
type SalesInvoice struct {
	ID                string
	OrderID           string
	Kind              string
	InvoiceNo         int64  // invcNo enviado a la KRA; se conserva en reintentos
	TraderInvoiceNo   string // trdInvcNo, ej. INV-000012 / RFD-000003
	OriginalInvoiceNo int64  // orgInvcNo (solo devoluciones)
	OriginalReceiptNo int64  // rcptNo de la venta original (solo devoluciones)
	RefundReasonCode  string
	CustomerPIN       string
	CustomerName      string
	PaymentType       string // código KRA 01..07
	TaxableAmount     decimal.Decimal
	TaxAmount         decimal.Decimal
	TotalAmount       decimal.Decimal
	Status            string
	ErrorMessage      string
	ResultCode        string
	Attempts          int

	// Respuesta autoritativa de la KRA
	ReceiptNo        int64
	TotalReceiptNo   int64
	InternalData     string
	ReceiptSignature string
	SdcID            string
	MrcNo            string
	SdcDateTime      string

	Items     []SalesInvoiceItem
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SalesInvoiceItem copia de la línea tal como se envió a la KRA.
type SalesInvoiceItem struct {
	ID            string
	InvoiceID     string
	Seq           int
	CatalogID     string // receta (o ingrediente vendido directo) de donde salen los códigos KRA
	ItemCd        string
	ItemClsCd     string
	Name          string
	PkgUnitCd     string
	QtyUnitCd     string
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	SupplyAmount  decimal.Decimal
	TaxType       string
	TaxableAmount decimal.Decimal
	TaxAmount     decimal.Decimal
	TotalAmount   decimal.Decimal
}
