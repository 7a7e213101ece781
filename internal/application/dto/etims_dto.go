package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InitializeDeviceRequest body para POST /api/etims/device/init. Vacíos = valores de configuración.
type InitializeDeviceRequest struct {
	TIN          string `json:"tin" validate:"omitempty,len=11"`
	BhfID        string `json:"bhf_id" validate:"omitempty,len=2,numeric"`
	DeviceSerial string `json:"device_serial" validate:"omitempty,max=100"`
}

// RegistrationResponse resultado de una inicialización (sin cmcKey).
type RegistrationResponse struct {
	ID           string    `json:"id"`
	TIN          string    `json:"tin"`
	BhfID        string    `json:"bhf_id"`
	DeviceSerial string    `json:"device_serial"`
	SdcID        string    `json:"sdc_id,omitempty"`
	MrcNo        string    `json:"mrc_no,omitempty"`
	TaxpayerName string    `json:"taxpayer_name,omitempty"`
	Status       string    `json:"status"`
	ResultCode   string    `json:"result_code"`
	ResultMsg    string    `json:"result_msg,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// SubmitSaleRequest body para POST /api/etims/sales: factura el pedido.
type SubmitSaleRequest struct {
	OrderID      string `json:"order_id" validate:"required,uuid"`
	CustomerPIN  string `json:"customer_pin" validate:"omitempty,len=11"`
	CustomerName string `json:"customer_name" validate:"omitempty,max=200"`
}

// SubmitRefundRequest body para POST /api/etims/invoices/:id/refund.
type SubmitRefundRequest struct {
	ReasonCode string `json:"reason_code" validate:"omitempty,len=2,numeric"`
}

// RegisterItemRequest body para POST /api/etims/items.
type RegisterItemRequest struct {
	Kind      string `json:"kind" validate:"required,oneof=recipe ingredient"`
	ID        string `json:"id" validate:"required,uuid"`
	ItemClsCd string `json:"item_cls_cd" validate:"required,max=10"`
}

// RegisterItemResponse código asignado.
type RegisterItemResponse struct {
	Kind      string `json:"kind"`
	ID        string `json:"id"`
	ItemCd    string `json:"item_cd"`
	ItemClsCd string `json:"item_cls_cd"`
}

// SalesInvoiceResponse factura eTIMS con sus líneas.
type SalesInvoiceResponse struct {
	ID                string                     `json:"id"`
	OrderID           string                     `json:"order_id,omitempty"`
	Kind              string                     `json:"kind"`
	InvoiceNo         int64                      `json:"invoice_no"`
	TraderInvoiceNo   string                     `json:"trader_invoice_no"`
	OriginalInvoiceNo int64                      `json:"original_invoice_no,omitempty"`
	OriginalReceiptNo int64                      `json:"original_receipt_no,omitempty"`
	RefundReasonCode  string                     `json:"refund_reason_code,omitempty"`
	CustomerPIN       string                     `json:"customer_pin,omitempty"`
	CustomerName      string                     `json:"customer_name,omitempty"`
	PaymentType       string                     `json:"payment_type"`
	TaxableAmount     decimal.Decimal            `json:"taxable_amount"`
	TaxAmount         decimal.Decimal            `json:"tax_amount"`
	TotalAmount       decimal.Decimal            `json:"total_amount"`
	Status            string                     `json:"status"`
	ErrorMessage      string                     `json:"error_message,omitempty"`
	ResultCode        string                     `json:"result_code,omitempty"`
	Attempts          int                        `json:"attempts"`
	ReceiptNo         int64                      `json:"receipt_no,omitempty"`
	TotalReceiptNo    int64                      `json:"total_receipt_no,omitempty"`
	InternalData      string                     `json:"internal_data,omitempty"`
	ReceiptSignature  string                     `json:"receipt_signature,omitempty"`
	SdcID             string                     `json:"sdc_id,omitempty"`
	MrcNo             string                     `json:"mrc_no,omitempty"`
	SdcDateTime       string                     `json:"sdc_datetime,omitempty"`
	QRData            string                     `json:"qr_data,omitempty"`
	Items             []SalesInvoiceItemResponse `json:"items,omitempty"`
	CreatedAt         time.Time                  `json:"created_at"`
	UpdatedAt         time.Time                  `json:"updated_at"`
}

// SalesInvoiceItemResponse línea enviada a la KRA.
type SalesInvoiceItemResponse struct {
	Seq           int             `json:"seq"`
	ItemCd        string          `json:"item_cd"`
	ItemClsCd     string          `json:"item_cls_cd"`
	Name          string          `json:"name"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TaxType       string          `json:"tax_type"`
	TaxableAmount decimal.Decimal `json:"taxable_amount"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// InvoiceListRequest filtros de GET /api/etims/invoices.
type InvoiceListRequest struct {
	Kind   string `query:"kind" validate:"omitempty,oneof=sale refund"`
	Status string `query:"status" validate:"omitempty,oneof=pending success failed"`
	PageRequest
}

// ItemClassResponse clasificación de artículos KRA.
type ItemClassResponse struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Level   int    `json:"level"`
	TaxType string `json:"tax_type,omitempty"`
}

// TaxpayerResponse contribuyente consultado por PIN.
type TaxpayerResponse struct {
	PIN      string `json:"pin"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Location string `json:"location,omitempty"`
}

// KRATransactionResponse entrada de la bitácora de envíos.
type KRATransactionResponse struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	ResultCode string    `json:"result_code"`
	ResultMsg  string    `json:"result_msg,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}
