// Package kra contiene los catálogos de códigos y validaciones de la especificación
// OSCU/VSCU de eTIMS (Kenya Revenue Authority) usados por el sistema.
package kra

import "strings"

// ResultCodeSuccess es el resultCd que la KRA devuelve cuando la operación fue aceptada.
const ResultCodeSuccess = "000"

// ResultCodeAlreadyInitialized lo devuelve selectInitOsdcInfo cuando el dispositivo ya fue
// inicializado; la respuesta trae igualmente la info del dispositivo.
const ResultCodeAlreadyInitialized = "902"

// ResultCodeNoData lo devuelven las consultas select* cuando no hay resultados.
const ResultCodeNoData = "001"

// =============================================================================
// Tipos de impuesto (Tax Type, código 04)
// =============================================================================

const (
	TaxTypeA = "A" // Exento
	TaxTypeB = "B" // IVA general 16%
	TaxTypeC = "C" // Tasa cero (exportaciones)
	TaxTypeD = "D" // No sujeto a IVA
	TaxTypeE = "E" // IVA 8%
)

// TaxTypes en el orden en que aparecen en los campos taxblAmtA..E.
var TaxTypes = []string{TaxTypeA, TaxTypeB, TaxTypeC, TaxTypeD, TaxTypeE}

// TaxRates porcentaje por tipo de impuesto.
var TaxRates = map[string]int64{
	TaxTypeA: 0,
	TaxTypeB: 16,
	TaxTypeC: 0,
	TaxTypeD: 0,
	TaxTypeE: 8,
}

// ValidTaxType indica si el código de impuesto existe.
func ValidTaxType(code string) bool {
	_, ok := TaxRates[code]
	return ok
}

// =============================================================================
// Tipos de pago (Payment Type, código 07)
// =============================================================================

const (
	PaymentCash        = "01" // CASH
	PaymentCredit      = "02" // CREDIT
	PaymentCashCredit  = "03" // CASH/CREDIT
	PaymentBankCheck   = "04" // BANK CHECK
	PaymentCard        = "05" // DEBIT&CREDIT CARD
	PaymentMobileMoney = "06" // MOBILE MONEY
	PaymentOther       = "07" // OTHER
)

// paymentAliases traduce el medio de pago local (POS) al código KRA.
var paymentAliases = map[string]string{
	"cash":         PaymentCash,
	"credit":       PaymentCredit,
	"cash_credit":  PaymentCashCredit,
	"cheque":       PaymentBankCheck,
	"check":        PaymentBankCheck,
	"card":         PaymentCard,
	"mpesa":        PaymentMobileMoney,
	"m-pesa":       PaymentMobileMoney,
	"mobile_money": PaymentMobileMoney,
	"other":        PaymentOther,
}

// PaymentTypeCode devuelve el código KRA para un medio de pago local.
// Acepta también el código KRA directamente ("01".."07").
func PaymentTypeCode(method string) (string, bool) {
	m := strings.ToLower(strings.TrimSpace(method))
	if code, ok := paymentAliases[m]; ok {
		return code, true
	}
	switch m {
	case PaymentCash, PaymentCredit, PaymentCashCredit, PaymentBankCheck, PaymentCard, PaymentMobileMoney, PaymentOther:
		return m, true
	}
	return "", false
}

// =============================================================================
// Recibos y ventas
// =============================================================================

const (
	ReceiptTypeSale   = "S" // Venta
	ReceiptTypeRefund = "R" // Nota crédito (devolución)

	SalesTypeNormal = "N"

	SalesStatusApproved = "02"

	RefundReasonDefault = "06" // Refund
)

// RefundReasons motivos de devolución aceptados (rfdRsnCd, código 32).
var RefundReasons = map[string]string{
	"01": "Missing Quantity",
	"02": "Missing Item",
	"03": "Damaged",
	"04": "Wasted",
	"05": "Raw Material Shortage",
	"06": "Refund",
	"07": "Wrong Customer PIN",
	"08": "Wrong Customer name",
	"09": "Wrong Amount/price",
	"10": "Wrong Quantity",
	"11": "Wrong item(s)",
	"12": "Wrong tax type",
	"13": "Other reason",
}

// =============================================================================
// Movimientos de stock (sarTyCd, código 12)
// =============================================================================

const (
	StockInImport     = "01"
	StockInPurchase   = "02"
	StockInReturn     = "03"
	StockInMovement   = "04"
	StockInProcessing = "05"
	StockInAdjustment = "06"

	StockOutSale       = "11"
	StockOutReturn     = "12"
	StockOutMovement   = "13"
	StockOutProcessing = "14"
	StockOutDiscarding = "15"
	StockOutAdjustment = "16"
)

// StockIncoming indica si el tipo de movimiento suma stock.
func StockIncoming(sarTyCd string) bool {
	return sarTyCd >= "01" && sarTyCd <= "06"
}

// ValidStockType indica si el código de movimiento existe.
func ValidStockType(sarTyCd string) bool {
	return (sarTyCd >= "01" && sarTyCd <= "06") || (sarTyCd >= "11" && sarTyCd <= "16")
}

// RegTypeAutomatic regTyCd para movimientos generados por el sistema.
const RegTypeAutomatic = "A"

// =============================================================================
// Tipos de producto y unidades (códigos 24, 17 y 10)
// =============================================================================

const (
	ProductTypeRawMaterial = "1"
	ProductTypeFinished    = "2"
	ProductTypeService     = "3"
)

const (
	PackagingNet    = "NT" // Net (sin empaque)
	PackagingBag    = "BG"
	PackagingBox    = "BX"
	PackagingCan    = "CA"
	PackagingBottle = "BO"
)

const (
	QtyUnitPiece = "U"  // Pieces/item
	QtyUnitKg    = "KG" // Kilogramo
	QtyUnitGram  = "GRM"
	QtyUnitLitre = "L"
	QtyUnitMl    = "ML"
	QtyUnitPack  = "PA"
)

// ValidPackagingUnits unidades de empaque aceptadas por el sistema.
var ValidPackagingUnits = map[string]bool{
	PackagingNet: true, PackagingBag: true, PackagingBox: true, PackagingCan: true, PackagingBottle: true,
}

// ValidQuantityUnits unidades de cantidad aceptadas por el sistema.
var ValidQuantityUnits = map[string]bool{
	QtyUnitPiece: true, QtyUnitKg: true, QtyUnitGram: true, QtyUnitLitre: true, QtyUnitMl: true, QtyUnitPack: true,
}

// =============================================================================
// Formatos de fecha de la API
// =============================================================================

const (
	DateLayout     = "20060102"       // salesDt, ocrnDt
	DateTimeLayout = "20060102150405" // cfmDt, resultDt, vsdcRcptPbctDate
)

// Endpoints OSCU usados.
const (
	PathInitDevice      = "/selectInitOsdcInfo"
	PathItemClassList   = "/selectItemClsList"
	PathCustomer        = "/selectCustomer"
	PathSaveItem        = "/saveItem"
	PathSaveSales       = "/saveTrnsSalesOsdc"
	PathInsertStockIO   = "/insertStockIO"
	PathSaveStockMaster = "/saveStockMaster"
)

// ReceiptQRData arma el enlace de verificación impreso como QR: base + tin + bhfId + rcptSign.
func ReceiptQRData(baseURL, tin, bhfID, rcptSign string) string {
	return baseURL + tin + bhfID + rcptSign
}
