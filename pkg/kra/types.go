package kra

import (
	"encoding/json"
	"fmt"
)

// Response sobre común de todas las respuestas OSCU.
type Response struct {
	ResultCd  string          `json:"resultCd"`
	ResultMsg string          `json:"resultMsg"`
	ResultDt  string          `json:"resultDt"`
	Data      json.RawMessage `json:"data"`
}

// Exchange respuesta decodificada más los cuerpos crudos enviados y recibidos,
// para la bitácora de transacciones.
type Exchange struct {
	Response    Response
	RawRequest  []byte
	RawResponse []byte
}

// OK indica si la KRA aceptó la operación.
func (r *Response) OK() bool { return r.ResultCd == ResultCodeSuccess }

// DecodeData decodifica data en v. data nulo o ausente deja v sin cambios.
func (r *Response) DecodeData(v any) error {
	if len(r.Data) == 0 || string(r.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("kra: data inválido: %w", err)
	}
	return nil
}

// =============================================================================
// Inicialización del dispositivo (/selectInitOsdcInfo)
// =============================================================================

type InitRequest struct {
	Tin      string `json:"tin"`
	BhfID    string `json:"bhfId"`
	DvcSrlNo string `json:"dvcSrlNo"`
}

type InitData struct {
	Info InitInfo `json:"info"`
}

type InitInfo struct {
	Tin     string `json:"tin"`
	TaxprNm string `json:"taxprNm"`
	BhfID   string `json:"bhfId"`
	BhfNm   string `json:"bhfNm"`
	DvcID   string `json:"dvcId"`
	SdcID   string `json:"sdcId"`
	MrcNo   string `json:"mrcNo"`
	CmcKey  string `json:"cmcKey"`
}

// =============================================================================
// Ventas y notas crédito (/saveTrnsSalesOsdc)
// =============================================================================

// SalesRequest cuerpo de saveTrnsSalesOsdc. Los montos van como número JSON.
type SalesRequest struct {
	Tin          string      `json:"tin"`
	BhfID        string      `json:"bhfId"`
	TrdInvcNo    string      `json:"trdInvcNo"`
	InvcNo       int64       `json:"invcNo"`
	OrgInvcNo    int64       `json:"orgInvcNo"`
	CustTin      string      `json:"custTin,omitempty"`
	CustNm       string      `json:"custNm,omitempty"`
	SalesTyCd    string      `json:"salesTyCd"`
	RcptTyCd     string      `json:"rcptTyCd"`
	PmtTyCd      string      `json:"pmtTyCd"`
	SalesSttsCd  string      `json:"salesSttsCd"`
	CfmDt        string      `json:"cfmDt"`
	SalesDt      string      `json:"salesDt"`
	StockRlsDt   string      `json:"stockRlsDt,omitempty"`
	CnclReqDt    string      `json:"cnclReqDt,omitempty"`
	CnclDt       string      `json:"cnclDt,omitempty"`
	RfdDt        string      `json:"rfdDt,omitempty"`
	RfdRsnCd     string      `json:"rfdRsnCd,omitempty"`
	TotItemCnt   int         `json:"totItemCnt"`
	TaxblAmtA    float64     `json:"taxblAmtA"`
	TaxblAmtB    float64     `json:"taxblAmtB"`
	TaxblAmtC    float64     `json:"taxblAmtC"`
	TaxblAmtD    float64     `json:"taxblAmtD"`
	TaxblAmtE    float64     `json:"taxblAmtE"`
	TaxRtA       float64     `json:"taxRtA"`
	TaxRtB       float64     `json:"taxRtB"`
	TaxRtC       float64     `json:"taxRtC"`
	TaxRtD       float64     `json:"taxRtD"`
	TaxRtE       float64     `json:"taxRtE"`
	TaxAmtA      float64     `json:"taxAmtA"`
	TaxAmtB      float64     `json:"taxAmtB"`
	TaxAmtC      float64     `json:"taxAmtC"`
	TaxAmtD      float64     `json:"taxAmtD"`
	TaxAmtE      float64     `json:"taxAmtE"`
	TotTaxblAmt  float64     `json:"totTaxblAmt"`
	TotTaxAmt    float64     `json:"totTaxAmt"`
	TotAmt       float64     `json:"totAmt"`
	PrchrAcptcYn string      `json:"prchrAcptcYn"`
	Remark       string      `json:"remark,omitempty"`
	RegrID       string      `json:"regrId"`
	RegrNm       string      `json:"regrNm"`
	ModrID       string      `json:"modrId"`
	ModrNm       string      `json:"modrNm"`
	Receipt      Receipt     `json:"receipt"`
	ItemList     []SalesItem `json:"itemList"`
}

// Receipt datos impresos en el recibo.
type Receipt struct {
	CustTin      string `json:"custTin,omitempty"`
	CustMblNo    string `json:"custMblNo,omitempty"`
	RptNo        int64  `json:"rptNo,omitempty"`
	TrdeNm       string `json:"trdeNm,omitempty"`
	Adrs         string `json:"adrs,omitempty"`
	TopMsg       string `json:"topMsg,omitempty"`
	BtmMsg       string `json:"btmMsg,omitempty"`
	PrchrAcptcYn string `json:"prchrAcptcYn"`
}

// SalesItem línea de venta.
type SalesItem struct {
	ItemSeq   int     `json:"itemSeq"`
	ItemCd    string  `json:"itemCd"`
	ItemClsCd string  `json:"itemClsCd"`
	ItemNm    string  `json:"itemNm"`
	Bcd       string  `json:"bcd,omitempty"`
	PkgUnitCd string  `json:"pkgUnitCd"`
	Pkg       float64 `json:"pkg"`
	QtyUnitCd string  `json:"qtyUnitCd"`
	Qty       float64 `json:"qty"`
	Prc       float64 `json:"prc"`
	SplyAmt   float64 `json:"splyAmt"`
	DcRt      float64 `json:"dcRt"`
	DcAmt     float64 `json:"dcAmt"`
	IsrccCd   string  `json:"isrccCd,omitempty"`
	IsrccNm   string  `json:"isrccNm,omitempty"`
	IsrcRt    float64 `json:"isrcRt,omitempty"`
	IsrcAmt   float64 `json:"isrcAmt,omitempty"`
	TaxTyCd   string  `json:"taxTyCd"`
	TaxblAmt  float64 `json:"taxblAmt"`
	TaxAmt    float64 `json:"taxAmt"`
	TotAmt    float64 `json:"totAmt"`
}

// SalesReceipt data de una venta aceptada: es lo que se imprime y firma el recibo.
type SalesReceipt struct {
	RcptNo           int64  `json:"rcptNo"`
	IntrlData        string `json:"intrlData"`
	RcptSign         string `json:"rcptSign"`
	TotRcptNo        int64  `json:"totRcptNo"`
	VsdcRcptPbctDate string `json:"vsdcRcptPbctDate"`
	SdcID            string `json:"sdcId"`
	MrcNo            string `json:"mrcNo"`
}

// =============================================================================
// Stock (/insertStockIO, /saveStockMaster)
// =============================================================================

type StockIORequest struct {
	Tin         string        `json:"tin"`
	BhfID       string        `json:"bhfId"`
	SarNo       int64         `json:"sarNo"`
	OrgSarNo    int64         `json:"orgSarNo"`
	RegTyCd     string        `json:"regTyCd"`
	CustTin     string        `json:"custTin,omitempty"`
	CustNm      string        `json:"custNm,omitempty"`
	CustBhfID   string        `json:"custBhfId,omitempty"`
	SarTyCd     string        `json:"sarTyCd"`
	OcrnDt      string        `json:"ocrnDt"`
	TotItemCnt  int           `json:"totItemCnt"`
	TotTaxblAmt float64       `json:"totTaxblAmt"`
	TotTaxAmt   float64       `json:"totTaxAmt"`
	TotAmt      float64       `json:"totAmt"`
	Remark      string        `json:"remark,omitempty"`
	RegrID      string        `json:"regrId"`
	RegrNm      string        `json:"regrNm"`
	ModrID      string        `json:"modrId"`
	ModrNm      string        `json:"modrNm"`
	ItemList    []StockIOItem `json:"itemList"`
}

type StockIOItem struct {
	ItemSeq    int     `json:"itemSeq"`
	ItemCd     string  `json:"itemCd"`
	ItemClsCd  string  `json:"itemClsCd"`
	ItemNm     string  `json:"itemNm"`
	Bcd        string  `json:"bcd,omitempty"`
	PkgUnitCd  string  `json:"pkgUnitCd"`
	Pkg        float64 `json:"pkg"`
	QtyUnitCd  string  `json:"qtyUnitCd"`
	Qty        float64 `json:"qty"`
	ItemExprDt string  `json:"itemExprDt,omitempty"`
	Prc        float64 `json:"prc"`
	SplyAmt    float64 `json:"splyAmt"`
	TotDcAmt   float64 `json:"totDcAmt"`
	TaxblAmt   float64 `json:"taxblAmt"`
	TaxTyCd    string  `json:"taxTyCd"`
	TaxAmt     float64 `json:"taxAmt"`
	TotAmt     float64 `json:"totAmt"`
}

type StockMasterRequest struct {
	Tin    string  `json:"tin"`
	BhfID  string  `json:"bhfId"`
	ItemCd string  `json:"itemCd"`
	RsdQty float64 `json:"rsdQty"`
	RegrID string  `json:"regrId"`
	RegrNm string  `json:"regrNm"`
	ModrID string  `json:"modrId"`
	ModrNm string  `json:"modrNm"`
}

// =============================================================================
// Artículos (/saveItem) y catálogos de referencia
// =============================================================================

type ItemRequest struct {
	Tin         string  `json:"tin"`
	BhfID       string  `json:"bhfId"`
	ItemCd      string  `json:"itemCd"`
	ItemClsCd   string  `json:"itemClsCd"`
	ItemTyCd    string  `json:"itemTyCd"`
	ItemNm      string  `json:"itemNm"`
	ItemStdNm   string  `json:"itemStdNm,omitempty"`
	OrgnNatCd   string  `json:"orgnNatCd"`
	PkgUnitCd   string  `json:"pkgUnitCd"`
	QtyUnitCd   string  `json:"qtyUnitCd"`
	TaxTyCd     string  `json:"taxTyCd"`
	Bcd         string  `json:"bcd,omitempty"`
	DftPrc      float64 `json:"dftPrc"`
	IsrcAplcbYn string  `json:"isrcAplcbYn"`
	UseYn       string  `json:"useYn"`
	RegrID      string  `json:"regrId"`
	RegrNm      string  `json:"regrNm"`
	ModrID      string  `json:"modrId"`
	ModrNm      string  `json:"modrNm"`
}

// ItemClassRequest lastReqDt filtra cambios desde esa fecha (yyyyMMddHHmmss).
type ItemClassRequest struct {
	Tin       string `json:"tin"`
	BhfID     string `json:"bhfId"`
	LastReqDt string `json:"lastReqDt"`
}

type ItemClassData struct {
	ItemClsList []ItemClass `json:"itemClsList"`
}

type ItemClass struct {
	ItemClsCd  string `json:"itemClsCd"`
	ItemClsNm  string `json:"itemClsNm"`
	ItemClsLvl int    `json:"itemClsLvl"`
	TaxTyCd    string `json:"taxTyCd"`
	MjrTgYn    string `json:"mjrTgYn"`
	UseYn      string `json:"useYn"`
}

type CustomerRequest struct {
	Tin      string `json:"tin"`
	BhfID    string `json:"bhfId"`
	CustmTin string `json:"custmTin"`
}

type CustomerData struct {
	CustList []TaxpayerInfo `json:"custList"`
}

// TaxpayerInfo contribuyente devuelto por selectCustomer.
type TaxpayerInfo struct {
	Tin         string `json:"tin"`
	TaxprNm     string `json:"taxprNm"`
	TaxprSttsCd string `json:"taxprSttsCd"`
	PrvncNm     string `json:"prvncNm"`
	DstrtNm     string `json:"dstrtNm"`
	SctrNm      string `json:"sctrNm"`
	LocDesc     string `json:"locDesc"`
}
