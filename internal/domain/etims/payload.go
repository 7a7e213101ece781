package etims

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/pkg/kra"
)

// Operator usuario que registra la operación (regrId/regrNm y modrId/modrNm).
type Operator struct {
	ID   string
	Name string
}

func (o Operator) idOrSystem() (string, string) {
	if o.ID == "" {
		return "system", "system"
	}
	name := o.Name
	if name == "" {
		name = o.ID
	}
	return o.ID, name
}

func f(d decimal.Decimal) float64 { return d.InexactFloat64() }

// SalesPayload arma el cuerpo de saveTrnsSalesOsdc para una venta o nota crédito.
// No valida: llamar antes a ValidateInvoice.
func SalesPayload(inv *entity.SalesInvoice, cred entity.Credential, op Operator, now time.Time) kra.SalesRequest {
	s := Summarize(inv.Items)
	regID, regNm := op.idOrSystem()

	req := kra.SalesRequest{
		Tin:          cred.TIN,
		BhfID:        cred.BhfID,
		TrdInvcNo:    inv.TraderInvoiceNo,
		InvcNo:       inv.InvoiceNo,
		OrgInvcNo:    inv.OriginalInvoiceNo,
		CustTin:      inv.CustomerPIN,
		CustNm:       inv.CustomerName,
		SalesTyCd:    kra.SalesTypeNormal,
		RcptTyCd:     kra.ReceiptTypeSale,
		PmtTyCd:      inv.PaymentType,
		SalesSttsCd:  kra.SalesStatusApproved,
		CfmDt:        now.Format(kra.DateTimeLayout),
		SalesDt:      now.Format(kra.DateLayout),
		StockRlsDt:   now.Format(kra.DateTimeLayout),
		TotItemCnt:   s.TotalItemCount,
		TaxblAmtA:    f(s.Taxable[kra.TaxTypeA]),
		TaxblAmtB:    f(s.Taxable[kra.TaxTypeB]),
		TaxblAmtC:    f(s.Taxable[kra.TaxTypeC]),
		TaxblAmtD:    f(s.Taxable[kra.TaxTypeD]),
		TaxblAmtE:    f(s.Taxable[kra.TaxTypeE]),
		TaxRtA:       float64(kra.TaxRates[kra.TaxTypeA]),
		TaxRtB:       float64(kra.TaxRates[kra.TaxTypeB]),
		TaxRtC:       float64(kra.TaxRates[kra.TaxTypeC]),
		TaxRtD:       float64(kra.TaxRates[kra.TaxTypeD]),
		TaxRtE:       float64(kra.TaxRates[kra.TaxTypeE]),
		TaxAmtA:      f(s.Tax[kra.TaxTypeA]),
		TaxAmtB:      f(s.Tax[kra.TaxTypeB]),
		TaxAmtC:      f(s.Tax[kra.TaxTypeC]),
		TaxAmtD:      f(s.Tax[kra.TaxTypeD]),
		TaxAmtE:      f(s.Tax[kra.TaxTypeE]),
		TotTaxblAmt:  f(s.TotalTaxable),
		TotTaxAmt:    f(s.TotalTax),
		TotAmt:       f(s.TotalAmount),
		PrchrAcptcYn: "N",
		RegrID:       regID,
		RegrNm:       regNm,
		ModrID:       regID,
		ModrNm:       regNm,
		Receipt: kra.Receipt{
			CustTin:      inv.CustomerPIN,
			PrchrAcptcYn: "N",
		},
		ItemList: make([]kra.SalesItem, 0, len(inv.Items)),
	}

	if inv.Kind == entity.InvoiceKindRefund {
		req.RcptTyCd = kra.ReceiptTypeRefund
		req.RfdDt = now.Format(kra.DateTimeLayout)
		req.RfdRsnCd = inv.RefundReasonCode
		if req.RfdRsnCd == "" {
			req.RfdRsnCd = kra.RefundReasonDefault
		}
		req.Remark = fmt.Sprintf("Refund of invoice %d receipt %d", inv.OriginalInvoiceNo, inv.OriginalReceiptNo)
	}

	for _, it := range inv.Items {
		req.ItemList = append(req.ItemList, kra.SalesItem{
			ItemSeq:   it.Seq,
			ItemCd:    it.ItemCd,
			ItemClsCd: it.ItemClsCd,
			ItemNm:    it.Name,
			PkgUnitCd: it.PkgUnitCd,
			Pkg:       f(it.Quantity),
			QtyUnitCd: it.QtyUnitCd,
			Qty:       f(it.Quantity),
			Prc:       f(it.UnitPrice),
			SplyAmt:   f(it.SupplyAmount),
			TaxTyCd:   it.TaxType,
			TaxblAmt:  f(it.TaxableAmount),
			TaxAmt:    f(it.TaxAmount),
			TotAmt:    f(it.TotalAmount),
		})
	}
	return req
}

// StockIOPayload arma insertStockIO para un movimiento de un solo ingrediente.
// Los montos se calculan con el costo unitario y el tipo de impuesto del ingrediente.
func StockIOPayload(adj *entity.StockAdjustment, ing *entity.Ingredient, sarNo int64, cred entity.Credential, op Operator) kra.StockIORequest {
	line := entity.SalesInvoiceItem{
		TaxType:   ing.TaxType,
		Quantity:  adj.Quantity,
		UnitPrice: adj.UnitCost,
	}
	ComputeLine(&line)
	regID, regNm := op.idOrSystem()
	occurred := adj.CreatedAt
	if occurred.IsZero() {
		occurred = time.Now()
	}
	return kra.StockIORequest{
		Tin:         cred.TIN,
		BhfID:       cred.BhfID,
		SarNo:       sarNo,
		OrgSarNo:    0,
		RegTyCd:     kra.RegTypeAutomatic,
		SarTyCd:     adj.SarTyCd,
		OcrnDt:      occurred.Format(kra.DateLayout),
		TotItemCnt:  1,
		TotTaxblAmt: f(line.TaxableAmount),
		TotTaxAmt:   f(line.TaxAmount),
		TotAmt:      f(line.TotalAmount),
		Remark:      adj.Reason,
		RegrID:      regID,
		RegrNm:      regNm,
		ModrID:      regID,
		ModrNm:      regNm,
		ItemList: []kra.StockIOItem{{
			ItemSeq:   1,
			ItemCd:    ing.ItemCd,
			ItemClsCd: ing.ItemClsCd,
			ItemNm:    ing.Name,
			PkgUnitCd: ing.PkgUnitCd,
			Pkg:       f(adj.Quantity),
			QtyUnitCd: ing.QtyUnitCd,
			Qty:       f(adj.Quantity),
			Prc:       f(adj.UnitCost),
			SplyAmt:   f(line.SupplyAmount),
			TaxblAmt:  f(line.TaxableAmount),
			TaxTyCd:   ing.TaxType,
			TaxAmt:    f(line.TaxAmount),
			TotAmt:    f(line.TotalAmount),
		}},
	}
}

// StockMasterPayload informa el saldo resultante del ingrediente.
func StockMasterPayload(ing *entity.Ingredient, cred entity.Credential, op Operator) kra.StockMasterRequest {
	regID, regNm := op.idOrSystem()
	return kra.StockMasterRequest{
		Tin:    cred.TIN,
		BhfID:  cred.BhfID,
		ItemCd: ing.ItemCd,
		RsdQty: f(ing.StockQty),
		RegrID: regID,
		RegrNm: regNm,
		ModrID: regID,
		ModrNm: regNm,
	}
}

// ItemPayload arma saveItem para un artículo ya codificado.
func ItemPayload(item entity.TaxItem, productType, name string, price decimal.Decimal, cred entity.Credential, op Operator) kra.ItemRequest {
	regID, regNm := op.idOrSystem()
	return kra.ItemRequest{
		Tin:         cred.TIN,
		BhfID:       cred.BhfID,
		ItemCd:      item.ItemCd,
		ItemClsCd:   item.ItemClsCd,
		ItemTyCd:    productType,
		ItemNm:      name,
		OrgnNatCd:   kra.CountryOfOrigin,
		PkgUnitCd:   item.PkgUnitCd,
		QtyUnitCd:   item.QtyUnitCd,
		TaxTyCd:     item.TaxType,
		DftPrc:      f(price),
		IsrcAplcbYn: "N",
		UseYn:       "Y",
		RegrID:      regID,
		RegrNm:      regNm,
		ModrID:      regID,
		ModrNm:      regNm,
	}
}
