package etims_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
	"github.com/jhoicas/Cafeteria-api/internal/application/etims"
	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/internal/testutil/memstore"
	"github.com/jhoicas/Cafeteria-api/pkg/kra"
)

const (
	orderID      = "7a1d2c8e-0000-4000-8000-000000000001"
	coffeeID     = "7a1d2c8e-0000-4000-8000-0000000000c1"
	waterID      = "7a1d2c8e-0000-4000-8000-0000000000c2"
	cakeID       = "7a1d2c8e-0000-4000-8000-0000000000c3"
	flourID      = "7a1d2c8e-0000-4000-8000-0000000000f1"
	adjustmentID = "7a1d2c8e-0000-4000-8000-0000000000a1"
	cashierID    = "7a1d2c8e-0000-4000-8000-0000000000u1"
)

var fixedNow = time.Date(2024, 3, 5, 14, 30, 15, 0, time.UTC)

type mockGateway struct {
	mock.Mock
}

func exchangeOf(args mock.Arguments) (*kra.Exchange, error) {
	ex, _ := args.Get(0).(*kra.Exchange)
	return ex, args.Error(1)
}

func (m *mockGateway) InitDevice(ctx context.Context, req kra.InitRequest) (*kra.Exchange, error) {
	return exchangeOf(m.Called(ctx, req))
}

func (m *mockGateway) SaveSales(ctx context.Context, cred entity.Credential, req kra.SalesRequest) (*kra.Exchange, error) {
	return exchangeOf(m.Called(ctx, cred, req))
}

func (m *mockGateway) InsertStockIO(ctx context.Context, cred entity.Credential, req kra.StockIORequest) (*kra.Exchange, error) {
	return exchangeOf(m.Called(ctx, cred, req))
}

func (m *mockGateway) SaveStockMaster(ctx context.Context, cred entity.Credential, req kra.StockMasterRequest) (*kra.Exchange, error) {
	return exchangeOf(m.Called(ctx, cred, req))
}

func (m *mockGateway) SaveItem(ctx context.Context, cred entity.Credential, req kra.ItemRequest) (*kra.Exchange, error) {
	return exchangeOf(m.Called(ctx, cred, req))
}

func (m *mockGateway) SelectItemClasses(ctx context.Context, cred entity.Credential, req kra.ItemClassRequest) (*kra.Exchange, error) {
	return exchangeOf(m.Called(ctx, cred, req))
}

func (m *mockGateway) SelectCustomer(ctx context.Context, cred entity.Credential, req kra.CustomerRequest) (*kra.Exchange, error) {
	return exchangeOf(m.Called(ctx, cred, req))
}

// memCache caché en memoria con la forma de RedisCache.
type memCache struct {
	data map[string][]byte
}

func (c *memCache) Get(_ context.Context, key string, v any) (bool, error) {
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, v)
}

func (c *memCache) Set(_ context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func exchange(t *testing.T, resultCd, msg string, data any) *kra.Exchange {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	return &kra.Exchange{Response: kra.Response{ResultCd: resultCd, ResultMsg: msg, Data: raw}}
}

type fixture struct {
	uc    *etims.UseCase
	store *memstore.Store
	gw    *mockGateway
	cache *memCache
}

func newFixture(t *testing.T, configured bool) *fixture {
	t.Helper()
	store := memstore.New()
	gw := &mockGateway{}
	cache := &memCache{data: map[string][]byte{}}
	uc := etims.NewUseCase(etims.Deps{
		Tx:            store.Tx(),
		Invoices:      store.InvoiceRepo(),
		Orders:        store.OrderRepo(),
		Customers:     store.CustomerRepo(),
		Recipes:       store.RecipeRepo(),
		Ingredients:   store.IngredientRepo(),
		Adjustments:   store.AdjustmentRepo(),
		Registrations: store.RegistrationRepo(),
		Transactions:  store.TransactionRepo(),
		Sequences:     store.SequenceRepo(),
		Gateway:       gw,
		Cache:         cache,
		Config:        etims.Config{TIN: "P051234567Q", BhfID: "00", DeviceSerial: "dvc-01", ReceiptURL: "https://kra.test/receipt?Data="},
	}).WithClock(func() time.Time { return fixedNow })

	if configured {
		store.Registrations = append(store.Registrations, entity.KRARegistration{
			ID: "reg-1", TIN: "P051234567Q", BhfID: "00", CmcKey: "cmc-key", Status: entity.RegistrationSuccess,
			TaxpayerName: "Cafetería Central",
		})
	}

	coded := func(code string, tax string) entity.TaxItem {
		return entity.TaxItem{ItemCd: code, ItemClsCd: "50202300", TaxType: tax, PkgUnitCd: kra.PackagingNet, QtyUnitCd: kra.QtyUnitPiece}
	}
	store.Recipes[coffeeID] = entity.Recipe{ID: coffeeID, Name: "Café", Price: decimal.NewFromInt(150), Active: true, TaxItem: coded("KE2NTU0000001", kra.TaxTypeB)}
	store.Recipes[waterID] = entity.Recipe{ID: waterID, Name: "Agua", Price: decimal.NewFromInt(60), Active: true, TaxItem: coded("KE2NTU0000002", kra.TaxTypeA)}
	store.Recipes[cakeID] = entity.Recipe{ID: cakeID, Name: "Pastel", Price: decimal.NewFromInt(200), Active: true, TaxItem: entity.TaxItem{TaxType: kra.TaxTypeB}}
	return &fixture{uc: uc, store: store, gw: gw, cache: cache}
}

func (f *fixture) order(items ...entity.OrderItem) {
	f.store.Orders[orderID] = entity.Order{
		ID: orderID, Number: "ORD-000001", Status: entity.OrderStatusServed, PaymentMethod: "cash", Items: items,
	}
}

func line(recipeID, name string, qty, price int64) entity.OrderItem {
	return entity.OrderItem{RecipeID: recipeID, Name: name, Quantity: decimal.NewFromInt(qty), UnitPrice: decimal.NewFromInt(price)}
}

func acceptedReceipt() kra.SalesReceipt {
	return kra.SalesReceipt{
		RcptNo: 501, TotRcptNo: 9001, IntrlData: "INTRL-XYZ", RcptSign: "ABC123",
		VsdcRcptPbctDate: "20240305143016", SdcID: "SDC-01", MrcNo: "MRC-01",
	}
}

// failedSale guarda una venta failed con número 7; la línea del pastel queda sin código.
func (f *fixture) failedSale(t *testing.T) *entity.SalesInvoice {
	t.Helper()
	inv := entity.SalesInvoice{
		ID: "inv-failed", OrderID: orderID, Kind: entity.InvoiceKindSale, InvoiceNo: 7, TraderInvoiceNo: "INV-000007",
		PaymentType: kra.PaymentCash, Status: entity.SubmissionFailed, Attempts: 1, ErrorMessage: "timeout",
		TaxableAmount: decimal.NewFromInt(200), TaxAmount: decimal.RequireFromString("27.59"), TotalAmount: decimal.NewFromInt(200),
		Items: []entity.SalesInvoiceItem{{
			ID: "item-1", InvoiceID: "inv-failed", Seq: 1, CatalogID: cakeID, Name: "Pastel",
			PkgUnitCd: kra.PackagingNet, QtyUnitCd: kra.QtyUnitPiece, TaxType: kra.TaxTypeB,
			Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(200), SupplyAmount: decimal.NewFromInt(200),
			TaxableAmount: decimal.NewFromInt(200), TaxAmount: decimal.RequireFromString("27.59"), TotalAmount: decimal.NewFromInt(200),
		}},
	}
	f.store.Invoices[inv.ID] = inv
	return &inv
}

func TestSubmitSale_GuardaRespuestaDeLaKRA(t *testing.T) {
	f := newFixture(t, true)
	f.order(line(coffeeID, "Café", 2, 150), line(waterID, "Agua", 1, 60))

	f.gw.On("SaveSales", mock.Anything, mock.Anything, mock.MatchedBy(func(req kra.SalesRequest) bool {
		return req.InvcNo == 1 && req.TrdInvcNo == "INV-000001" && req.RcptTyCd == kra.ReceiptTypeSale &&
			req.TotAmt == 360 && req.TaxAmtB == 41.38 && len(req.ItemList) == 2
	})).Return(exchange(t, kra.ResultCodeSuccess, "It is succeeded", acceptedReceipt()), nil).Once()

	out, err := f.uc.SubmitSale(context.Background(), cashierID, dto.SubmitSaleRequest{OrderID: orderID})
	require.NoError(t, err)
	f.gw.AssertExpectations(t)

	assert.Equal(t, entity.SubmissionSuccess, out.Status)
	assert.Equal(t, "https://kra.test/receipt?Data=P051234567Q00ABC123", out.QRData)

	stored := f.store.Invoice(out.ID)
	require.NotNil(t, stored)
	assert.Equal(t, entity.SubmissionSuccess, stored.Status)
	assert.Equal(t, int64(501), stored.ReceiptNo)
	assert.Equal(t, int64(9001), stored.TotalReceiptNo)
	assert.Equal(t, "INTRL-XYZ", stored.InternalData)
	assert.Equal(t, "ABC123", stored.ReceiptSignature)
	assert.Equal(t, "SDC-01", stored.SdcID)
	assert.Equal(t, "MRC-01", stored.MrcNo)
	assert.Equal(t, "20240305143016", stored.SdcDateTime)
	assert.Equal(t, 1, stored.Attempts)
	assert.True(t, stored.TotalAmount.Equal(decimal.NewFromInt(360)))
	assert.True(t, stored.TaxAmount.Equal(decimal.RequireFromString("41.38")))
	assert.Len(t, stored.Items, 2)
}

func TestSubmitSale_SinCredencialNoLlamaALaKRA(t *testing.T) {
	f := newFixture(t, false)
	f.order(line(coffeeID, "Café", 1, 150))

	_, err := f.uc.SubmitSale(context.Background(), cashierID, dto.SubmitSaleRequest{OrderID: orderID})
	require.ErrorIs(t, err, domain.ErrNotConfigured)
	f.gw.AssertNotCalled(t, "SaveSales", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, 0, f.store.InvoiceCount())
}

func TestSubmitSale_ArticuloSinCodigo(t *testing.T) {
	f := newFixture(t, true)
	f.order(line(coffeeID, "Café", 1, 150), line(cakeID, "Pastel", 1, 200))

	_, err := f.uc.SubmitSale(context.Background(), cashierID, dto.SubmitSaleRequest{OrderID: orderID})
	require.ErrorIs(t, err, domain.ErrUnregisteredItem)
	assert.Contains(t, err.Error(), "Pastel")
	f.gw.AssertNotCalled(t, "SaveSales", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, 0, f.store.InvoiceCount())
	assert.Zero(t, f.store.Sequences["sale"])
}

func TestSubmitSale_RechazoQuedaFailed(t *testing.T) {
	f := newFixture(t, true)
	f.order(line(coffeeID, "Café", 1, 150))
	f.gw.On("SaveSales", mock.Anything, mock.Anything, mock.Anything).
		Return(exchange(t, "910", "Request parameter error", nil), nil).Once()

	out, err := f.uc.SubmitSale(context.Background(), cashierID, dto.SubmitSaleRequest{OrderID: orderID})
	require.ErrorIs(t, err, domain.ErrUpstream)
	assert.Contains(t, err.Error(), "Request parameter error")
	require.NotNil(t, out)

	stored := f.store.Invoice(out.ID)
	require.NotNil(t, stored)
	assert.Equal(t, entity.SubmissionFailed, stored.Status)
	assert.Equal(t, "910", stored.ResultCode)
	assert.Equal(t, "Request parameter error", stored.ErrorMessage)
	assert.Empty(t, stored.ReceiptSignature)
}

func TestSubmitSale_FallaDeTransporte(t *testing.T) {
	f := newFixture(t, true)
	f.order(line(coffeeID, "Café", 1, 150))
	f.gw.On("SaveSales", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: context deadline exceeded", domain.ErrUpstreamTransport)).Once()

	out, err := f.uc.SubmitSale(context.Background(), cashierID, dto.SubmitSaleRequest{OrderID: orderID})
	require.ErrorIs(t, err, domain.ErrUpstreamTransport)
	stored := f.store.Invoice(out.ID)
	require.NotNil(t, stored)
	assert.Equal(t, entity.SubmissionFailed, stored.Status)
	assert.Contains(t, stored.ErrorMessage, "deadline")
}

func TestSubmitSale_PedidoYaFacturado(t *testing.T) {
	f := newFixture(t, true)
	f.order(line(coffeeID, "Café", 1, 150))
	f.failedSale(t)

	_, err := f.uc.SubmitSale(context.Background(), cashierID, dto.SubmitSaleRequest{OrderID: orderID})
	require.ErrorIs(t, err, domain.ErrConflict)
	f.gw.AssertNotCalled(t, "SaveSales", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitSale_AceptadaPeroSinGuardar(t *testing.T) {
	f := newFixture(t, true)
	f.order(line(coffeeID, "Café", 1, 150))
	f.store.Fail("invoices.UpdateSubmission", memstore.ErrInjected)
	f.gw.On("SaveSales", mock.Anything, mock.Anything, mock.Anything).
		Return(exchange(t, kra.ResultCodeSuccess, "ok", acceptedReceipt()), nil).Once()

	out, err := f.uc.SubmitSale(context.Background(), cashierID, dto.SubmitSaleRequest{OrderID: orderID})
	require.ErrorIs(t, err, memstore.ErrInjected)
	assert.Nil(t, out)
	f.gw.AssertExpectations(t)
}

func TestRetry_SinCodigoNoLlamaALaKRA(t *testing.T) {
	f := newFixture(t, true)
	inv := f.failedSale(t)

	_, err := f.uc.Retry(context.Background(), cashierID, inv.ID)
	require.ErrorIs(t, err, domain.ErrUnregisteredItem)
	f.gw.AssertNotCalled(t, "SaveSales", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, entity.SubmissionFailed, f.store.Invoice(inv.ID).Status)
}

func TestRetry_ReusaElNumeroOriginal(t *testing.T) {
	f := newFixture(t, true)
	inv := f.failedSale(t)

	cake := f.store.Recipes[cakeID]
	cake.ItemCd, cake.ItemClsCd = "KE2NTU0000003", "50181900"
	f.store.Recipes[cakeID] = cake

	f.gw.On("SaveSales", mock.Anything, mock.Anything, mock.MatchedBy(func(req kra.SalesRequest) bool {
		return req.InvcNo == 7 && req.TrdInvcNo == "INV-000007" && req.ItemList[0].ItemCd == "KE2NTU0000003"
	})).Return(exchange(t, kra.ResultCodeSuccess, "ok", acceptedReceipt()), nil).Once()

	out, err := f.uc.Retry(context.Background(), cashierID, inv.ID)
	require.NoError(t, err)
	f.gw.AssertExpectations(t)
	assert.Equal(t, int64(7), out.InvoiceNo)

	stored := f.store.Invoice(inv.ID)
	assert.Equal(t, entity.SubmissionSuccess, stored.Status)
	assert.Equal(t, 2, stored.Attempts)
	assert.Equal(t, "KE2NTU0000003", stored.Items[0].ItemCd)
	assert.Zero(t, f.store.Sequences["sale"], "el reintento no consume numeración")
}

func TestRetry_ResuelveDesdeIngrediente(t *testing.T) {
	f := newFixture(t, true)
	inv := f.failedSale(t)
	stored := f.store.Invoices[inv.ID]
	stored.Items[0].CatalogID = flourID
	f.store.Invoices[inv.ID] = stored
	f.store.Ingredients[flourID] = entity.Ingredient{ID: flourID, Name: "Harina", TaxItem: entity.TaxItem{ItemCd: "KE1NTKG0000004", ItemClsCd: "50221300", TaxType: kra.TaxTypeB}}

	f.gw.On("SaveSales", mock.Anything, mock.Anything, mock.Anything).
		Return(exchange(t, kra.ResultCodeSuccess, "ok", acceptedReceipt()), nil).Once()

	_, err := f.uc.Retry(context.Background(), cashierID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "KE1NTKG0000004", f.store.Invoice(inv.ID).Items[0].ItemCd)
}

func TestRetry_SoloDesdeFailed(t *testing.T) {
	f := newFixture(t, true)
	inv := f.failedSale(t)
	stored := f.store.Invoices[inv.ID]
	stored.Status = entity.SubmissionSuccess
	f.store.Invoices[inv.ID] = stored

	_, err := f.uc.Retry(context.Background(), cashierID, inv.ID)
	require.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.uc.Retry(context.Background(), cashierID, "no-existe")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRetry_PendingSinResultadoSeReenvia(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	now := fixedNow
	f.uc.WithClock(func() time.Time { return now })
	f.order(line(coffeeID, "Café", 1, 150))

	// La KRA rechaza y además no se puede guardar el resultado: la factura queda pending.
	f.store.Fail("invoices.UpdateSubmission", memstore.ErrInjected)
	f.gw.On("SaveSales", mock.Anything, mock.Anything, mock.Anything).
		Return(exchange(t, "910", "Request parameter error", nil), nil).Once()
	_, err := f.uc.SubmitSale(ctx, cashierID, dto.SubmitSaleRequest{OrderID: orderID})
	require.ErrorIs(t, err, memstore.ErrInjected)

	stuck, err := f.store.InvoiceRepo().GetSaleByOrderID(ctx, orderID)
	require.NoError(t, err)
	require.NotNil(t, stuck)
	assert.Equal(t, entity.SubmissionPending, stuck.Status)

	// Recién creada: puede seguir en envío.
	_, err = f.uc.Retry(ctx, cashierID, stuck.ID)
	require.ErrorIs(t, err, domain.ErrConflict)
	_, err = f.uc.SubmitSale(ctx, cashierID, dto.SubmitSaleRequest{OrderID: orderID})
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, err.Error(), "use reintento")

	f.store.Fail("invoices.UpdateSubmission", nil)
	now = fixedNow.Add(etims.DefaultPendingRetry)
	f.gw.On("SaveSales", mock.Anything, mock.Anything, mock.MatchedBy(func(req kra.SalesRequest) bool {
		return req.InvcNo == stuck.InvoiceNo && req.TrdInvcNo == stuck.TraderInvoiceNo
	})).Return(exchange(t, kra.ResultCodeSuccess, "ok", acceptedReceipt()), nil).Once()

	out, err := f.uc.Retry(ctx, cashierID, stuck.ID)
	require.NoError(t, err)
	f.gw.AssertExpectations(t)
	assert.Equal(t, entity.SubmissionSuccess, out.Status)
	assert.Equal(t, "INV-000001", out.TraderInvoiceNo)
	assert.Equal(t, entity.SubmissionSuccess, f.store.Invoice(stuck.ID).Status)
	assert.Equal(t, int64(1), f.store.Sequences["sale"], "el reintento no consume numeración")
}

func TestRetry_AplicaArticuloCompletoDelCatalogo(t *testing.T) {
	f := newFixture(t, true)
	inv := f.failedSale(t)

	// Al codificar el pastel cambiaron también el impuesto y el empaque.
	cake := f.store.Recipes[cakeID]
	cake.TaxItem = entity.TaxItem{
		ItemCd: "KE2BXU0000003", ItemClsCd: "50181900", TaxType: kra.TaxTypeE,
		PkgUnitCd: kra.PackagingBox, QtyUnitCd: kra.QtyUnitPiece,
	}
	f.store.Recipes[cakeID] = cake

	f.gw.On("SaveSales", mock.Anything, mock.Anything, mock.MatchedBy(func(req kra.SalesRequest) bool {
		it := req.ItemList[0]
		return it.TaxTyCd == kra.TaxTypeE && it.PkgUnitCd == kra.PackagingBox && it.TaxAmt == 14.81 &&
			req.TaxAmtE == 14.81 && req.TaxAmtB == 0 && req.TotAmt == 200
	})).Return(exchange(t, kra.ResultCodeSuccess, "ok", acceptedReceipt()), nil).Once()

	_, err := f.uc.Retry(context.Background(), cashierID, inv.ID)
	require.NoError(t, err)
	f.gw.AssertExpectations(t)

	stored := f.store.Invoice(inv.ID)
	assert.Equal(t, kra.TaxTypeE, stored.Items[0].TaxType)
	assert.Equal(t, kra.PackagingBox, stored.Items[0].PkgUnitCd)
	assert.True(t, stored.Items[0].TaxAmount.Equal(decimal.RequireFromString("14.81")))
	assert.True(t, stored.TaxAmount.Equal(decimal.RequireFromString("14.81")))
	assert.True(t, stored.TotalAmount.Equal(decimal.NewFromInt(200)))
}

func TestSubmitSale_NumeraDespuesDelMayorExistente(t *testing.T) {
	f := newFixture(t, true)
	f.order(line(coffeeID, "Café", 1, 150))
	prior := map[string]string{
		"prev-1": "INV-000003",
		"prev-2": "INV-000041",
		"prev-3": "INV-00x9",
	}
	for id, no := range prior {
		f.store.Invoices[id] = entity.SalesInvoice{ID: id, Kind: entity.InvoiceKindSale, TraderInvoiceNo: no, Status: entity.SubmissionSuccess}
	}
	f.store.Invoices["prev-r"] = entity.SalesInvoice{ID: "prev-r", Kind: entity.InvoiceKindRefund, TraderInvoiceNo: "RFD-000090", Status: entity.SubmissionSuccess}

	f.gw.On("SaveSales", mock.Anything, mock.Anything, mock.MatchedBy(func(req kra.SalesRequest) bool {
		return req.InvcNo == 42 && req.TrdInvcNo == "INV-000042"
	})).Return(exchange(t, kra.ResultCodeSuccess, "ok", acceptedReceipt()), nil).Once()

	out, err := f.uc.SubmitSale(context.Background(), cashierID, dto.SubmitSaleRequest{OrderID: orderID})
	require.NoError(t, err)
	f.gw.AssertExpectations(t)
	assert.Equal(t, int64(42), out.InvoiceNo, "max(existentes)+1, ignorando sufijos corruptos y otros ámbitos")
	assert.Equal(t, "INV-000042", out.TraderInvoiceNo)
}

func TestSubmitRefund_NiegaLaVentaOriginal(t *testing.T) {
	f := newFixture(t, true)
	f.order(line(coffeeID, "Café", 2, 150), line(waterID, "Agua", 1, 60))
	f.gw.On("SaveSales", mock.Anything, mock.Anything, mock.MatchedBy(func(req kra.SalesRequest) bool {
		return req.RcptTyCd == kra.ReceiptTypeSale
	})).Return(exchange(t, kra.ResultCodeSuccess, "ok", acceptedReceipt()), nil).Once()
	sale, err := f.uc.SubmitSale(context.Background(), cashierID, dto.SubmitSaleRequest{OrderID: orderID})
	require.NoError(t, err)

	var sent kra.SalesRequest
	f.gw.On("SaveSales", mock.Anything, mock.Anything, mock.MatchedBy(func(req kra.SalesRequest) bool {
		return req.RcptTyCd == kra.ReceiptTypeRefund
	})).Run(func(args mock.Arguments) {
		sent = args.Get(2).(kra.SalesRequest)
	}).Return(exchange(t, kra.ResultCodeSuccess, "ok", kra.SalesReceipt{RcptNo: 502, RcptSign: "RFD999"}), nil).Once()

	out, err := f.uc.SubmitRefund(context.Background(), cashierID, sale.ID, dto.SubmitRefundRequest{ReasonCode: "03"})
	require.NoError(t, err)
	f.gw.AssertExpectations(t)

	assert.Equal(t, "RFD-000001", out.TraderInvoiceNo)
	assert.Equal(t, sale.InvoiceNo, out.OriginalInvoiceNo)
	assert.Equal(t, int64(501), out.OriginalReceiptNo)
	assert.True(t, out.TotalAmount.Equal(decimal.NewFromInt(-360)))
	assert.True(t, out.TaxAmount.Equal(decimal.RequireFromString("-41.38")))
	for _, it := range out.Items {
		assert.True(t, it.Quantity.IsNegative())
		assert.True(t, it.TotalAmount.IsNegative())
	}

	assert.Equal(t, sale.InvoiceNo, sent.OrgInvcNo)
	assert.Equal(t, "03", sent.RfdRsnCd)
	assert.Contains(t, sent.Remark, "501")
	assert.Equal(t, float64(-360), sent.TotAmt)
}

func TestSubmitRefund_SoloVentasAceptadas(t *testing.T) {
	f := newFixture(t, true)
	inv := f.failedSale(t)

	_, err := f.uc.SubmitRefund(context.Background(), cashierID, inv.ID, dto.SubmitRefundRequest{})
	require.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.uc.SubmitRefund(context.Background(), cashierID, inv.ID, dto.SubmitRefundRequest{ReasonCode: "99"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	f.gw.AssertNotCalled(t, "SaveSales", mock.Anything, mock.Anything, mock.Anything)
}

func TestInitializeDevice(t *testing.T) {
	f := newFixture(t, false)
	f.gw.On("InitDevice", mock.Anything, kra.InitRequest{Tin: "P051234567Q", BhfID: "00", DvcSrlNo: "dvc-01"}).
		Return(exchange(t, kra.ResultCodeSuccess, "ok", kra.InitData{Info: kra.InitInfo{
			Tin: "P051234567Q", BhfID: "00", SdcID: "SDC-01", MrcNo: "MRC-01", CmcKey: "nueva-clave", TaxprNm: "Cafetería Central",
		}}), nil).Once()

	out, err := f.uc.InitializeDevice(context.Background(), dto.InitializeDeviceRequest{})
	require.NoError(t, err)
	assert.Equal(t, entity.RegistrationSuccess, out.Status)
	assert.Equal(t, "SDC-01", out.SdcID)

	active, err := f.store.RegistrationRepo().GetActive(context.Background())
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "nueva-clave", active.CmcKey)
}

func TestInitializeDevice_Rechazo(t *testing.T) {
	f := newFixture(t, false)
	f.gw.On("InitDevice", mock.Anything, mock.Anything).
		Return(exchange(t, "901", "It is not valid device", nil), nil).Once()

	out, err := f.uc.InitializeDevice(context.Background(), dto.InitializeDeviceRequest{})
	require.ErrorIs(t, err, domain.ErrUpstream)
	assert.Equal(t, entity.RegistrationFailed, out.Status)

	active, err := f.store.RegistrationRepo().GetActive(context.Background())
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestSubmitStockMovement(t *testing.T) {
	f := newFixture(t, true)
	f.store.Ingredients[flourID] = entity.Ingredient{
		ID: flourID, Name: "Harina", StockQty: decimal.NewFromInt(30),
		TaxItem: entity.TaxItem{ItemCd: "KE1NTKG0000004", ItemClsCd: "50221300", TaxType: kra.TaxTypeB, PkgUnitCd: kra.PackagingNet, QtyUnitCd: kra.QtyUnitKg},
	}
	f.store.Adjustments[adjustmentID] = entity.StockAdjustment{
		ID: adjustmentID, IngredientID: flourID, SarTyCd: kra.StockInPurchase,
		Quantity: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(116), CreatedAt: fixedNow,
	}

	f.gw.On("InsertStockIO", mock.Anything, mock.Anything, mock.MatchedBy(func(req kra.StockIORequest) bool {
		return req.SarNo == 1 && req.SarTyCd == kra.StockInPurchase && req.TotAmt == 1160 && req.TotTaxAmt == 160
	})).Return(exchange(t, kra.ResultCodeSuccess, "ok", nil), nil).Once()
	f.gw.On("SaveStockMaster", mock.Anything, mock.Anything, mock.MatchedBy(func(req kra.StockMasterRequest) bool {
		return req.ItemCd == "KE1NTKG0000004" && req.RsdQty == 30
	})).Return(exchange(t, kra.ResultCodeSuccess, "ok", nil), nil).Once()

	out, err := f.uc.SubmitStockMovement(context.Background(), cashierID, adjustmentID)
	require.NoError(t, err)
	f.gw.AssertExpectations(t)
	assert.Equal(t, int64(1), out.SarNo)
	assert.Equal(t, "in", out.Direction)
	assert.Equal(t, entity.SubmissionSuccess, out.KRAStatus)
	assert.Empty(t, out.KRAError)

	assert.Equal(t, entity.SubmissionSuccess, f.store.Adjustments[adjustmentID].KRAStatus)
	assert.Len(t, f.store.TransactionsOf(adjustmentID), 1)
	assert.Len(t, f.store.TransactionsOf(flourID), 1)

	_, err = f.uc.SubmitStockMovement(context.Background(), cashierID, adjustmentID)
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestSubmitStockMovement_IngredienteSinCodigo(t *testing.T) {
	f := newFixture(t, true)
	f.store.Ingredients[flourID] = entity.Ingredient{ID: flourID, Name: "Harina"}
	f.store.Adjustments[adjustmentID] = entity.StockAdjustment{ID: adjustmentID, IngredientID: flourID, SarTyCd: kra.StockOutAdjustment, Quantity: decimal.NewFromInt(1)}

	_, err := f.uc.SubmitStockMovement(context.Background(), cashierID, adjustmentID)
	require.ErrorIs(t, err, domain.ErrUnregisteredItem)
	f.gw.AssertNotCalled(t, "InsertStockIO", mock.Anything, mock.Anything, mock.Anything)
	assert.Zero(t, f.store.Adjustments[adjustmentID].SarNo)
}

func TestRegisterItem_Receta(t *testing.T) {
	f := newFixture(t, true)
	f.gw.On("SaveItem", mock.Anything, mock.Anything, mock.MatchedBy(func(req kra.ItemRequest) bool {
		return req.ItemCd == "KE2NTU0000003" && req.ItemTyCd == kra.ProductTypeFinished && req.ItemNm == "Pastel" && req.DftPrc == 200
	})).Return(exchange(t, kra.ResultCodeSuccess, "ok", nil), nil).Once()

	out, err := f.uc.RegisterItem(context.Background(), cashierID, dto.RegisterItemRequest{Kind: etims.ItemKindRecipe, ID: cakeID, ItemClsCd: "50181900"})
	require.NoError(t, err)
	f.gw.AssertExpectations(t)
	assert.Equal(t, "KE2NTU0000003", out.ItemCd, "sigue al mayor código ya asignado")
	assert.Equal(t, "KE2NTU0000003", f.store.Recipes[cakeID].ItemCd)
	assert.Equal(t, "50181900", f.store.Recipes[cakeID].ItemClsCd)
	assert.Len(t, f.store.TransactionsOf(cakeID), 1)

	_, err = f.uc.RegisterItem(context.Background(), cashierID, dto.RegisterItemRequest{Kind: etims.ItemKindRecipe, ID: coffeeID, ItemClsCd: "50181900"})
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestRegisterItem_RechazoNoGuardaCodigo(t *testing.T) {
	f := newFixture(t, true)
	f.store.Ingredients[flourID] = entity.Ingredient{ID: flourID, Name: "Harina", Unit: "kg"}
	f.gw.On("SaveItem", mock.Anything, mock.Anything, mock.MatchedBy(func(req kra.ItemRequest) bool {
		return req.ItemCd == "KE1NTKG0000003" && req.QtyUnitCd == kra.QtyUnitKg
	})).Return(exchange(t, "990", "invalid classification", nil), nil).Once()

	_, err := f.uc.RegisterItem(context.Background(), cashierID, dto.RegisterItemRequest{Kind: etims.ItemKindIngredient, ID: flourID, ItemClsCd: "1"})
	require.ErrorIs(t, err, domain.ErrUpstream)
	assert.Empty(t, f.store.Ingredients[flourID].ItemCd)
	tx := f.store.TransactionsOf(flourID)
	require.Len(t, tx, 1)
	assert.Equal(t, entity.SubmissionFailed, tx[0].Status)
	assert.Equal(t, "990", tx[0].ResultCode)
}

func TestItemClassifications_UsaCache(t *testing.T) {
	f := newFixture(t, true)
	f.gw.On("SelectItemClasses", mock.Anything, mock.Anything, mock.Anything).
		Return(exchange(t, kra.ResultCodeSuccess, "ok", kra.ItemClassData{ItemClsList: []kra.ItemClass{
			{ItemClsCd: "50202300", ItemClsNm: "Non alcoholic beverages", ItemClsLvl: 4, TaxTyCd: "B", UseYn: "Y"},
			{ItemClsCd: "99999999", ItemClsNm: "Retirada", ItemClsLvl: 4, UseYn: "N"},
		}}), nil).Once()

	first, err := f.uc.ItemClassifications(context.Background())
	require.NoError(t, err)
	second, err := f.uc.ItemClassifications(context.Background())
	require.NoError(t, err)

	require.Len(t, first, 1)
	assert.Equal(t, "50202300", first[0].Code)
	assert.Equal(t, first, second)
	f.gw.AssertNumberOfCalls(t, "SelectItemClasses", 1)
}

func TestLookupCustomer(t *testing.T) {
	f := newFixture(t, true)
	f.gw.On("SelectCustomer", mock.Anything, mock.Anything, kra.CustomerRequest{Tin: "P051234567Q", BhfID: "00", CustmTin: "A123456789Z"}).
		Return(exchange(t, kra.ResultCodeSuccess, "ok", kra.CustomerData{CustList: []kra.TaxpayerInfo{
			{Tin: "A123456789Z", TaxprNm: "JANE WANJIKU", TaxprSttsCd: "A", LocDesc: "Nairobi"},
		}}), nil).Once()
	f.gw.On("SelectCustomer", mock.Anything, mock.Anything, mock.Anything).
		Return(exchange(t, kra.ResultCodeNoData, "There is no search result", nil), nil)

	out, err := f.uc.LookupCustomer(context.Background(), "a123456789z")
	require.NoError(t, err)
	assert.Equal(t, "JANE WANJIKU", out.Name)

	_, err = f.uc.LookupCustomer(context.Background(), "P000000000X")
	require.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = f.uc.LookupCustomer(context.Background(), "bad")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReceiptPDF_SoloFacturasAceptadas(t *testing.T) {
	f := newFixture(t, true)
	inv := f.failedSale(t)

	_, err := f.uc.ReceiptPDF(context.Background(), inv.ID)
	require.Error(t, err)
}
