package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cafeteria-api/internal/application/auth"
	"github.com/jhoicas/Cafeteria-api/internal/application/catalog"
	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
	appetims "github.com/jhoicas/Cafeteria-api/internal/application/etims"
	"github.com/jhoicas/Cafeteria-api/internal/application/inventory"
	"github.com/jhoicas/Cafeteria-api/internal/application/orders"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	infraetims "github.com/jhoicas/Cafeteria-api/internal/infrastructure/etims"
	apphttp "github.com/jhoicas/Cafeteria-api/internal/interfaces/http"
	"github.com/jhoicas/Cafeteria-api/internal/testutil/memstore"
	"github.com/jhoicas/Cafeteria-api/pkg/kra"
	"github.com/jhoicas/Cafeteria-api/pkg/logger"
)

const (
	espressoID = "7b1d0c2e-0000-4000-8000-00000000000a"
	muffinID   = "7b1d0c2e-0000-4000-8000-00000000000b"
	juiceID    = "7b1d0c2e-0000-4000-8000-00000000000c"
)

// kraStub sustituye la API OSCU y cuenta las llamadas recibidas.
type kraStub struct {
	srv   *httptest.Server
	calls atomic.Int32
}

func newKRAStub(t *testing.T, body string) *kraStub {
	t.Helper()
	k := &kraStub{}
	k.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		k.calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(k.srv.Close)
	return k
}

type e2e struct {
	app   *fiber.App
	store *memstore.Store
	kra   *kraStub
}

func newE2E(t *testing.T, kraBody string) *e2e {
	t.Helper()
	store := memstore.New()
	stub := newKRAStub(t, kraBody)
	log := logger.Nop()
	reg := prometheus.NewRegistry()
	metrics := infraetims.NewMetrics(reg)

	store.Registrations = append(store.Registrations, entity.KRARegistration{
		ID: "reg-1", TIN: "P051234567Q", BhfID: "00", CmcKey: "cmc-key", Status: entity.RegistrationSuccess,
	})
	store.Recipes[espressoID] = entity.Recipe{
		ID: espressoID, Name: "Espresso", Price: decimal.NewFromInt(116), Active: true,
		TaxItem: entity.TaxItem{ItemCd: "KE2NTU0000001", ItemClsCd: "50202300", TaxType: kra.TaxTypeB, PkgUnitCd: kra.PackagingNet, QtyUnitCd: kra.QtyUnitPiece},
	}
	store.Recipes[juiceID] = entity.Recipe{
		ID: juiceID, Name: "Jugo de mango", Price: decimal.NewFromInt(60), Active: true,
		TaxItem: entity.TaxItem{ItemCd: "KE2NTU0000002", ItemClsCd: "50202300", TaxType: kra.TaxTypeA, PkgUnitCd: kra.PackagingNet, QtyUnitCd: kra.QtyUnitPiece},
	}
	store.Recipes[muffinID] = entity.Recipe{
		ID: muffinID, Name: "Muffin", Price: decimal.NewFromInt(90), Active: true,
		TaxItem: entity.TaxItem{TaxType: kra.TaxTypeB},
	}

	etimsUC := appetims.NewUseCase(appetims.Deps{
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
		Gateway:       infraetims.NewClient(stub.srv.URL, 5*time.Second, metrics),
		Config:        appetims.Config{TIN: "P051234567Q", BhfID: "00", ReceiptURL: "https://kra.test/receipt?Data="},
		Logger:        log,
	})

	app := apphttp.NewApp("cafeteria-test", log)
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:       auth.NewAuthUseCase(store.UserRepo(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60, Issuer: testIssuer}, log),
		UserUC:       auth.NewUserUseCase(store.UserRepo(), log),
		CustomerUC:   catalog.NewCustomerUseCase(store.CustomerRepo()),
		SupplierUC:   catalog.NewSupplierUseCase(store.SupplierRepo()),
		IngredientUC: catalog.NewIngredientUseCase(store.IngredientRepo(), store.SupplierRepo()),
		RecipeUC:     catalog.NewRecipeUseCase(store.Tx(), store.RecipeRepo(), store.IngredientRepo()),
		OrderUC:      orders.NewUseCase(store.Tx(), store.OrderRepo(), store.RecipeRepo(), store.CustomerRepo(), nil, log),
		InventoryUC:  inventory.NewUseCase(store.Tx(), store.IngredientRepo(), store.AdjustmentRepo(), etimsUC, log),
		EtimsUC:      etimsUC,
		JWTSecret:    testJWTSecret,
		Gatherer:     reg,
		AppName:      "cafeteria-test",
	})
	return &e2e{app: app, store: store, kra: stub}
}

func (e *e2e) do(t *testing.T, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, entity.RoleCashier))
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func (e *e2e) createOrder(t *testing.T, recipeIDs ...string) string {
	t.Helper()
	items := make([]dto.OrderItemRequest, 0, len(recipeIDs))
	for _, id := range recipeIDs {
		items = append(items, dto.OrderItemRequest{RecipeID: id, Quantity: decimal.NewFromInt(1)})
	}
	resp, body := e.do(t, http.MethodPost, "/api/orders", dto.CreateOrderRequest{PaymentMethod: "cash", Items: items})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	return body["id"].(string)
}

func TestE2E_VentaConArticuloSinCodigo(t *testing.T) {
	e := newE2E(t, `{"resultCd":"000","resultMsg":"It is succeeded","data":{}}`)
	orderID := e.createOrder(t, espressoID, muffinID)

	resp, body := e.do(t, http.MethodPost, "/api/etims/sales", dto.SubmitSaleRequest{OrderID: orderID})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "UNREGISTERED_ITEM", body["code"])
	assert.Zero(t, e.store.InvoiceCount(), "no debe quedar factura")
	assert.Zero(t, e.kra.calls.Load(), "no debe llamarse a la KRA")
}

func TestE2E_VentaAceptadaGuardaFirma(t *testing.T) {
	e := newE2E(t, `{"resultCd":"000","resultMsg":"It is succeeded","resultDt":"20240305143015",
		"data":{"rcptNo":12,"intrlData":"INTR","rcptSign":"ABC123","totRcptNo":40,"vsdcRcptPbctDate":"20240305143016","sdcId":"KRACU01","mrcNo":"WIS01"}}`)
	orderID := e.createOrder(t, espressoID, juiceID)

	resp, body := e.do(t, http.MethodPost, "/api/etims/sales", dto.SubmitSaleRequest{OrderID: orderID})

	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	assert.Equal(t, entity.SubmissionSuccess, body["status"])
	assert.Equal(t, "ABC123", body["receipt_signature"])
	assert.EqualValues(t, 1, body["invoice_no"])
	assert.EqualValues(t, 1, e.kra.calls.Load())

	stored := e.store.Invoice(body["id"].(string))
	require.NotNil(t, stored)
	assert.Equal(t, "ABC123", stored.ReceiptSignature)
	assert.Equal(t, int64(12), stored.ReceiptNo)
	assert.Equal(t, int64(40), stored.TotalReceiptNo)
	require.Len(t, stored.Items, 2)
	assert.Equal(t, "KE2NTU0000001", stored.Items[0].ItemCd)
	assert.Equal(t, "KE2NTU0000002", stored.Items[1].ItemCd)
	assert.True(t, stored.TotalAmount.Equal(decimal.NewFromInt(176)))
	assert.True(t, stored.TaxAmount.Equal(decimal.NewFromInt(16)), "solo el espresso grava 16%")
}

func TestE2E_RechazoDevuelveFacturaFailed(t *testing.T) {
	e := newE2E(t, `{"resultCd":"910","resultMsg":"Request parameter error","data":null}`)
	orderID := e.createOrder(t, espressoID)

	resp, body := e.do(t, http.MethodPost, "/api/etims/sales", dto.SubmitSaleRequest{OrderID: orderID})

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "KRA_REJECTED", body["code"])
	invoice, ok := body["invoice"].(map[string]any)
	require.True(t, ok, body)
	assert.Equal(t, entity.SubmissionFailed, invoice["status"])
	assert.Equal(t, 1, e.store.InvoiceCount())
}

func TestE2E_SinCredencial412(t *testing.T) {
	e := newE2E(t, `{"resultCd":"000","data":{}}`)
	e.store.Registrations = nil
	orderID := e.createOrder(t, espressoID)

	resp, body := e.do(t, http.MethodPost, "/api/etims/sales", dto.SubmitSaleRequest{OrderID: orderID})

	assert.Equal(t, http.StatusPreconditionFailed, resp.StatusCode)
	assert.Equal(t, "KRA_NOT_CONFIGURED", body["code"])
	assert.Zero(t, e.kra.calls.Load())
}

func TestE2E_ValidacionDelCuerpo(t *testing.T) {
	e := newE2E(t, `{"resultCd":"000","data":{}}`)

	resp, body := e.do(t, http.MethodPost, "/api/etims/sales", map[string]string{"order_id": "no-es-uuid"})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body["code"])
}

func TestE2E_Health(t *testing.T) {
	e := newE2E(t, `{"resultCd":"000","data":{}}`)

	resp, err := e.app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = e.app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
