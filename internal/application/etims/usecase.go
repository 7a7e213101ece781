// Package etims orquesta la facturación electrónica KRA eTIMS: inicialización del dispositivo,
// envío de ventas y notas crédito, reintentos manuales, movimientos de stock y registro de artículos.
//
// Flujo de una venta:
//
//	validar → credencial → líneas con código KRA → tx{número + factura pending} → POST → success | failed
//
// No hay reintentos automáticos: una factura failed se reenvía solo con Retry, conservando su número.
package etims

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/internal/domain/repository"
	"github.com/jhoicas/Cafeteria-api/pkg/kra"
	"github.com/jhoicas/Cafeteria-api/pkg/logger"
)

// Deps dependencias del caso de uso. Cache y Renderer pueden ser nil.
type Deps struct {
	Tx            TxRunner
	Invoices      repository.SalesInvoiceRepository
	Orders        repository.OrderRepository
	Customers     repository.CustomerRepository
	Recipes       repository.RecipeRepository
	Ingredients   repository.IngredientRepository
	Adjustments   repository.StockAdjustmentRepository
	Registrations repository.KRARegistrationRepository
	Transactions  repository.KRATransactionRepository
	Sequences     repository.SequenceRepository
	Gateway       Gateway
	Cache         ReferenceCache
	Renderer      ReceiptRenderer
	Config        Config
	Logger        *logger.Logger
}

// UseCase casos de uso eTIMS.
type UseCase struct {
	tx             TxRunner
	invoiceRepo    repository.SalesInvoiceRepository
	orderRepo      repository.OrderRepository
	customerRepo   repository.CustomerRepository
	recipeRepo     repository.RecipeRepository
	ingredientRepo repository.IngredientRepository
	adjustmentRepo repository.StockAdjustmentRepository
	regRepo        repository.KRARegistrationRepository
	kraTxRepo      repository.KRATransactionRepository
	seqRepo        repository.SequenceRepository
	gateway        Gateway
	cache          ReferenceCache
	renderer       ReceiptRenderer
	creds          *CredentialProvider
	cfg            Config
	log            *logger.Logger
	now            func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(d Deps) *UseCase {
	log := d.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		tx:             d.Tx,
		invoiceRepo:    d.Invoices,
		orderRepo:      d.Orders,
		customerRepo:   d.Customers,
		recipeRepo:     d.Recipes,
		ingredientRepo: d.Ingredients,
		adjustmentRepo: d.Adjustments,
		regRepo:        d.Registrations,
		kraTxRepo:      d.Transactions,
		seqRepo:        d.Sequences,
		gateway:        d.Gateway,
		cache:          d.Cache,
		renderer:       d.Renderer,
		creds:          NewCredentialProvider(d.Registrations),
		cfg:            d.Config,
		log:            log.Component("etims"),
		now:            time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// recordTransaction guarda el envío en kra_transactions. Un fallo aquí solo se loguea:
// la bitácora no debe tapar el resultado real de la KRA.
func (uc *UseCase) recordTransaction(ctx context.Context, kind, refID string, req any, ex *kra.Exchange, callErr error) {
	t := &entity.KRATransaction{
		ID:          uuid.New().String(),
		Kind:        kind,
		ReferenceID: refID,
		Status:      entity.SubmissionFailed,
		CreatedAt:   uc.now(),
	}
	if ex != nil {
		t.Request = ex.RawRequest
		t.Response = ex.RawResponse
		t.ResultCode = ex.Response.ResultCd
		t.ResultMsg = ex.Response.ResultMsg
		if ex.Response.OK() {
			t.Status = entity.SubmissionSuccess
		}
	}
	if len(t.Request) == 0 {
		t.Request, _ = json.Marshal(req)
	}
	if callErr != nil {
		t.ResultMsg = callErr.Error()
	}
	if err := uc.kraTxRepo.Create(ctx, t); err != nil {
		uc.log.Error().Err(err).Str("kind", kind).Str("reference_id", refID).Msg("etims: no se pudo registrar la transacción")
	}
}
