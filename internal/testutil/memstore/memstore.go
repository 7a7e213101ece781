// Package memstore implementa en memoria los puertos de repository para los tests de casos
// de uso. Los Get devuelven (nil, nil) cuando no existe el registro, igual que postgres.
package memstore

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	domainetims "github.com/jhoicas/Cafeteria-api/internal/domain/etims"
	"github.com/jhoicas/Cafeteria-api/internal/domain/repository"
	"github.com/jhoicas/Cafeteria-api/pkg/kra"
)

// Store estado compartido por todos los repos. Los mapas se pueden inspeccionar desde los tests.
type Store struct {
	mu sync.Mutex

	Users         map[string]entity.User
	Customers     map[string]entity.Customer
	Suppliers     map[string]entity.Supplier
	Ingredients   map[string]entity.Ingredient
	Recipes       map[string]entity.Recipe
	Orders        map[string]entity.Order
	Invoices      map[string]entity.SalesInvoice
	Adjustments   map[string]entity.StockAdjustment
	Registrations []entity.KRARegistration
	Transactions  []entity.KRATransaction
	Sequences     map[string]int64

	failures map[string]error
}

func New() *Store {
	return &Store{
		Users:       map[string]entity.User{},
		Customers:   map[string]entity.Customer{},
		Suppliers:   map[string]entity.Supplier{},
		Ingredients: map[string]entity.Ingredient{},
		Recipes:     map[string]entity.Recipe{},
		Orders:      map[string]entity.Order{},
		Invoices:    map[string]entity.SalesInvoice{},
		Adjustments: map[string]entity.StockAdjustment{},
		Sequences:   map[string]int64{},
		failures:    map[string]error{},
	}
}

// Fail hace que la operación op (ej. "invoices.UpdateSubmission") devuelva err.
func (s *Store) Fail(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

func (s *Store) failure(op string) error {
	return s.failures[op]
}

// InvoiceCount total de facturas guardadas.
func (s *Store) InvoiceCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Invoices)
}

// Invoice copia de la factura guardada, o nil.
func (s *Store) Invoice(id string) *entity.SalesInvoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.Invoices[id]
	if !ok {
		return nil
	}
	return cloneInvoice(inv)
}

// TransactionsOf bitácora KRA de una referencia, en orden de inserción.
func (s *Store) TransactionsOf(referenceID string) []entity.KRATransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.KRATransaction
	for _, t := range s.Transactions {
		if t.ReferenceID == referenceID {
			out = append(out, t)
		}
	}
	return out
}

type snapshot struct {
	users       map[string]entity.User
	customers   map[string]entity.Customer
	suppliers   map[string]entity.Supplier
	ingredients map[string]entity.Ingredient
	recipes     map[string]entity.Recipe
	orders      map[string]entity.Order
	invoices    map[string]entity.SalesInvoice
	adjustments map[string]entity.StockAdjustment
	regs        []entity.KRARegistration
	txs         []entity.KRATransaction
	sequences   map[string]int64
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot{
		users:       copyMap(s.Users),
		customers:   copyMap(s.Customers),
		suppliers:   copyMap(s.Suppliers),
		ingredients: copyMap(s.Ingredients),
		recipes:     copyMap(s.Recipes),
		orders:      copyMap(s.Orders),
		invoices:    copyMap(s.Invoices),
		adjustments: copyMap(s.Adjustments),
		regs:        append([]entity.KRARegistration(nil), s.Registrations...),
		txs:         append([]entity.KRATransaction(nil), s.Transactions...),
		sequences:   copyMap(s.Sequences),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Users = snap.users
	s.Customers = snap.customers
	s.Suppliers = snap.suppliers
	s.Ingredients = snap.ingredients
	s.Recipes = snap.recipes
	s.Orders = snap.orders
	s.Invoices = snap.invoices
	s.Adjustments = snap.adjustments
	s.Registrations = snap.regs
	s.Transactions = snap.txs
	s.Sequences = snap.sequences
}

// atomically ejecuta fn y deshace todos los cambios si devuelve error.
func (s *Store) atomically(fn func() error) error {
	snap := s.snapshot()
	if err := fn(); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// Tx implementa los TxRunner de los casos de uso sobre el Store.
type Tx struct {
	s *Store
}

func (s *Store) Tx() *Tx { return &Tx{s: s} }

func (t *Tx) RunEtims(ctx context.Context, fn func(repository.SequenceRepository, repository.SalesInvoiceRepository, repository.StockAdjustmentRepository) error) error {
	return t.s.atomically(func() error {
		return fn(t.s.SequenceRepo(), t.s.InvoiceRepo(), t.s.AdjustmentRepo())
	})
}

func (t *Tx) RunStock(ctx context.Context, fn func(repository.IngredientRepository, repository.StockAdjustmentRepository) error) error {
	return t.s.atomically(func() error {
		return fn(t.s.IngredientRepo(), t.s.AdjustmentRepo())
	})
}

func (t *Tx) RunOrder(ctx context.Context, fn func(repository.SequenceRepository, repository.OrderRepository) error) error {
	return t.s.atomically(func() error {
		return fn(t.s.SequenceRepo(), t.s.OrderRepo())
	})
}

func (t *Tx) RunRecipe(ctx context.Context, fn func(repository.RecipeRepository) error) error {
	return t.s.atomically(func() error {
		return fn(t.s.RecipeRepo())
	})
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

// =============================================================================
// Usuarios, clientes y proveedores
// =============================================================================

type UserRepo struct{ s *Store }

func (s *Store) UserRepo() *UserRepo { return &UserRepo{s: s} }

var _ repository.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.Users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.Users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.Users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.Users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.Users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.s.Users[u.ID] = *u
	return nil
}

func (r *UserRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.User
	for _, u := range r.s.Users {
		u := u
		list = append(list, &u)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Email < list[j].Email })
	return page(list, limit, offset), nil
}

type CustomerRepo struct{ s *Store }

func (s *Store) CustomerRepo() *CustomerRepo { return &CustomerRepo{s: s} }

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

func (r *CustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c.KRAPIN != "" {
		for _, existing := range r.s.Customers {
			if existing.KRAPIN == c.KRAPIN {
				return domain.ErrDuplicate
			}
		}
	}
	r.s.Customers[c.ID] = *c
	return nil
}

func (r *CustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.Customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CustomerRepo) GetByPIN(_ context.Context, pin string) (*entity.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.Customers {
		if c.KRAPIN == pin {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *CustomerRepo) List(_ context.Context, limit, offset int) ([]*entity.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Customer
	for _, c := range r.s.Customers {
		c := c
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return page(list, limit, offset), nil
}

func (r *CustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.Customers[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.Customers[c.ID] = *c
	return nil
}

func (r *CustomerRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.Customers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.Customers, id)
	return nil
}

type SupplierRepo struct{ s *Store }

func (s *Store) SupplierRepo() *SupplierRepo { return &SupplierRepo{s: s} }

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

func (r *SupplierRepo) Create(_ context.Context, sp *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.Suppliers[sp.ID] = *sp
	return nil
}

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sp, ok := r.s.Suppliers[id]
	if !ok {
		return nil, nil
	}
	return &sp, nil
}

func (r *SupplierRepo) List(_ context.Context, limit, offset int) ([]*entity.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Supplier
	for _, sp := range r.s.Suppliers {
		sp := sp
		list = append(list, &sp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return page(list, limit, offset), nil
}

func (r *SupplierRepo) Update(_ context.Context, sp *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.Suppliers[sp.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.Suppliers[sp.ID] = *sp
	return nil
}

func (r *SupplierRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.Suppliers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.Suppliers, id)
	return nil
}

// =============================================================================
// Catálogo: ingredientes y recetas
// =============================================================================

type IngredientRepo struct{ s *Store }

func (s *Store) IngredientRepo() *IngredientRepo { return &IngredientRepo{s: s} }

var _ repository.IngredientRepository = (*IngredientRepo)(nil)

func (r *IngredientRepo) Create(_ context.Context, ing *entity.Ingredient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.Ingredients[ing.ID] = *ing
	return nil
}

func (r *IngredientRepo) GetByID(_ context.Context, id string) (*entity.Ingredient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ing, ok := r.s.Ingredients[id]
	if !ok {
		return nil, nil
	}
	return &ing, nil
}

func (r *IngredientRepo) List(_ context.Context, limit, offset int) ([]*entity.Ingredient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Ingredient
	for _, ing := range r.s.Ingredients {
		ing := ing
		list = append(list, &ing)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return page(list, limit, offset), nil
}

func (r *IngredientRepo) ListBelowReorder(_ context.Context) ([]*entity.Ingredient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Ingredient
	for _, ing := range r.s.Ingredients {
		if ing.StockQty.LessThanOrEqual(ing.ReorderLevel) {
			ing := ing
			list = append(list, &ing)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *IngredientRepo) Update(_ context.Context, ing *entity.Ingredient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.Ingredients[ing.ID]
	if !ok {
		return domain.ErrNotFound
	}
	// El stock no se toca desde Update.
	next := *ing
	next.StockQty = cur.StockQty
	r.s.Ingredients[ing.ID] = next
	return nil
}

func (r *IngredientRepo) UpdateTaxItem(_ context.Context, id string, item entity.TaxItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ing, ok := r.s.Ingredients[id]
	if !ok {
		return domain.ErrNotFound
	}
	ing.TaxItem = item
	r.s.Ingredients[id] = ing
	return nil
}

func (r *IngredientRepo) GetForUpdate(ctx context.Context, id string) (*entity.Ingredient, error) {
	return r.GetByID(ctx, id)
}

func (r *IngredientRepo) SetStock(_ context.Context, id string, qty decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ing, ok := r.s.Ingredients[id]
	if !ok {
		return domain.ErrNotFound
	}
	if qty.IsNegative() {
		return domain.ErrInsufficientStock
	}
	ing.StockQty = qty
	r.s.Ingredients[id] = ing
	return nil
}

type RecipeRepo struct{ s *Store }

func (s *Store) RecipeRepo() *RecipeRepo { return &RecipeRepo{s: s} }

var _ repository.RecipeRepository = (*RecipeRepo)(nil)

func cloneRecipe(rc entity.Recipe) *entity.Recipe {
	rc.Ingredients = append([]entity.RecipeIngredient(nil), rc.Ingredients...)
	return &rc
}

func (r *RecipeRepo) Create(_ context.Context, rc *entity.Recipe) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.Recipes[rc.ID] = *cloneRecipe(*rc)
	return nil
}

func (r *RecipeRepo) GetByID(_ context.Context, id string) (*entity.Recipe, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rc, ok := r.s.Recipes[id]
	if !ok {
		return nil, nil
	}
	return cloneRecipe(rc), nil
}

func (r *RecipeRepo) List(_ context.Context, onlyActive bool, limit, offset int) ([]*entity.Recipe, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Recipe
	for _, rc := range r.s.Recipes {
		if onlyActive && !rc.Active {
			continue
		}
		list = append(list, cloneRecipe(rc))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return page(list, limit, offset), nil
}

func (r *RecipeRepo) Update(_ context.Context, rc *entity.Recipe) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.Recipes[rc.ID]
	if !ok {
		return domain.ErrNotFound
	}
	next := cloneRecipe(*rc)
	// Los códigos KRA solo cambian con UpdateTaxItem.
	next.ItemCd, next.ItemClsCd = cur.ItemCd, cur.ItemClsCd
	r.s.Recipes[rc.ID] = *next
	return nil
}

func (r *RecipeRepo) UpdateTaxItem(_ context.Context, id string, item entity.TaxItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rc, ok := r.s.Recipes[id]
	if !ok {
		return domain.ErrNotFound
	}
	rc.TaxItem = item
	r.s.Recipes[id] = rc
	return nil
}

// =============================================================================
// Pedidos
// =============================================================================

type OrderRepo struct{ s *Store }

func (s *Store) OrderRepo() *OrderRepo { return &OrderRepo{s: s} }

var _ repository.OrderRepository = (*OrderRepo)(nil)

func cloneOrder(o entity.Order) *entity.Order {
	o.Items = append([]entity.OrderItem(nil), o.Items...)
	return &o
}

func (r *OrderRepo) Create(_ context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.Orders {
		if existing.Number == o.Number {
			return domain.ErrDuplicate
		}
	}
	r.s.Orders[o.ID] = *cloneOrder(*o)
	return nil
}

func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.Orders[id]
	if !ok {
		return nil, nil
	}
	return cloneOrder(o), nil
}

func (r *OrderRepo) List(_ context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Order
	for _, o := range r.s.Orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		list = append(list, cloneOrder(o))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Number > list[j].Number })
	return page(list, f.Limit, f.Offset), nil
}

func (r *OrderRepo) UpdateStatus(_ context.Context, id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.Orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	r.s.Orders[id] = o
	return nil
}

// =============================================================================
// eTIMS: facturas, numeración, stock y bitácora
// =============================================================================

type SequenceRepo struct{ s *Store }

func (s *Store) SequenceRepo() *SequenceRepo { return &SequenceRepo{s: s} }

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// Next igual que postgres: la primera vez el ámbito arranca en max(existentes)+1.
func (r *SequenceRepo) Next(_ context.Context, scope string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("sequences.Next"); err != nil {
		return 0, err
	}
	current, ok := r.s.Sequences[scope]
	if !ok {
		current = r.s.highest(scope)
	}
	r.s.Sequences[scope] = domainetims.NextNumber(current)
	return r.s.Sequences[scope], nil
}

// highest mayor número ya usado en los registros del ámbito. Llamar con mu tomado.
func (s *Store) highest(scope string) int64 {
	var values []string
	switch scope {
	case domainetims.ScopeSale, domainetims.ScopeRefund:
		kind := entity.InvoiceKindSale
		if scope == domainetims.ScopeRefund {
			kind = entity.InvoiceKindRefund
		}
		for _, inv := range s.Invoices {
			if inv.Kind == kind {
				values = append(values, inv.TraderInvoiceNo)
			}
		}
		return domainetims.HighestSuffix(domainetims.PrefixForKind(kind), values)
	case "order":
		for _, o := range s.Orders {
			values = append(values, o.Number)
		}
		return domainetims.HighestSuffix(entity.OrderNumberPrefix, values)
	case domainetims.ScopeStock:
		var top int64
		for _, a := range s.Adjustments {
			if a.SarNo > top {
				top = a.SarNo
			}
		}
		return top
	case domainetims.ScopeItem:
		var top int64
		consider := func(code string) {
			if n, ok := kra.ItemCodeSeq(code); ok && n > top {
				top = n
			}
		}
		for _, rc := range s.Recipes {
			consider(rc.ItemCd)
		}
		for _, ing := range s.Ingredients {
			consider(ing.ItemCd)
		}
		return top
	}
	return 0
}

type InvoiceRepo struct{ s *Store }

func (s *Store) InvoiceRepo() *InvoiceRepo { return &InvoiceRepo{s: s} }

var _ repository.SalesInvoiceRepository = (*InvoiceRepo)(nil)

func cloneInvoice(inv entity.SalesInvoice) *entity.SalesInvoice {
	inv.Items = append([]entity.SalesInvoiceItem(nil), inv.Items...)
	return &inv
}

func (r *InvoiceRepo) Create(_ context.Context, inv *entity.SalesInvoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("invoices.Create"); err != nil {
		return err
	}
	for _, existing := range r.s.Invoices {
		if existing.Kind == inv.Kind && existing.InvoiceNo == inv.InvoiceNo {
			return domain.ErrDuplicate
		}
	}
	r.s.Invoices[inv.ID] = *cloneInvoice(*inv)
	return nil
}

func (r *InvoiceRepo) GetByID(_ context.Context, id string) (*entity.SalesInvoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.Invoices[id]
	if !ok {
		return nil, nil
	}
	return cloneInvoice(inv), nil
}

func (r *InvoiceRepo) GetSaleByOrderID(_ context.Context, orderID string) (*entity.SalesInvoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, inv := range r.s.Invoices {
		if inv.Kind == entity.InvoiceKindSale && inv.OrderID == orderID {
			return cloneInvoice(inv), nil
		}
	}
	return nil, nil
}

func (r *InvoiceRepo) GetRefundOf(_ context.Context, invoiceNo int64) (*entity.SalesInvoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, inv := range r.s.Invoices {
		if inv.Kind == entity.InvoiceKindRefund && inv.OriginalInvoiceNo == invoiceNo {
			return cloneInvoice(inv), nil
		}
	}
	return nil, nil
}

func (r *InvoiceRepo) List(_ context.Context, f repository.SalesInvoiceFilter) ([]*entity.SalesInvoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.SalesInvoice
	for _, inv := range r.s.Invoices {
		if f.Kind != "" && inv.Kind != f.Kind {
			continue
		}
		if f.Status != "" && inv.Status != f.Status {
			continue
		}
		list = append(list, cloneInvoice(inv))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return page(list, f.Limit, f.Offset), nil
}

func (r *InvoiceRepo) UpdateSubmission(_ context.Context, inv *entity.SalesInvoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("invoices.UpdateSubmission"); err != nil {
		return err
	}
	cur, ok := r.s.Invoices[inv.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Status = inv.Status
	cur.ErrorMessage = inv.ErrorMessage
	cur.ResultCode = inv.ResultCode
	cur.Attempts = inv.Attempts
	cur.ReceiptNo = inv.ReceiptNo
	cur.TotalReceiptNo = inv.TotalReceiptNo
	cur.InternalData = inv.InternalData
	cur.ReceiptSignature = inv.ReceiptSignature
	cur.SdcID = inv.SdcID
	cur.MrcNo = inv.MrcNo
	cur.SdcDateTime = inv.SdcDateTime
	cur.UpdatedAt = inv.UpdatedAt
	r.s.Invoices[inv.ID] = cur
	return nil
}

func (r *InvoiceRepo) UpdateLines(_ context.Context, in *entity.SalesInvoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("invoices.UpdateLines"); err != nil {
		return err
	}
	inv, ok := r.s.Invoices[in.ID]
	if !ok {
		return domain.ErrNotFound
	}
	byID := make(map[string]entity.SalesInvoiceItem, len(in.Items))
	for _, it := range in.Items {
		byID[it.ID] = it
	}
	items := make([]entity.SalesInvoiceItem, len(inv.Items))
	for i, it := range inv.Items {
		if upd, ok := byID[it.ID]; ok {
			it.ItemCd, it.ItemClsCd = upd.ItemCd, upd.ItemClsCd
			it.TaxType, it.PkgUnitCd, it.QtyUnitCd = upd.TaxType, upd.PkgUnitCd, upd.QtyUnitCd
			it.SupplyAmount, it.TaxableAmount = upd.SupplyAmount, upd.TaxableAmount
			it.TaxAmount, it.TotalAmount = upd.TaxAmount, upd.TotalAmount
		}
		items[i] = it
	}
	inv.Items = items
	inv.TaxableAmount, inv.TaxAmount, inv.TotalAmount = in.TaxableAmount, in.TaxAmount, in.TotalAmount
	inv.UpdatedAt = in.UpdatedAt
	r.s.Invoices[in.ID] = inv
	return nil
}

type AdjustmentRepo struct{ s *Store }

func (s *Store) AdjustmentRepo() *AdjustmentRepo { return &AdjustmentRepo{s: s} }

var _ repository.StockAdjustmentRepository = (*AdjustmentRepo)(nil)

func (r *AdjustmentRepo) Create(_ context.Context, a *entity.StockAdjustment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.Adjustments[a.ID] = *a
	return nil
}

func (r *AdjustmentRepo) GetByID(_ context.Context, id string) (*entity.StockAdjustment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.Adjustments[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *AdjustmentRepo) ListByIngredient(_ context.Context, ingredientID string, limit, offset int) ([]*entity.StockAdjustment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.StockAdjustment
	for _, a := range r.s.Adjustments {
		if ingredientID != "" && a.IngredientID != ingredientID {
			continue
		}
		a := a
		list = append(list, &a)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return page(list, limit, offset), nil
}

func (r *AdjustmentRepo) UpdateSubmission(_ context.Context, id string, sarNo int64, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.Adjustments[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.SarNo = sarNo
	a.KRAStatus = status
	r.s.Adjustments[id] = a
	return nil
}

type RegistrationRepo struct{ s *Store }

func (s *Store) RegistrationRepo() *RegistrationRepo { return &RegistrationRepo{s: s} }

var _ repository.KRARegistrationRepository = (*RegistrationRepo)(nil)

func (r *RegistrationRepo) Create(_ context.Context, reg *entity.KRARegistration) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.Registrations = append(r.s.Registrations, *reg)
	return nil
}

func (r *RegistrationRepo) GetActive(_ context.Context) (*entity.KRARegistration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("registrations.GetActive"); err != nil {
		return nil, err
	}
	for i := len(r.s.Registrations) - 1; i >= 0; i-- {
		if reg := r.s.Registrations[i]; reg.Status == entity.RegistrationSuccess {
			return &reg, nil
		}
	}
	return nil, nil
}

func (r *RegistrationRepo) List(_ context.Context, limit, offset int) ([]*entity.KRARegistration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := make([]*entity.KRARegistration, 0, len(r.s.Registrations))
	for i := len(r.s.Registrations) - 1; i >= 0; i-- {
		reg := r.s.Registrations[i]
		list = append(list, &reg)
	}
	return page(list, limit, offset), nil
}

type TransactionRepo struct{ s *Store }

func (s *Store) TransactionRepo() *TransactionRepo { return &TransactionRepo{s: s} }

var _ repository.KRATransactionRepository = (*TransactionRepo)(nil)

func (r *TransactionRepo) Create(_ context.Context, t *entity.KRATransaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.Transactions = append(r.s.Transactions, *t)
	return nil
}

func (r *TransactionRepo) ListByReference(_ context.Context, referenceID string) ([]*entity.KRATransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.KRATransaction
	for _, t := range r.s.Transactions {
		if t.ReferenceID == referenceID {
			t := t
			list = append(list, &t)
		}
	}
	return list, nil
}

// ErrInjected error genérico para Fail.
var ErrInjected = errors.New("memstore: falla inyectada")
