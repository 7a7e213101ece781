package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Cafeteria-api/internal/application/auth"
	"github.com/jhoicas/Cafeteria-api/internal/application/catalog"
	"github.com/jhoicas/Cafeteria-api/internal/application/etims"
	"github.com/jhoicas/Cafeteria-api/internal/application/inventory"
	"github.com/jhoicas/Cafeteria-api/internal/application/orders"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	UserUC       *auth.UserUseCase
	CustomerUC   *catalog.CustomerUseCase
	SupplierUC   *catalog.SupplierUseCase
	IngredientUC *catalog.IngredientUseCase
	RecipeUC     *catalog.RecipeUseCase
	OrderUC      *orders.UseCase
	InventoryUC  *inventory.UseCase
	EtimsUC      *etims.UseCase
	JWTSecret    string
	SecureCookie bool
	// Gatherer origen de /metrics; nil = sin endpoint.
	Gatherer prometheus.Gatherer
	AppName  string
}

// NewApp crea la app Fiber con recover y el ErrorHandler de dominio.
func NewApp(name string, log *logger.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 45, // incluye el timeout hacia la KRA
		IdleTimeout:  time.Second * 60,
		ErrorHandler: ErrorHandler(log),
	})
	app.Use(recover.New())
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	val := NewValidator()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, val, deps.SecureCookie)
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/logout", authHandler.Logout)

	// Rutas protegidas (Bearer o cookie)
	protected := api.Group("", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	admin := RequireRole(entity.RoleAdmin)
	cashier := RequireRole(entity.RoleAdmin, entity.RoleCashier)
	staff := RequireRole(entity.RoleAdmin, entity.RoleCashier, entity.RoleKitchen)

	// Usuarios (admin)
	userHandler := NewUserHandler(deps.UserUC, val)
	users := protected.Group("/users", admin)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)

	// Clientes (caja)
	customerHandler := NewCustomerHandler(deps.CustomerUC, val)
	customers := protected.Group("/customers", cashier)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", admin, customerHandler.Delete)

	// Proveedores (admin)
	supplierHandler := NewSupplierHandler(deps.SupplierUC, val)
	suppliers := protected.Group("/suppliers", admin)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", supplierHandler.Delete)

	// Ingredientes: lectura para todo el personal, escritura admin
	ingredientHandler := NewIngredientHandler(deps.IngredientUC, val)
	ingredients := protected.Group("/ingredients", staff)
	ingredients.Get("/", ingredientHandler.List)
	ingredients.Get("/:id", ingredientHandler.GetByID)
	ingredients.Post("/", admin, ingredientHandler.Create)
	ingredients.Put("/:id", admin, ingredientHandler.Update)

	// Menú
	recipeHandler := NewRecipeHandler(deps.RecipeUC, val)
	recipes := protected.Group("/recipes", staff)
	recipes.Get("/", recipeHandler.List)
	recipes.Get("/:id", recipeHandler.GetByID)
	recipes.Post("/", admin, recipeHandler.Create)
	recipes.Put("/:id", admin, recipeHandler.Update)

	// Pedidos: caja crea, cocina avanza estados
	orderHandler := NewOrderHandler(deps.OrderUC, val)
	ordersGroup := protected.Group("/orders", staff)
	ordersGroup.Post("/", cashier, orderHandler.Create)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Patch("/:id/status", orderHandler.UpdateStatus)

	// Inventario (admin)
	inventoryHandler := NewInventoryHandler(deps.InventoryUC, val)
	inv := protected.Group("/inventory", admin)
	inv.Post("/adjustments", inventoryHandler.RegisterAdjustment)
	inv.Get("/adjustments", inventoryHandler.ListAdjustments)
	inv.Get("/replenishment", inventoryHandler.Replenishment)

	// eTIMS
	invoiceHandler := NewInvoiceHandler(deps.EtimsUC, val)
	etimsHandler := NewEtimsHandler(deps.EtimsUC, val)
	et := protected.Group("/etims", cashier)
	et.Post("/sales", invoiceHandler.SubmitSale)
	et.Get("/invoices", invoiceHandler.List)
	et.Get("/invoices/:id", invoiceHandler.GetByID)
	et.Post("/invoices/:id/retry", invoiceHandler.Retry)
	et.Post("/invoices/:id/refund", admin, invoiceHandler.SubmitRefund)
	et.Get("/invoices/:id/receipt.pdf", invoiceHandler.Receipt)
	et.Get("/invoices/:id/transactions", invoiceHandler.Transactions)
	et.Get("/customers/:pin", etimsHandler.LookupCustomer)
	et.Get("/item-classes", etimsHandler.ItemClassifications)
	et.Post("/device", admin, etimsHandler.InitializeDevice)
	et.Get("/device", admin, etimsHandler.Registrations)
	et.Post("/items", admin, etimsHandler.RegisterItem)
	et.Post("/stock/:adjustmentId", admin, etimsHandler.SubmitStockMovement)
	et.Get("/transactions/:referenceId", admin, etimsHandler.Transactions)
}
