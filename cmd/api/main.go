package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Cafeteria-api/internal/application/auth"
	"github.com/jhoicas/Cafeteria-api/internal/application/catalog"
	appetims "github.com/jhoicas/Cafeteria-api/internal/application/etims"
	"github.com/jhoicas/Cafeteria-api/internal/application/inventory"
	"github.com/jhoicas/Cafeteria-api/internal/application/orders"
	infraetims "github.com/jhoicas/Cafeteria-api/internal/infrastructure/etims"
	infrapdf "github.com/jhoicas/Cafeteria-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Cafeteria-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Cafeteria-api/internal/infrastructure/rabbitmq"
	httpRouter "github.com/jhoicas/Cafeteria-api/internal/interfaces/http"
	"github.com/jhoicas/Cafeteria-api/pkg/config"
	"github.com/jhoicas/Cafeteria-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("kra_base_url", cfg.KRA.BaseURL).
		Str("log_level", cfg.App.LogLevel).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	if len(applied) > 0 {
		log.Info().Strs("migrations", applied).Msg("migraciones aplicadas")
	}

	userRepo := postgres.NewUserRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	ingredientRepo := postgres.NewIngredientRepository(pool)
	recipeRepo := postgres.NewRecipeRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	invoiceRepo := postgres.NewSalesInvoiceRepository(pool)
	adjustmentRepo := postgres.NewStockAdjustmentRepository(pool)
	registrationRepo := postgres.NewKRARegistrationRepository(pool)
	kraTxRepo := postgres.NewKRATransactionRepository(pool)
	sequenceRepo := postgres.NewSequenceRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Métricas: registro propio para no exponer colectores de librerías que no usamos.
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	kraMetrics := infraetims.NewMetrics(registry)

	// Caché de catálogos KRA (opcional)
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient, err = infraetims.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn().Err(err).Msg("Redis no disponible: catálogos KRA sin caché")
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a RabbitMQ")
	}
	defer publisher.Close()

	etimsUC := appetims.NewUseCase(appetims.Deps{
		Tx:            txRunner,
		Invoices:      invoiceRepo,
		Orders:        orderRepo,
		Customers:     customerRepo,
		Recipes:       recipeRepo,
		Ingredients:   ingredientRepo,
		Adjustments:   adjustmentRepo,
		Registrations: registrationRepo,
		Transactions:  kraTxRepo,
		Sequences:     sequenceRepo,
		Gateway:       infraetims.NewClient(cfg.KRA.BaseURL, cfg.KRA.Timeout, kraMetrics),
		Cache:         infraetims.NewRedisCache(redisClient, cfg.KRA.CacheTTL, kraMetrics),
		Renderer:      infrapdf.NewReceiptGenerator(),
		Config: appetims.Config{
			TIN:          cfg.KRA.TIN,
			BhfID:        cfg.KRA.BhfID,
			DeviceSerial: cfg.KRA.DeviceSerial,
			ReceiptURL:   cfg.KRA.ReceiptURL,
			PendingRetry: cfg.KRA.PendingRetry,
		},
		Logger: log,
	})

	userUC := auth.NewUserUseCase(userRepo, log)
	if err := userUC.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		log.Fatal().Err(err).Msg("crear administrador inicial")
	}
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)

	app := httpRouter.NewApp(cfg.App.Name, log)

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Cafeteria API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		UserUC:       userUC,
		CustomerUC:   catalog.NewCustomerUseCase(customerRepo),
		SupplierUC:   catalog.NewSupplierUseCase(supplierRepo),
		IngredientUC: catalog.NewIngredientUseCase(ingredientRepo, supplierRepo),
		RecipeUC:     catalog.NewRecipeUseCase(txRunner, recipeRepo, ingredientRepo),
		OrderUC:      orders.NewUseCase(txRunner, orderRepo, recipeRepo, customerRepo, publisher, log),
		InventoryUC:  inventory.NewUseCase(txRunner, ingredientRepo, adjustmentRepo, etimsUC, log),
		EtimsUC:      etimsUC,
		JWTSecret:    cfg.JWT.Secret,
		SecureCookie: cfg.App.Env == "production",
		Gatherer:     registry,
		AppName:      cfg.App.Name,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
