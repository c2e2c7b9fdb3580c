package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/hcsmart/surgimart-api/internal/application/expenses"
	"github.com/hcsmart/surgimart-api/internal/application/inventory"
	appreturns "github.com/hcsmart/surgimart-api/internal/application/returns"
	"github.com/hcsmart/surgimart-api/internal/application/sales"
	"github.com/hcsmart/surgimart-api/internal/application/usecase"
	infrapdf "github.com/hcsmart/surgimart-api/internal/infrastructure/pdf"
	"github.com/hcsmart/surgimart-api/internal/infrastructure/postgres"
	httpRouter "github.com/hcsmart/surgimart-api/internal/interfaces/http"
	"github.com/hcsmart/surgimart-api/pkg/config"
	"github.com/hcsmart/surgimart-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Service: cfg.App.Name,
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
	})
	log.Info().Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	returnRepo := postgres.NewReturnRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	expenseRepo := postgres.NewExpenseRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	productUC := usecase.NewProductUseCase(productRepo, stockRepo)
	customerUC := usecase.NewCustomerUseCase(customerRepo)

	findSaleUC := sales.NewFindSaleUseCase(saleRepo)
	createSaleUC := sales.NewCreateSaleUseCase(txRunner, productRepo, customerRepo)

	createReturnUC := appreturns.NewCreateReturnUseCase(txRunner, findSaleUC)
	returnStatusUC := appreturns.NewUpdateReturnStatusUseCase(txRunner, returnRepo)
	queryReturnUC := appreturns.NewQueryReturnUseCase(returnRepo)

	// PDF: nota crédito imprimible de la devolución
	creditNoteGen := infrapdf.NewMarotoCreditNoteGenerator()
	returnPDFUC := appreturns.NewPDFUseCase(returnRepo, creditNoteGen)

	registerMovementUC := inventory.NewRegisterMovementUseCase(txRunner, productRepo, movementRepo)
	expenseUC := expenses.NewExpenseUseCase(expenseRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Surgimart API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:        productUC,
		CustomerUC:       customerUC,
		CreateSale:       createSaleUC,
		FindSale:         findSaleUC,
		CreateReturn:     createReturnUC,
		ReturnStatus:     returnStatusUC,
		QueryReturn:      queryReturnUC,
		ReturnPDF:        returnPDFUC,
		RegisterMovement: registerMovementUC,
		ExpenseUC:        expenseUC,
		JWTSecret:        cfg.JWT.Secret,
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
