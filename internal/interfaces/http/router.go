package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hcsmart/surgimart-api/internal/application/expenses"
	"github.com/hcsmart/surgimart-api/internal/application/inventory"
	"github.com/hcsmart/surgimart-api/internal/application/returns"
	"github.com/hcsmart/surgimart-api/internal/application/sales"
	"github.com/hcsmart/surgimart-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC        *usecase.ProductUseCase
	CustomerUC       *usecase.CustomerUseCase
	CreateSale       *sales.CreateSaleUseCase
	FindSale         *sales.FindSaleUseCase
	CreateReturn     *returns.CreateReturnUseCase
	ReturnStatus     *returns.UpdateReturnStatusUseCase
	QueryReturn      *returns.QueryReturnUseCase
	ReturnPDF        *returns.PDFUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	ExpenseUC        *expenses.ExpenseUseCase
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)

	// Customers (protegido)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)

	// Sales (protegido)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.CreateSale, deps.FindSale)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/lookup", saleHandler.Lookup)
	salesGroup.Get("/:id", saleHandler.GetByID)

	// Returns (protegido)
	returnsGroup := protected.Group("/returns")
	returnHandler := NewReturnHandler(deps.CreateReturn, deps.ReturnStatus, deps.QueryReturn, deps.ReturnPDF)
	returnsGroup.Post("/", returnHandler.Create)
	returnsGroup.Get("/", returnHandler.List)
	returnsGroup.Get("/:id", returnHandler.GetByID)
	returnsGroup.Post("/:id/complete", returnHandler.Complete)
	returnsGroup.Post("/:id/cancel", returnHandler.Cancel)
	returnsGroup.Get("/:id/pdf", returnHandler.CreditNotePDF)

	// Inventory movements (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement)
	invGroup.Post("/movements", inventoryHandler.RegisterMovement)
	invGroup.Get("/movements", inventoryHandler.ListMovements)

	// Expenses (protegido)
	expensesGroup := protected.Group("/expenses")
	expenseHandler := NewExpenseHandler(deps.ExpenseUC)
	expensesGroup.Post("/", expenseHandler.Create)
	expensesGroup.Get("/", expenseHandler.List)
	expensesGroup.Get("/:id", expenseHandler.GetByID)
	expensesGroup.Delete("/:id", expenseHandler.Delete)
}
