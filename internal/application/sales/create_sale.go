package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hcsmart/surgimart-api/internal/application/dto"
	"github.com/hcsmart/surgimart-api/internal/domain"
	"github.com/hcsmart/surgimart-api/internal/domain/entity"
	"github.com/hcsmart/surgimart-api/internal/domain/repository"
)

// CreateSaleUseCase crea una venta y descuenta el inventario en una sola
// transacción, con bloqueo de fila en stock (SELECT FOR UPDATE).
type CreateSaleUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
}

// NewCreateSaleUseCase construye el caso de uso.
func NewCreateSaleUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
) *CreateSaleUseCase {
	return &CreateSaleUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		customerRepo: customerRepo,
	}
}

var validPaymentMethods = map[string]bool{
	entity.PaymentMethodCash: true,
	entity.PaymentMethodBank: true,
	entity.PaymentMethodCard: true,
}

// CreateSale valida las líneas, descuenta el stock por cada una (rollback si
// alguna no alcanza) y persiste cabecera y líneas con sus totales.
func (uc *CreateSaleUseCase) CreateSale(ctx context.Context, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Items) == 0 || !validPaymentMethods[in.PaymentMethod] {
		return nil, domain.ErrInvalidInput
	}
	if in.Discount.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	// Validar productos y precios (fuera de la tx, solo lectura).
	productsByID := make(map[string]*entity.Product)
	for i := range in.Items {
		item := &in.Items[i]
		if item.ProductID == "" || !item.Quantity.IsInteger() || !item.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		productsByID[item.ProductID] = product
		if item.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if item.UnitPrice.IsZero() {
			in.Items[i].UnitPrice = product.Price
		}
	}

	// Cliente opcional: si viene, se copia su snapshot a la venta.
	customerName, customerPhone := "", ""
	customerType := entity.CustomerTypeWalkIn
	if in.CustomerID != "" {
		customer, err := uc.customerRepo.GetByID(in.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, domain.ErrNotFound
		}
		customerName = customer.Name
		customerPhone = customer.Phone
		customerType = customer.Type
	}

	now := time.Now()
	saleID := uuid.New().String()
	invoiceNumber := fmt.Sprintf("INV-%d", now.Unix())

	// Totales: subtotal por líneas, IVA según la tarifa del producto,
	// descuento de la petición (nunca mayor que el subtotal).
	var subtotal, vatTotal decimal.Decimal
	for _, item := range in.Items {
		product := productsByID[item.ProductID]
		lineTotal := item.Quantity.Mul(item.UnitPrice).Round(2)
		subtotal = subtotal.Add(lineTotal)
		vatTotal = vatTotal.Add(lineTotal.Mul(normalizeTaxRate(product.TaxRate)))
	}
	vatTotal = vatTotal.Round(2)
	if in.Discount.GreaterThan(subtotal) {
		return nil, domain.ErrInvalidInput
	}

	sale := &entity.Sale{
		ID:            saleID,
		InvoiceNumber: invoiceNumber,
		CustomerID:    in.CustomerID,
		CustomerName:  customerName,
		CustomerPhone: customerPhone,
		CustomerType:  customerType,
		Subtotal:      subtotal,
		Discount:      in.Discount.Round(2),
		VATAmount:     vatTotal,
		GrandTotal:    subtotal.Sub(in.Discount.Round(2)).Add(vatTotal),
		PaymentMethod: in.PaymentMethod,
		Date:          now,
		CreatedAt:     now,
		CreatedBy:     userID,
	}

	var saleItems []*entity.SaleItem
	err := uc.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		stockRepo repository.StockRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		// Descuento de stock línea a línea; si alguna no alcanza, rollback.
		for _, item := range in.Items {
			product := productsByID[item.ProductID]
			stock, err := stockRepo.GetForUpdate(item.ProductID)
			if err != nil {
				return err
			}
			if stock.Quantity.LessThan(item.Quantity) {
				return domain.ErrInsufficientStock
			}
			prev := stock.Quantity
			stock.Quantity = prev.Sub(item.Quantity)
			stock.UpdatedAt = now
			if err := stockRepo.Upsert(stock); err != nil {
				return err
			}
			if err := movementRepo.Create(&entity.StockMovement{
				ID:              uuid.New().String(),
				ProductID:       item.ProductID,
				ProductName:     product.Name,
				MovementType:    entity.MovementTypeSale,
				Quantity:        item.Quantity.Neg(),
				PreviousQty:     prev,
				NewQty:          stock.Quantity,
				ReferenceType:   entity.ReferenceTypeSale,
				ReferenceID:     saleID,
				ReferenceNumber: invoiceNumber,
				CreatedAt:       now,
				CreatedBy:       userID,
			}); err != nil {
				return err
			}
		}

		if err := saleRepo.Create(sale); err != nil {
			return err
		}
		for _, item := range in.Items {
			product := productsByID[item.ProductID]
			saleItem := &entity.SaleItem{
				ID:               uuid.New().String(),
				SaleID:           saleID,
				ProductID:        item.ProductID,
				SKU:              product.SKU,
				Name:             product.Name,
				Quantity:         item.Quantity,
				UnitPrice:        item.UnitPrice,
				LineTotal:        item.Quantity.Mul(item.UnitPrice).Round(2),
				ReturnedQuantity: decimal.Zero,
			}
			if err := saleRepo.CreateItem(saleItem); err != nil {
				return err
			}
			saleItems = append(saleItems, saleItem)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toSaleResponse(sale, saleItems), nil
}

// normalizeTaxRate admite tarifas como fracción (0.19) o porcentaje (19).
func normalizeTaxRate(rate decimal.Decimal) decimal.Decimal {
	if rate.GreaterThan(decimal.NewFromInt(1)) {
		return rate.Div(decimal.NewFromInt(100))
	}
	return rate
}
