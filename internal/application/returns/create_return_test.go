package returns_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hcsmart/surgimart-api/internal/application/dto"
	appreturns "github.com/hcsmart/surgimart-api/internal/application/returns"
	"github.com/hcsmart/surgimart-api/internal/domain"
	"github.com/hcsmart/surgimart-api/internal/domain/entity"
	"github.com/hcsmart/surgimart-api/internal/domain/repository"
	domret "github.com/hcsmart/surgimart-api/internal/domain/returns"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria: una tienda compartida detrás de los cuatro repositorios
// que participan en la transacción de devolución.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	sale        *entity.Sale
	saleItems   []*entity.SaleItem
	stocks      map[string]*entity.Stock
	movements   []*entity.StockMovement
	returns     map[string]*entity.Return
	returnItems map[string][]*entity.ReturnItem
}

func newMemStore(sale *entity.Sale, items []*entity.SaleItem) *memStore {
	return &memStore{
		sale:        sale,
		saleItems:   items,
		stocks:      make(map[string]*entity.Stock),
		returns:     make(map[string]*entity.Return),
		returnItems: make(map[string][]*entity.ReturnItem),
	}
}

type fakeSaleRepo struct{ s *memStore }

func (r *fakeSaleRepo) Create(*entity.Sale) error         { return nil }
func (r *fakeSaleRepo) CreateItem(*entity.SaleItem) error { return nil }
func (r *fakeSaleRepo) GetByID(string) (*entity.Sale, error) {
	return r.s.sale, nil
}
func (r *fakeSaleRepo) GetByInvoiceNumber(invoice string) (*entity.Sale, error) {
	if r.s.sale != nil && r.s.sale.InvoiceNumber == invoice {
		return r.s.sale, nil
	}
	return nil, nil
}
func (r *fakeSaleRepo) FindByInvoicePrefix(string, int) ([]*entity.Sale, error) {
	return nil, nil
}
func (r *fakeSaleRepo) GetItemsBySaleID(string) ([]*entity.SaleItem, error) {
	return r.s.saleItems, nil
}
func (r *fakeSaleRepo) GetItemForUpdate(itemID string) (*entity.SaleItem, error) {
	for _, it := range r.s.saleItems {
		if it.ID == itemID {
			return it, nil
		}
	}
	return nil, nil
}
func (r *fakeSaleRepo) UpdateItemReturnedQuantity(itemID string, returned decimal.Decimal) error {
	for _, it := range r.s.saleItems {
		if it.ID == itemID {
			it.ReturnedQuantity = returned
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeReturnRepo struct{ s *memStore }

func (r *fakeReturnRepo) Create(ret *entity.Return) error {
	r.s.returns[ret.ID] = ret
	return nil
}
func (r *fakeReturnRepo) CreateItem(item *entity.ReturnItem) error {
	r.s.returnItems[item.ReturnID] = append(r.s.returnItems[item.ReturnID], item)
	return nil
}
func (r *fakeReturnRepo) GetByID(id string) (*entity.Return, error) {
	return r.s.returns[id], nil
}
func (r *fakeReturnRepo) GetItemsByReturnID(returnID string) ([]*entity.ReturnItem, error) {
	return r.s.returnItems[returnID], nil
}
func (r *fakeReturnRepo) List(string, int, int) ([]*entity.Return, error) { return nil, nil }
func (r *fakeReturnRepo) UpdateStatus(id, status string) error {
	ret, ok := r.s.returns[id]
	if !ok {
		return domain.ErrNotFound
	}
	if ret.Status != entity.ReturnStatusPending {
		return domain.ErrConflict
	}
	ret.Status = status
	return nil
}

// staleReturnRepo devuelve lecturas con estado pending aunque la tienda ya
// tenga la devolución en estado terminal, simulando una transición
// concurrente que gana la carrera entre la lectura y el UPDATE.
type staleReturnRepo struct{ fakeReturnRepo }

func (r *staleReturnRepo) GetByID(id string) (*entity.Return, error) {
	ret, ok := r.s.returns[id]
	if !ok {
		return nil, nil
	}
	clone := *ret
	clone.Status = entity.ReturnStatusPending
	return &clone, nil
}

type fakeStockRepo struct{ s *memStore }

func (r *fakeStockRepo) Get(productID string) (*entity.Stock, error) {
	return r.GetForUpdate(productID)
}
func (r *fakeStockRepo) GetForUpdate(productID string) (*entity.Stock, error) {
	if st, ok := r.s.stocks[productID]; ok {
		return st, nil
	}
	return &entity.Stock{ProductID: productID, Quantity: decimal.Zero}, nil
}
func (r *fakeStockRepo) Upsert(stock *entity.Stock) error {
	r.s.stocks[stock.ProductID] = stock
	return nil
}

type fakeMovementRepo struct{ s *memStore }

func (r *fakeMovementRepo) Create(m *entity.StockMovement) error {
	r.s.movements = append(r.s.movements, m)
	return nil
}
func (r *fakeMovementRepo) ListByProduct(string, int, int) ([]*entity.StockMovement, error) {
	return r.s.movements, nil
}
func (r *fakeMovementRepo) ListByReference(string, string) ([]*entity.StockMovement, error) {
	return r.s.movements, nil
}

// fakeTxRunner ejecuta el closure directamente sobre la tienda compartida.
// returnRepo permite sustituir el repositorio de devoluciones dentro de la tx.
type fakeTxRunner struct {
	s          *memStore
	returnRepo repository.ReturnRepository
}

func (t *fakeTxRunner) RunReturn(_ context.Context, fn func(
	repository.SaleRepository,
	repository.ReturnRepository,
	repository.StockRepository,
	repository.StockMovementRepository,
) error) error {
	returnRepo := t.returnRepo
	if returnRepo == nil {
		returnRepo = &fakeReturnRepo{t.s}
	}
	return fn(&fakeSaleRepo{t.s}, returnRepo, &fakeStockRepo{t.s}, &fakeMovementRepo{t.s})
}

// fakeFinder arma la venta devolvible desde la tienda, con el acumulado
// devuelto vigente al momento de la búsqueda.
type fakeFinder struct{ s *memStore }

func (f *fakeFinder) FindSale(_ context.Context, invoiceNumber string) (*domret.ReturnableSale, error) {
	if f.s.sale == nil || f.s.sale.InvoiceNumber != invoiceNumber {
		return nil, domain.ErrSaleNotFound
	}
	rs := &domret.ReturnableSale{Sale: *f.s.sale}
	for _, it := range f.s.saleItems {
		rs.Items = append(rs.Items, domret.ReturnableItem{
			SaleItemID:       it.ID,
			ProductID:        it.ProductID,
			SKU:              it.SKU,
			Name:             it.Name,
			UnitPrice:        it.UnitPrice,
			OriginalQuantity: it.Quantity,
			ReturnedQuantity: it.ReturnedQuantity,
		})
	}
	return rs, nil
}

func dec(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

// buildStore: venta INV-001 de dos líneas, subtotal 1000, descuento 100,
// IVA 190. Línea 0: 5 x $100. Línea 1: 2 x $250 con 1 ya devuelta.
func buildStore() *memStore {
	sale := &entity.Sale{
		ID:            "sale-001",
		InvoiceNumber: "INV-001",
		CustomerName:  "Clínica San Rafael",
		Subtotal:      dec("1000"),
		Discount:      dec("100"),
		VATAmount:     dec("190"),
		GrandTotal:    dec("1090"),
	}
	items := []*entity.SaleItem{
		{
			ID: "item-1", SaleID: "sale-001", ProductID: "prod-001",
			Name: "Gasa estéril 10x10", Quantity: dec("5"),
			UnitPrice: dec("100"), LineTotal: dec("500"),
		},
		{
			ID: "item-2", SaleID: "sale-001", ProductID: "prod-002",
			Name: "Bisturí desechable #22", Quantity: dec("2"),
			UnitPrice: dec("250"), LineTotal: dec("500"),
			ReturnedQuantity: dec("1"),
		},
	}
	s := newMemStore(sale, items)
	s.stocks["prod-001"] = &entity.Stock{ProductID: "prod-001", Quantity: dec("10")}
	return s
}

func newUseCase(s *memStore) *appreturns.CreateReturnUseCase {
	return appreturns.NewCreateReturnUseCase(&fakeTxRunner{s: s}, &fakeFinder{s})
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateReturn
// ──────────────────────────────────────────────────────────────────────────────

// Devolución parcial de 2 unidades de la línea 0: se persisten devolución,
// línea, acumulado, stock y libro, con descuento e IVA proporcionales (20%).
func TestCreateReturn_ParcialPersisteTodo(t *testing.T) {
	s := buildStore()
	uc := newUseCase(s)

	resp, err := uc.CreateReturn(context.Background(), "user-1", dto.CreateReturnRequest{
		InvoiceNumber: "INV-001",
		ReturnReason:  entity.ReturnReasonDamaged,
		RefundMethod:  entity.RefundMethodCash,
		Items: []dto.ReturnItemInput{
			{LineIndex: 0, ReturnQuantity: dec("2")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.ReturnTypePartial, resp.ReturnType)
	assert.Equal(t, "200.00", resp.Subtotal.StringFixed(2))
	assert.Equal(t, "20.00", resp.Discount.StringFixed(2))
	assert.Equal(t, "38.00", resp.VATAmount.StringFixed(2))
	assert.Equal(t, "218.00", resp.TotalRefund.StringFixed(2))
	assert.Equal(t, entity.ReturnStatusPending, resp.Status)
	require.Len(t, resp.Items, 1)

	// acumulado en la línea de venta
	assert.Equal(t, "2", s.saleItems[0].ReturnedQuantity.String())

	// stock reingresado y entrada del libro
	assert.Equal(t, "12", s.stocks["prod-001"].Quantity.String())
	require.Len(t, s.movements, 1)
	m := s.movements[0]
	assert.Equal(t, entity.MovementTypeReturn, m.MovementType)
	assert.Equal(t, "10", m.PreviousQty.String())
	assert.Equal(t, "12", m.NewQty.String())
	assert.Equal(t, resp.ID, m.ReferenceID)

	// devolución y línea persistidas
	require.Contains(t, s.returns, resp.ID)
	require.Len(t, s.returnItems[resp.ID], 1)
	assert.Equal(t, "item-1", s.returnItems[resp.ID][0].SaleItemID)
}

// Devolver todo el remanente de ambas líneas deriva tipo full.
func TestCreateReturn_RemanenteCompletoEsFull(t *testing.T) {
	s := buildStore()
	uc := newUseCase(s)

	resp, err := uc.CreateReturn(context.Background(), "user-1", dto.CreateReturnRequest{
		InvoiceNumber: "INV-001",
		ReturnReason:  entity.ReturnReasonExpired,
		Items: []dto.ReturnItemInput{
			{LineIndex: 0, ReturnQuantity: dec("5")},
			{LineIndex: 1, ReturnQuantity: dec("1")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.ReturnTypeFull, resp.ReturnType)
	assert.Equal(t, "750.00", resp.Subtotal.StringFixed(2))
}

// Cantidad por encima del remanente de la línea: la selección la rechaza
// el asistente antes de tocar la persistencia.
func TestCreateReturn_SuperaRemanente(t *testing.T) {
	s := buildStore()
	uc := newUseCase(s)

	_, err := uc.CreateReturn(context.Background(), "user-1", dto.CreateReturnRequest{
		InvoiceNumber: "INV-001",
		ReturnReason:  entity.ReturnReasonDamaged,
		Items: []dto.ReturnItemInput{
			{LineIndex: 1, ReturnQuantity: dec("2")}, // remanente: 1
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.Empty(t, s.returns, "no debe persistirse nada")
	assert.Empty(t, s.movements)
}

// Factura inexistente.
func TestCreateReturn_FacturaInexistente(t *testing.T) {
	uc := newUseCase(buildStore())

	_, err := uc.CreateReturn(context.Background(), "user-1", dto.CreateReturnRequest{
		InvoiceNumber: "INV-999",
		ReturnReason:  entity.ReturnReasonDamaged,
		Items:         []dto.ReturnItemInput{{LineIndex: 0, ReturnQuantity: dec("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrSaleNotFound)
}

// Entrada incompleta: sin factura o sin líneas.
func TestCreateReturn_EntradaIncompleta(t *testing.T) {
	uc := newUseCase(buildStore())

	_, err := uc.CreateReturn(context.Background(), "user-1", dto.CreateReturnRequest{
		ReturnReason: entity.ReturnReasonDamaged,
		Items:        []dto.ReturnItemInput{{LineIndex: 0, ReturnQuantity: dec("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreateReturn(context.Background(), "user-1", dto.CreateReturnRequest{
		InvoiceNumber: "INV-001",
		ReturnReason:  entity.ReturnReasonDamaged,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de vida: pending -> completed | cancelled, terminal después
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateReturnStatus_CompleteYTerminal(t *testing.T) {
	s := buildStore()
	uc := newUseCase(s)

	resp, err := uc.CreateReturn(context.Background(), "user-1", dto.CreateReturnRequest{
		InvoiceNumber: "INV-001",
		ReturnReason:  entity.ReturnReasonDamaged,
		Items:         []dto.ReturnItemInput{{LineIndex: 0, ReturnQuantity: dec("2")}},
	})
	require.NoError(t, err)

	statusUC := appreturns.NewUpdateReturnStatusUseCase(&fakeTxRunner{s: s}, &fakeReturnRepo{s})

	require.NoError(t, statusUC.Complete(context.Background(), resp.ID))
	assert.Equal(t, entity.ReturnStatusCompleted, s.returns[resp.ID].Status)

	assert.ErrorIs(t, statusUC.Complete(context.Background(), resp.ID), domain.ErrConflict,
		"completed es terminal")
	assert.ErrorIs(t, statusUC.Cancel(context.Background(), "user-1", resp.ID), domain.ErrConflict,
		"un estado terminal no admite cancelación")
}

// Cancelar revierte acumulado y stock, y deja la entrada compensatoria en el
// libro sin borrar la original.
func TestUpdateReturnStatus_CancelRevierte(t *testing.T) {
	s := buildStore()
	uc := newUseCase(s)

	resp, err := uc.CreateReturn(context.Background(), "user-1", dto.CreateReturnRequest{
		InvoiceNumber: "INV-001",
		ReturnReason:  entity.ReturnReasonDamaged,
		Items:         []dto.ReturnItemInput{{LineIndex: 0, ReturnQuantity: dec("2")}},
	})
	require.NoError(t, err)
	require.Equal(t, "12", s.stocks["prod-001"].Quantity.String())

	statusUC := appreturns.NewUpdateReturnStatusUseCase(&fakeTxRunner{s: s}, &fakeReturnRepo{s})
	require.NoError(t, statusUC.Cancel(context.Background(), "user-1", resp.ID))

	assert.Equal(t, entity.ReturnStatusCancelled, s.returns[resp.ID].Status)
	assert.Equal(t, "0", s.saleItems[0].ReturnedQuantity.String(), "acumulado revertido")
	assert.Equal(t, "10", s.stocks["prod-001"].Quantity.String(), "stock revertido")

	require.Len(t, s.movements, 2, "el libro conserva la entrada original más la compensatoria")
	comp := s.movements[1]
	assert.Equal(t, entity.MovementTypeAdjustment, comp.MovementType)
	assert.True(t, comp.Quantity.IsNegative())
	assert.Equal(t, "12", comp.PreviousQty.String())
	assert.Equal(t, "10", comp.NewQty.String())

	assert.ErrorIs(t, statusUC.Cancel(context.Background(), "user-1", resp.ID), domain.ErrConflict,
		"cancelled es terminal")
}

// Si otra transición se confirma entre la lectura y el UPDATE, el UPDATE
// condicional devuelve ErrConflict y el estado terminal no se sobrescribe.
func TestUpdateReturnStatus_TransicionConcurrenteNoSePisa(t *testing.T) {
	s := buildStore()
	uc := newUseCase(s)

	resp, err := uc.CreateReturn(context.Background(), "user-1", dto.CreateReturnRequest{
		InvoiceNumber: "INV-001",
		ReturnReason:  entity.ReturnReasonDamaged,
		Items:         []dto.ReturnItemInput{{LineIndex: 0, ReturnQuantity: dec("2")}},
	})
	require.NoError(t, err)

	// otra caja completa la devolución después de que esta sesión la leyó
	s.returns[resp.ID].Status = entity.ReturnStatusCompleted

	stale := &staleReturnRepo{fakeReturnRepo{s}}
	statusUC := appreturns.NewUpdateReturnStatusUseCase(&fakeTxRunner{s: s, returnRepo: stale}, stale)

	err = statusUC.Cancel(context.Background(), "user-1", resp.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, entity.ReturnStatusCompleted, s.returns[resp.ID].Status,
		"completed nunca se sobrescribe")

	err = statusUC.Complete(context.Background(), resp.ID)
	assert.ErrorIs(t, err, domain.ErrConflict, "tampoco por la vía de aprobación")
}

// El filtro de estado del listado solo admite valores del enum.
func TestQueryReturn_ListFiltroDeEstado(t *testing.T) {
	s := buildStore()
	queryUC := appreturns.NewQueryReturnUseCase(&fakeReturnRepo{s})

	_, err := queryUC.List(context.Background(), "refunded", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = queryUC.List(context.Background(), entity.ReturnStatusPending, dto.PageRequest{})
	assert.NoError(t, err)

	_, err = queryUC.List(context.Background(), "", dto.PageRequest{})
	assert.NoError(t, err, "sin filtro se listan todas")
}
