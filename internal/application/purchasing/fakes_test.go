package purchasing_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallerpro/compras-api/internal/application/purchasing"
	"github.com/tallerpro/compras-api/internal/domain/entity"
	domainpurchasing "github.com/tallerpro/compras-api/internal/domain/purchasing"
	"github.com/tallerpro/compras-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles en memoria de los puertos de persistencia y notificación
// ──────────────────────────────────────────────────────────────────────────────

type fakeOrderRepo struct {
	orders map[string]*entity.PurchaseOrder
	seq    int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*entity.PurchaseOrder)}
}

func (r *fakeOrderRepo) Create(order *entity.PurchaseOrder) error {
	r.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	return r.orders[id], nil
}

func (r *fakeOrderRepo) GetForUpdate(id string) (*entity.PurchaseOrder, error) {
	return r.orders[id], nil
}

func (r *fakeOrderRepo) Update(order *entity.PurchaseOrder) error {
	if _, ok := r.orders[order.ID]; !ok {
		return errors.New("orden inexistente")
	}
	r.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) UpdateLine(line *entity.PurchaseOrderLine) error {
	order, ok := r.orders[line.OrderID]
	if !ok {
		return errors.New("orden inexistente")
	}
	for i, l := range order.Lines {
		if l.ID == line.ID {
			order.Lines[i] = line
			return nil
		}
	}
	return errors.New("línea inexistente")
}

func (r *fakeOrderRepo) List(filter repository.PurchaseOrderFilter) ([]*entity.PurchaseOrder, int, error) {
	var out []*entity.PurchaseOrder
	for _, o := range r.orders {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.SupplierID != "" && o.SupplierID != filter.SupplierID {
			continue
		}
		if filter.PendingReceipt &&
			o.Status != entity.OrderStatusSent && o.Status != entity.OrderStatusReceivedPartial {
			continue
		}
		out = append(out, o)
	}
	return out, len(out), nil
}

func (r *fakeOrderRepo) NextNumber() (string, error) {
	r.seq++
	return fmt.Sprintf("OC-%06d", r.seq), nil
}

type fakePaymentRepo struct {
	payments []*entity.Payment
}

func (r *fakePaymentRepo) Create(p *entity.Payment) error {
	r.payments = append(r.payments, p)
	return nil
}

func (r *fakePaymentRepo) ListByOrder(orderID string) ([]*entity.Payment, error) {
	var out []*entity.Payment
	for _, p := range r.payments {
		if p.OrderID == orderID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) ListByAccount(accountID string) ([]*entity.Payment, error) {
	var out []*entity.Payment
	for _, p := range r.payments {
		if p.AccountID == accountID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeSupplierRepo struct {
	suppliers map[string]*entity.Supplier
}

func (r *fakeSupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	return r.suppliers[id], nil
}

func (r *fakeSupplierRepo) List(limit, offset int) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	for _, s := range r.suppliers {
		out = append(out, s)
	}
	return out, nil
}

type fakePartRepo struct {
	parts map[string]*entity.Part
}

func (r *fakePartRepo) GetByID(id string) (*entity.Part, error) {
	return r.parts[id], nil
}

func (r *fakePartRepo) List(limit, offset int) ([]*entity.Part, error) {
	var out []*entity.Part
	for _, p := range r.parts {
		out = append(out, p)
	}
	return out, nil
}

// fakeTxRunner ejecuta la función directamente sobre los repos en memoria.
// La atomicidad real la cubren los tests de integración con PostgreSQL.
type fakeTxRunner struct {
	orderRepo   *fakeOrderRepo
	paymentRepo *fakePaymentRepo
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(repository.PurchaseOrderRepository, repository.PaymentRepository) error) error {
	return fn(r.orderRepo, r.paymentRepo)
}

type fakePDFGen struct {
	fail bool
}

func (g *fakePDFGen) GenerateOrderPDF(_ context.Context, _ *entity.PurchaseOrder, _ *entity.Supplier, _ map[string]*entity.Part) ([]byte, error) {
	if g.fail {
		return nil, errors.New("generador de PDF caído")
	}
	return []byte("%PDF-1.4"), nil
}

type fakeNotifier struct {
	fail bool
	sent int
	last *entity.PurchaseOrder
}

func (n *fakeNotifier) SendOrder(_ context.Context, order *entity.PurchaseOrder, _ *entity.Supplier, _ []byte) error {
	if n.fail {
		return errors.New("SMTP no disponible")
	}
	n.sent++
	n.last = order
	return nil
}

type fakeStockNotifier struct {
	fail   bool
	calls  int
	deltas []domainpurchasing.StockDelta
}

func (n *fakeStockNotifier) NotifyReceipt(_ context.Context, _ string, deltas []domainpurchasing.StockDelta) error {
	n.calls++
	if n.fail {
		return errors.New("inventario no disponible")
	}
	n.deltas = deltas
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Armado del entorno de prueba
// ──────────────────────────────────────────────────────────────────────────────

type env struct {
	orders    *fakeOrderRepo
	payments  *fakePaymentRepo
	suppliers *fakeSupplierRepo
	parts     *fakePartRepo
	notifier  *fakeNotifier
	stock     *fakeStockNotifier
	pdf       *fakePDFGen

	orderUC   *purchasing.OrderUseCase
	receiveUC *purchasing.ReceiveUseCase
	paymentUC *purchasing.PaymentUseCase
}

func newEnv() *env {
	e := &env{
		orders:   newFakeOrderRepo(),
		payments: &fakePaymentRepo{},
		suppliers: &fakeSupplierRepo{suppliers: map[string]*entity.Supplier{
			"s1": {ID: "s1", Name: "Repuestos El Cigüeñal", Email: "ventas@ciguenal.co", Status: "active"},
		}},
		parts: &fakePartRepo{parts: map[string]*entity.Part{
			"p1": {ID: "p1", Code: "FLT-001", Name: "Filtro de aceite"},
			"p2": {ID: "p2", Code: "PAS-010", Name: "Pastillas de freno"},
		}},
		notifier: &fakeNotifier{},
		stock:    &fakeStockNotifier{},
		pdf:      &fakePDFGen{},
	}
	tx := &fakeTxRunner{orderRepo: e.orders, paymentRepo: e.payments}
	e.orderUC = purchasing.NewOrderUseCase(tx, e.orders, e.payments, e.suppliers, e.parts, e.pdf, e.notifier)
	e.receiveUC = purchasing.NewReceiveUseCase(tx, e.payments, e.stock, e.orderUC)
	e.paymentUC = purchasing.NewPaymentUseCase(tx, e.orderUC)
	return e
}

// seedOrder inserta directamente una orden en el repo en memoria.
func (e *env) seedOrder(status string, lines ...*entity.PurchaseOrderLine) *entity.PurchaseOrder {
	order := &entity.PurchaseOrder{
		ID:         fmt.Sprintf("o%d", len(e.orders.orders)+1),
		Number:     fmt.Sprintf("OC-%06d", len(e.orders.orders)+1),
		SupplierID: "s1",
		Status:     status,
		Lines:      lines,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	for _, l := range lines {
		l.OrderID = order.ID
	}
	e.orders.orders[order.ID] = order
	return order
}

func listFilter(status string) repository.PurchaseOrderFilter {
	return repository.PurchaseOrderFilter{Status: status, Limit: 20}
}

func line(id, partID string, requested int64, estPrice float64) *entity.PurchaseOrderLine {
	return &entity.PurchaseOrderLine{
		ID:             id,
		PartID:         partID,
		RequestedQty:   decimal.NewFromInt(requested),
		ReceivedQty:    decimal.Zero,
		EstimatedPrice: decimal.NewFromFloat(estPrice),
	}
}
