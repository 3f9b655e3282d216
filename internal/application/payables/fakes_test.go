package payables_test

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallerpro/compras-api/internal/application/payables"
	"github.com/tallerpro/compras-api/internal/domain/entity"
	"github.com/tallerpro/compras-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles en memoria de los puertos de cuentas manuales y del modelo de lectura
// ──────────────────────────────────────────────────────────────────────────────

type fakeAccountRepo struct {
	accounts map[string]*entity.ManualAccount
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[string]*entity.ManualAccount)}
}

func (r *fakeAccountRepo) Create(account *entity.ManualAccount) error {
	r.accounts[account.ID] = account
	return nil
}

func (r *fakeAccountRepo) GetByID(id string) (*entity.ManualAccount, error) {
	return r.accounts[id], nil
}

func (r *fakeAccountRepo) GetForUpdate(id string) (*entity.ManualAccount, error) {
	return r.accounts[id], nil
}

func (r *fakeAccountRepo) Update(account *entity.ManualAccount) error {
	if _, ok := r.accounts[account.ID]; !ok {
		return errors.New("cuenta inexistente")
	}
	r.accounts[account.ID] = account
	return nil
}

func (r *fakeAccountRepo) List(limit, offset int) ([]*entity.ManualAccount, int, error) {
	var out []*entity.ManualAccount
	for _, a := range r.accounts {
		out = append(out, a)
	}
	return out, len(out), nil
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

// fakePayablesRepo devuelve conjuntos fijos de filas; guarda el último filtro
// recibido para verificar que el caso de uso lo propaga sin alterarlo.
type fakePayablesRepo struct {
	orderRows  []repository.PayableRow
	manualRows []repository.PayableRow
	lastFilter repository.PayablesFilter
}

func (r *fakePayablesRepo) OrderPayables(_ context.Context, filter repository.PayablesFilter) ([]repository.PayableRow, error) {
	r.lastFilter = filter
	return r.orderRows, nil
}

func (r *fakePayablesRepo) ManualPayables(_ context.Context, filter repository.PayablesFilter) ([]repository.PayableRow, error) {
	r.lastFilter = filter
	return r.manualRows, nil
}

// fakeManualTxRunner ejecuta la función directamente sobre los repos en memoria.
// La atomicidad real la cubren los tests de integración con PostgreSQL.
type fakeManualTxRunner struct {
	accountRepo *fakeAccountRepo
	paymentRepo *fakePaymentRepo
}

func (r *fakeManualTxRunner) RunManual(_ context.Context, fn func(repository.ManualAccountRepository, repository.PaymentRepository) error) error {
	return fn(r.accountRepo, r.paymentRepo)
}

// ──────────────────────────────────────────────────────────────────────────────
// Armado del entorno de pruebas
// ──────────────────────────────────────────────────────────────────────────────

type manualEnv struct {
	accountRepo  *fakeAccountRepo
	paymentRepo  *fakePaymentRepo
	payablesRepo *fakePayablesRepo
	uc           *payables.ManualAccountUseCase
}

func newManualEnv() *manualEnv {
	accountRepo := newFakeAccountRepo()
	paymentRepo := &fakePaymentRepo{}
	payablesRepo := &fakePayablesRepo{}
	supplierRepo := &fakeSupplierRepo{suppliers: map[string]*entity.Supplier{
		"s1": {ID: "s1", Name: "Repuestos El Cigüeñal", Email: "ventas@ciguenal.cl"},
	}}
	txRunner := &fakeManualTxRunner{accountRepo: accountRepo, paymentRepo: paymentRepo}
	uc := payables.NewManualAccountUseCase(txRunner, accountRepo, paymentRepo, supplierRepo, payablesRepo)
	return &manualEnv{
		accountRepo:  accountRepo,
		paymentRepo:  paymentRepo,
		payablesRepo: payablesRepo,
		uc:           uc,
	}
}

func price(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func daysAgo(n int) time.Time {
	return time.Now().AddDate(0, 0, -n)
}
