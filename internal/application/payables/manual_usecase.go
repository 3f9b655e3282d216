package payables

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tallerpro/compras-api/internal/application/dto"
	"github.com/tallerpro/compras-api/internal/domain"
	"github.com/tallerpro/compras-api/internal/domain/entity"
	domainpurchasing "github.com/tallerpro/compras-api/internal/domain/purchasing"
	"github.com/tallerpro/compras-api/internal/domain/repository"
)

// ManualAccountUseCase administra cuentas por pagar sin orden de compra
// (arriendo, servicios, facturas sueltas) y su sub-libro de pagos. No hay
// máquina de estados: abierta o saldada se deriva del saldo.
type ManualAccountUseCase struct {
	txRunner     ManualTxRunner
	accountRepo  repository.ManualAccountRepository
	paymentRepo  repository.PaymentRepository
	supplierRepo repository.SupplierRepository
	payablesRepo repository.PayablesRepository
}

// NewManualAccountUseCase construye el caso de uso.
func NewManualAccountUseCase(
	txRunner ManualTxRunner,
	accountRepo repository.ManualAccountRepository,
	paymentRepo repository.PaymentRepository,
	supplierRepo repository.SupplierRepository,
	payablesRepo repository.PayablesRepository,
) *ManualAccountUseCase {
	return &ManualAccountUseCase{
		txRunner:     txRunner,
		accountRepo:  accountRepo,
		paymentRepo:  paymentRepo,
		supplierRepo: supplierRepo,
		payablesRepo: payablesRepo,
	}
}

// Create registra una cuenta manual. Requiere concept, total positivo y al
// menos uno de proveedor registrado o acreedor de texto libre.
func (uc *ManualAccountUseCase) Create(ctx context.Context, userID string, in dto.CreateManualAccountRequest) (*dto.ManualAccountResponse, error) {
	if strings.TrimSpace(in.Concept) == "" {
		return nil, domain.NewValidationError("concept", "el concepto es requerido")
	}
	if !in.TotalAmount.GreaterThan(decimal.Zero) {
		return nil, domain.NewValidationError("total_amount", "el monto total debe ser mayor que cero (recibido %s)", in.TotalAmount.StringFixed(2))
	}
	if in.SupplierID == "" && strings.TrimSpace(in.CreditorName) == "" {
		return nil, domain.NewValidationError("supplier_id", "se requiere un proveedor registrado o un nombre de acreedor")
	}
	if in.SupplierID != "" {
		supplier, err := uc.supplierRepo.GetByID(in.SupplierID)
		if err != nil {
			return nil, err
		}
		if supplier == nil {
			return nil, domain.NewValidationError("supplier_id", "el proveedor %s no existe", in.SupplierID)
		}
	}

	now := time.Now()
	account := &entity.ManualAccount{
		ID:           uuid.New().String(),
		Concept:      strings.TrimSpace(in.Concept),
		SupplierID:   in.SupplierID,
		CreditorName: strings.TrimSpace(in.CreditorName),
		InvoiceRef:   in.InvoiceRef,
		TotalAmount:  in.TotalAmount.Round(2),
		DueDate:      in.DueDate,
		CreatedBy:    userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.accountRepo.Create(account); err != nil {
		return nil, err
	}
	return toManualResponse(account, nil), nil
}

// GetByID obtiene la cuenta con pagos y saldo. Nil si no existe.
func (uc *ManualAccountUseCase) GetByID(ctx context.Context, id string) (*dto.ManualAccountResponse, error) {
	account, err := uc.accountRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, nil
	}
	payments, err := uc.paymentRepo.ListByAccount(id)
	if err != nil {
		return nil, err
	}
	return toManualResponse(account, payments), nil
}

// List devuelve las cuentas manuales del modelo de lectura, abiertas y, si se
// pide, también las saldadas.
func (uc *ManualAccountUseCase) List(ctx context.Context, filter repository.PayablesFilter) (*dto.ManualAccountListResponse, error) {
	rows, err := uc.payablesRepo.ManualPayables(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PayableItemResponse, 0, len(rows))
	now := time.Now()
	for _, r := range rows {
		items = append(items, toPayableItem(r, now))
	}
	return &dto.ManualAccountListResponse{Items: items, Total: len(items)}, nil
}

// RegisterPayment abona contra la cuenta. Verificación de saldo e inserción
// atómicas bajo la fila bloqueada; el saldo en cero marca la cuenta saldada.
func (uc *ManualAccountUseCase) RegisterPayment(ctx context.Context, accountID, userID string, in dto.RegisterPaymentRequest) (*dto.ManualAccountResponse, error) {
	if !entity.IsValidPaymentMethod(in.Method) {
		return nil, domain.NewValidationError("method", "método de pago desconocido: %s", in.Method)
	}

	var account *entity.ManualAccount
	var payments []*entity.Payment
	err := uc.txRunner.RunManual(ctx, func(accountRepo repository.ManualAccountRepository, paymentRepo repository.PaymentRepository) error {
		var err error
		account, err = accountRepo.GetForUpdate(accountID)
		if err != nil {
			return err
		}
		if account == nil {
			return domain.ErrNotFound
		}

		payments, err = paymentRepo.ListByAccount(accountID)
		if err != nil {
			return err
		}
		balance := domainpurchasing.Balance(account.TotalAmount, payments)
		if err := domainpurchasing.ValidatePayment(in.Amount, balance); err != nil {
			return err
		}

		payment := &entity.Payment{
			ID:        uuid.New().String(),
			AccountID: accountID,
			Amount:    in.Amount.Round(2),
			Method:    in.Method,
			Reference: in.Reference,
			CreatedBy: userID,
			CreatedAt: time.Now(),
		}
		if err := paymentRepo.Create(payment); err != nil {
			return err
		}
		payments = append(payments, payment)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toManualResponse(account, payments), nil
}

// toManualResponse arma la respuesta con pagos y derivados de saldo.
func toManualResponse(account *entity.ManualAccount, payments []*entity.Payment) *dto.ManualAccountResponse {
	paid := domainpurchasing.PaidTotal(payments)
	balance := account.TotalAmount.Round(2).Sub(paid).Round(2)
	resp := &dto.ManualAccountResponse{
		ID:           account.ID,
		Concept:      account.Concept,
		SupplierID:   account.SupplierID,
		CreditorName: account.CreditorName,
		InvoiceRef:   account.InvoiceRef,
		TotalAmount:  account.TotalAmount,
		Paid:         paid,
		Balance:      balance,
		Settled:      domainpurchasing.Settled(balance),
		DueDate:      account.DueDate,
		CreatedAt:    account.CreatedAt,
		UpdatedAt:    account.UpdatedAt,
	}
	for _, p := range payments {
		resp.Payments = append(resp.Payments, dto.PaymentResponse{
			ID:        p.ID,
			Amount:    p.Amount,
			Method:    p.Method,
			Reference: p.Reference,
			CreatedAt: p.CreatedAt,
		})
	}
	return resp
}
