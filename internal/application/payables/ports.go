package payables

import (
	"context"

	"github.com/tallerpro/compras-api/internal/domain/repository"
)

// ManualTxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios de cuentas manuales y pagos atados a esa tx. Igual que en
// órdenes, GetForUpdate serializa las operaciones sobre la misma cuenta.
type ManualTxRunner interface {
	RunManual(ctx context.Context, fn func(
		accountRepo repository.ManualAccountRepository,
		paymentRepo repository.PaymentRepository,
	) error) error
}
