package repository

import "github.com/tallerpro/compras-api/internal/domain/entity"

// PaymentRepository define el puerto de persistencia para Payment.
// Solo inserciones: el libro de pagos es append-only, sin update ni delete.
type PaymentRepository interface {
	Create(payment *entity.Payment) error
	ListByOrder(orderID string) ([]*entity.Payment, error)
	ListByAccount(accountID string) ([]*entity.Payment, error)
}
