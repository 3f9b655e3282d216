package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tallerpro/compras-api/internal/domain/entity"
	"github.com/tallerpro/compras-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implementación de PaymentRepository. El libro de pagos es
// append-only: solo inserciones y lecturas, nunca UPDATE ni DELETE.
type PaymentRepo struct {
	q Querier
}

func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

// Create inserta un abono en el libro.
func (r *PaymentRepo) Create(payment *entity.Payment) error {
	query := `
		INSERT INTO payments (id, order_id, account_id, amount, method, reference, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		payment.ID, nullIfEmpty(payment.OrderID), nullIfEmpty(payment.AccountID),
		payment.Amount, payment.Method, nullIfEmpty(payment.Reference),
		payment.CreatedBy, payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// ListByOrder devuelve los abonos de una orden en orden cronológico.
func (r *PaymentRepo) ListByOrder(orderID string) ([]*entity.Payment, error) {
	return r.list(`order_id`, orderID)
}

// ListByAccount devuelve los abonos de una cuenta manual en orden cronológico.
func (r *PaymentRepo) ListByAccount(accountID string) ([]*entity.Payment, error) {
	return r.list(`account_id`, accountID)
}

func (r *PaymentRepo) list(column, id string) ([]*entity.Payment, error) {
	query := `
		SELECT id, order_id, account_id, amount, method, reference, created_by, created_at
		FROM payments WHERE ` + column + ` = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, id)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []*entity.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var p entity.Payment
	var orderID, accountID, reference *string
	err := row.Scan(&p.ID, &orderID, &accountID, &p.Amount, &p.Method, &reference, &p.CreatedBy, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("scan payment: %w", err)
	}
	p.OrderID = derefStr(orderID)
	p.AccountID = derefStr(accountID)
	p.Reference = derefStr(reference)
	return &p, nil
}
