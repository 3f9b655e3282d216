package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tallerpro/compras-api/internal/domain/entity"
	"github.com/tallerpro/compras-api/internal/domain/repository"
)

var _ repository.ManualAccountRepository = (*ManualAccountRepo)(nil)

// ManualAccountRepo implementación de ManualAccountRepository.
type ManualAccountRepo struct {
	q Querier
}

func NewManualAccountRepository(q Querier) *ManualAccountRepo {
	return &ManualAccountRepo{q: q}
}

const accountColumns = `id, concept, supplier_id, creditor_name, invoice_ref,
	       total_amount, due_date, created_by, created_at, updated_at`

// Create persiste una cuenta por pagar manual.
func (r *ManualAccountRepo) Create(account *entity.ManualAccount) error {
	query := `
		INSERT INTO manual_accounts (id, concept, supplier_id, creditor_name, invoice_ref,
		                             total_amount, due_date, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		account.ID, account.Concept, nullIfEmpty(account.SupplierID),
		nullIfEmpty(account.CreditorName), nullIfEmpty(account.InvoiceRef),
		account.TotalAmount, account.DueDate, account.CreatedBy,
		account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert manual account: %w", err)
	}
	return nil
}

// GetByID obtiene la cuenta; nil si no existe.
func (r *ManualAccountRepo) GetByID(id string) (*entity.ManualAccount, error) {
	return r.get(id, false)
}

// GetForUpdate obtiene la cuenta bloqueando la fila. Serializa abonos concurrentes.
func (r *ManualAccountRepo) GetForUpdate(id string) (*entity.ManualAccount, error) {
	return r.get(id, true)
}

func (r *ManualAccountRepo) get(id string, forUpdate bool) (*entity.ManualAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM manual_accounts WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	account, err := scanManualAccount(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get manual account: %w", err)
	}
	return account, nil
}

// Update persiste los campos mutables de la cuenta.
func (r *ManualAccountRepo) Update(account *entity.ManualAccount) error {
	query := `
		UPDATE manual_accounts
		SET concept       = $2,
		    supplier_id   = $3,
		    creditor_name = $4,
		    invoice_ref   = $5,
		    total_amount  = $6,
		    due_date      = $7,
		    updated_at    = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		account.ID, account.Concept, nullIfEmpty(account.SupplierID),
		nullIfEmpty(account.CreditorName), nullIfEmpty(account.InvoiceRef),
		account.TotalAmount, account.DueDate, account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update manual account: %w", err)
	}
	return nil
}

// List devuelve la página de cuentas manuales más recientes primero, y el total.
func (r *ManualAccountRepo) List(limit, offset int) ([]*entity.ManualAccount, int, error) {
	var total int
	if err := r.q.QueryRow(context.Background(), `SELECT COUNT(*) FROM manual_accounts`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count manual accounts: %w", err)
	}

	query := `SELECT ` + accountColumns + ` FROM manual_accounts
		ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list manual accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*entity.ManualAccount
	for rows.Next() {
		a, err := scanManualAccount(rows)
		if err != nil {
			return nil, 0, err
		}
		accounts = append(accounts, a)
	}
	return accounts, total, rows.Err()
}

func scanManualAccount(row pgx.Row) (*entity.ManualAccount, error) {
	var a entity.ManualAccount
	var supplierID, creditorName, invoiceRef *string
	err := row.Scan(&a.ID, &a.Concept, &supplierID, &creditorName, &invoiceRef,
		&a.TotalAmount, &a.DueDate, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("scan manual account: %w", err)
	}
	a.SupplierID = derefStr(supplierID)
	a.CreditorName = derefStr(creditorName)
	a.InvoiceRef = derefStr(invoiceRef)
	return &a, nil
}
