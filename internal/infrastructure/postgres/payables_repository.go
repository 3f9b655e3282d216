package postgres

import (
	"context"
	"fmt"

	"github.com/tallerpro/compras-api/internal/domain/repository"
)

var _ repository.PayablesRepository = (*PayablesRepo)(nil)

// PayablesRepo consultas de solo lectura del reporte consolidado. La deuda,
// lo pagado y el saldo se agregan en SQL; la clasificación por antigüedad y
// el ordenamiento final se hacen en la capa de aplicación.
type PayablesRepo struct {
	q Querier
}

func NewPayablesRepository(q Querier) *PayablesRepo {
	return &PayablesRepo{q: q}
}

// OrderPayables devuelve las órdenes con recepciones y saldo pendiente.
// La deuda real es cantidad recibida por precio unitario real (o estimado si
// la línea aún no tiene precio real). Las órdenes saldadas no aparecen.
func (r *PayablesRepo) OrderPayables(ctx context.Context, filter repository.PayablesFilter) ([]repository.PayableRow, error) {
	query := `
		SELECT o.id, o.number, s.id, s.name, o.first_received_at,
		       ROUND(COALESCE(lt.total_owed, 0), 2)  AS total_owed,
		       ROUND(COALESCE(pt.paid, 0), 2)        AS paid
		FROM purchase_orders o
		JOIN suppliers s ON s.id = o.supplier_id
		LEFT JOIN (
			SELECT order_id, SUM(received_qty * COALESCE(actual_unit_price, estimated_price)) AS total_owed
			FROM purchase_order_lines
			GROUP BY order_id
		) lt ON lt.order_id = o.id
		LEFT JOIN (
			SELECT order_id, SUM(amount) AS paid
			FROM payments
			WHERE order_id IS NOT NULL
			GROUP BY order_id
		) pt ON pt.order_id = o.id
		WHERE o.status IN ('RECEIVED_PARTIAL', 'RECEIVED')
		  AND o.first_received_at IS NOT NULL`
	args := []any{}
	if filter.SupplierID != "" {
		args = append(args, filter.SupplierID)
		query += fmt.Sprintf(" AND o.supplier_id = $%d", len(args))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		query += fmt.Sprintf(" AND o.first_received_at >= $%d", len(args))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		query += fmt.Sprintf(" AND o.first_received_at <= $%d", len(args))
	}
	query += `
		AND ROUND(COALESCE(lt.total_owed, 0), 2) > ROUND(COALESCE(pt.paid, 0), 2)
		ORDER BY o.first_received_at, o.id`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query order payables: %w", err)
	}
	defer rows.Close()

	var result []repository.PayableRow
	for rows.Next() {
		row := repository.PayableRow{Kind: repository.PayableKindOrder}
		if err := rows.Scan(&row.ID, &row.Number, &row.SupplierID, &row.SupplierName,
			&row.ReferenceDate, &row.TotalOwed, &row.Paid); err != nil {
			return nil, fmt.Errorf("scan order payable: %w", err)
		}
		row.Balance = row.TotalOwed.Sub(row.Paid)
		result = append(result, row)
	}
	return result, rows.Err()
}

// ManualPayables devuelve las cuentas manuales abiertas, y las saldadas si se pide.
func (r *PayablesRepo) ManualPayables(ctx context.Context, filter repository.PayablesFilter) ([]repository.PayableRow, error) {
	query := `
		SELECT a.id, COALESCE(a.invoice_ref, ''), a.concept,
		       COALESCE(a.supplier_id, ''), COALESCE(s.name, a.creditor_name, ''),
		       a.created_at,
		       ROUND(a.total_amount, 2)       AS total_owed,
		       ROUND(COALESCE(pt.paid, 0), 2) AS paid
		FROM manual_accounts a
		LEFT JOIN suppliers s ON s.id = a.supplier_id
		LEFT JOIN (
			SELECT account_id, SUM(amount) AS paid
			FROM payments
			WHERE account_id IS NOT NULL
			GROUP BY account_id
		) pt ON pt.account_id = a.id
		WHERE 1=1`
	args := []any{}
	if filter.SupplierID != "" {
		args = append(args, filter.SupplierID)
		query += fmt.Sprintf(" AND a.supplier_id = $%d", len(args))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		query += fmt.Sprintf(" AND a.created_at >= $%d", len(args))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		query += fmt.Sprintf(" AND a.created_at <= $%d", len(args))
	}
	if !filter.IncludeSettled {
		query += ` AND ROUND(a.total_amount, 2) > ROUND(COALESCE(pt.paid, 0), 2)`
	}
	query += ` ORDER BY a.created_at, a.id`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query manual payables: %w", err)
	}
	defer rows.Close()

	var result []repository.PayableRow
	for rows.Next() {
		row := repository.PayableRow{Kind: repository.PayableKindManual}
		if err := rows.Scan(&row.ID, &row.Number, &row.Concept, &row.SupplierID,
			&row.SupplierName, &row.ReferenceDate, &row.TotalOwed, &row.Paid); err != nil {
			return nil, fmt.Errorf("scan manual payable: %w", err)
		}
		row.Balance = row.TotalOwed.Sub(row.Paid)
		result = append(result, row)
	}
	return result, rows.Err()
}
