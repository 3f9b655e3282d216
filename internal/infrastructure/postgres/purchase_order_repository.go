package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tallerpro/compras-api/internal/domain/entity"
	"github.com/tallerpro/compras-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implementación de PurchaseOrderRepository (usable con pool o tx).
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

const orderColumns = `id, number, supplier_id, vehicle_ref, observations, status,
	       supplier_reference, receipt_evidence, estimated_delivery, email_sent,
	       cancel_reason, first_received_at, created_at, updated_at`

// Create persiste la cabecera y sus líneas.
func (r *PurchaseOrderRepo) Create(order *entity.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (id, number, supplier_id, vehicle_ref, observations, status,
		                             supplier_reference, receipt_evidence, estimated_delivery, email_sent,
		                             cancel_reason, first_received_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.Number, order.SupplierID,
		nullIfEmpty(order.VehicleRef), nullIfEmpty(order.Observations), order.Status,
		nullIfEmpty(order.SupplierReference), nullIfEmpty(order.ReceiptEvidence),
		order.EstimatedDelivery, order.EmailSent,
		nullIfEmpty(order.CancelReason), order.FirstReceivedAt,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("purchase order number already exists: %w", err)
		}
		return fmt.Errorf("insert purchase order: %w", err)
	}
	for _, line := range order.Lines {
		if err := r.createLine(line); err != nil {
			return err
		}
	}
	return nil
}

func (r *PurchaseOrderRepo) createLine(line *entity.PurchaseOrderLine) error {
	query := `
		INSERT INTO purchase_order_lines (id, order_id, part_id, new_item_name,
		                                  requested_qty, received_qty, estimated_price, actual_unit_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.OrderID, nullIfEmpty(line.PartID), nullIfEmpty(line.NewItemName),
		line.RequestedQty, line.ReceivedQty, line.EstimatedPrice, line.ActualUnitPrice,
	)
	if err != nil {
		return fmt.Errorf("insert purchase order line: %w", err)
	}
	return nil
}

// GetByID obtiene la orden con sus líneas; nil si no existe.
func (r *PurchaseOrderRepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	return r.get(id, false)
}

// GetForUpdate obtiene la orden bloqueando la fila de la cabecera (SELECT FOR UPDATE).
// Serializa recepciones, pagos y transiciones concurrentes sobre la misma orden.
func (r *PurchaseOrderRepo) GetForUpdate(id string) (*entity.PurchaseOrder, error) {
	return r.get(id, true)
}

func (r *PurchaseOrderRepo) get(id string, forUpdate bool) (*entity.PurchaseOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM purchase_orders WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	order, err := r.scanOrder(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	if err := r.loadLines(order); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *PurchaseOrderRepo) scanOrder(row pgx.Row) (*entity.PurchaseOrder, error) {
	var o entity.PurchaseOrder
	var vehicleRef, observations, supplierRef, receiptEvidence, cancelReason *string
	err := row.Scan(
		&o.ID, &o.Number, &o.SupplierID, &vehicleRef, &observations, &o.Status,
		&supplierRef, &receiptEvidence, &o.EstimatedDelivery, &o.EmailSent,
		&cancelReason, &o.FirstReceivedAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.VehicleRef = derefStr(vehicleRef)
	o.Observations = derefStr(observations)
	o.SupplierReference = derefStr(supplierRef)
	o.ReceiptEvidence = derefStr(receiptEvidence)
	o.CancelReason = derefStr(cancelReason)
	return &o, nil
}

func (r *PurchaseOrderRepo) loadLines(order *entity.PurchaseOrder) error {
	query := `
		SELECT id, order_id, part_id, new_item_name, requested_qty, received_qty,
		       estimated_price, actual_unit_price
		FROM purchase_order_lines WHERE order_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, order.ID)
	if err != nil {
		return fmt.Errorf("list order lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.PurchaseOrderLine
		var partID, newItemName *string
		if err := rows.Scan(&l.ID, &l.OrderID, &partID, &newItemName,
			&l.RequestedQty, &l.ReceivedQty, &l.EstimatedPrice, &l.ActualUnitPrice); err != nil {
			return fmt.Errorf("scan order line: %w", err)
		}
		l.PartID = derefStr(partID)
		l.NewItemName = derefStr(newItemName)
		order.Lines = append(order.Lines, &l)
	}
	return rows.Err()
}

// Update persiste los campos mutables de la cabecera.
func (r *PurchaseOrderRepo) Update(order *entity.PurchaseOrder) error {
	query := `
		UPDATE purchase_orders
		SET status             = $2,
		    vehicle_ref        = $3,
		    observations       = $4,
		    supplier_reference = $5,
		    receipt_evidence   = $6,
		    estimated_delivery = $7,
		    email_sent         = $8,
		    cancel_reason      = $9,
		    first_received_at  = $10,
		    updated_at         = $11
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.Status,
		nullIfEmpty(order.VehicleRef), nullIfEmpty(order.Observations),
		nullIfEmpty(order.SupplierReference), nullIfEmpty(order.ReceiptEvidence),
		order.EstimatedDelivery, order.EmailSent,
		nullIfEmpty(order.CancelReason), order.FirstReceivedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase order: %w", err)
	}
	return nil
}

// UpdateLine persiste cantidad recibida y precio real de una línea.
func (r *PurchaseOrderRepo) UpdateLine(line *entity.PurchaseOrderLine) error {
	query := `
		UPDATE purchase_order_lines
		SET part_id           = $2,
		    received_qty      = $3,
		    actual_unit_price = $4
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, nullIfEmpty(line.PartID), line.ReceivedQty, line.ActualUnitPrice,
	)
	if err != nil {
		return fmt.Errorf("update order line: %w", err)
	}
	return nil
}

// List devuelve la página filtrada y el total de órdenes que cumplen el filtro.
func (r *PurchaseOrderRepo) List(filter repository.PurchaseOrderFilter) ([]*entity.PurchaseOrder, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.SupplierID != "" {
		args = append(args, filter.SupplierID)
		where += fmt.Sprintf(" AND supplier_id = $%d", len(args))
	}
	if filter.PendingReceipt {
		where += ` AND status IN ('SENT', 'RECEIVED_PARTIAL')`
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM purchase_orders` + where
	if err := r.q.QueryRow(context.Background(), countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count purchase orders: %w", err)
	}

	args = append(args, filter.Limit, filter.Skip)
	query := `SELECT ` + orderColumns + ` FROM purchase_orders` + where +
		fmt.Sprintf(` ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()

	var orders []*entity.PurchaseOrder
	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan purchase order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for _, order := range orders {
		if err := r.loadLines(order); err != nil {
			return nil, 0, err
		}
	}
	return orders, total, nil
}

// NextNumber devuelve el siguiente consecutivo legible desde la secuencia.
func (r *PurchaseOrderRepo) NextNumber() (string, error) {
	var n int64
	err := r.q.QueryRow(context.Background(), `SELECT nextval('purchase_order_number_seq')`).Scan(&n)
	if err != nil {
		return "", fmt.Errorf("next order number: %w", err)
	}
	return fmt.Sprintf("OC-%06d", n), nil
}
