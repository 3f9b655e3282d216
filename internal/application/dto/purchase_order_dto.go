package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderLineRequest línea de una orden nueva: pieza del catálogo o artículo
// nuevo por nombre, nunca ambos.
type CreateOrderLineRequest struct {
	PartID         string          `json:"part_id"`
	NewItemName    string          `json:"new_item_name"`
	RequestedQty   decimal.Decimal `json:"requested_qty"`
	EstimatedPrice decimal.Decimal `json:"estimated_price"`
}

// CreatePurchaseOrderRequest entrada para crear una orden en DRAFT.
type CreatePurchaseOrderRequest struct {
	SupplierID        string                   `json:"supplier_id" validate:"required"`
	VehicleRef        string                   `json:"vehicle_ref"`
	Observations      string                   `json:"observations"`
	EstimatedDelivery *time.Time               `json:"estimated_delivery"`
	Lines             []CreateOrderLineRequest `json:"lines" validate:"required,min=1"`
}

// UpdatePurchaseOrderRequest actualización de metadatos (legal en cualquier
// estado no terminal). ClearEstimatedDelivery permite borrar la fecha estimada.
type UpdatePurchaseOrderRequest struct {
	EstimatedDelivery      *time.Time `json:"estimated_delivery"`
	ClearEstimatedDelivery bool       `json:"clear_estimated_delivery"`
	ReceiptEvidence        *string    `json:"receipt_evidence"`
	SupplierReference      *string    `json:"supplier_reference"`
}

// CancelPurchaseOrderRequest entrada para anular una orden.
type CancelPurchaseOrderRequest struct {
	Reason string `json:"reason" validate:"required,min=5"`
}

// ReceiveItemRequest cantidad recibida para una línea.
type ReceiveItemRequest struct {
	LineID          string           `json:"line_id" validate:"required"`
	ReceivedQty     decimal.Decimal  `json:"received_qty"`
	ActualUnitPrice *decimal.Decimal `json:"actual_unit_price"`
}

// ReceivePurchaseOrderRequest lote de recepción (atómico: todo o nada).
type ReceivePurchaseOrderRequest struct {
	Items             []ReceiveItemRequest `json:"items" validate:"required,min=1"`
	SupplierReference string               `json:"supplier_reference"`
}

// RegisterPaymentRequest abono contra una orden o una cuenta manual.
type RegisterPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method" validate:"required,oneof=CASH CARD TRANSFER CHECK"`
	Reference string          `json:"reference"`
}

// OrderLineResponse salida de una línea.
type OrderLineResponse struct {
	ID              string           `json:"id"`
	PartID          string           `json:"part_id,omitempty"`
	NewItemName     string           `json:"new_item_name,omitempty"`
	RequestedQty    decimal.Decimal  `json:"requested_qty"`
	ReceivedQty     decimal.Decimal  `json:"received_qty"`
	EstimatedPrice  decimal.Decimal  `json:"estimated_price"`
	ActualUnitPrice *decimal.Decimal `json:"actual_unit_price,omitempty"`
}

// PaymentResponse salida de un pago del libro.
type PaymentResponse struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Reference string          `json:"reference,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// PurchaseOrderResponse salida de una orden con sus derivados de saldo.
type PurchaseOrderResponse struct {
	ID                string              `json:"id"`
	Number            string              `json:"number"`
	SupplierID        string              `json:"supplier_id"`
	VehicleRef        string              `json:"vehicle_ref,omitempty"`
	Observations      string              `json:"observations,omitempty"`
	Status            string              `json:"status"`
	SupplierReference string              `json:"supplier_reference,omitempty"`
	ReceiptEvidence   string              `json:"receipt_evidence,omitempty"`
	EstimatedDelivery *time.Time          `json:"estimated_delivery,omitempty"`
	EmailSent         bool                `json:"email_sent"`
	CancelReason      string              `json:"cancel_reason,omitempty"`
	FirstReceivedAt   *time.Time          `json:"first_received_at,omitempty"`
	Overdue           bool                `json:"overdue"`
	TotalOwed         decimal.Decimal     `json:"total_owed"`
	Paid              decimal.Decimal     `json:"paid"`
	Balance           decimal.Decimal     `json:"balance"`
	Lines             []OrderLineResponse `json:"lines"`
	Payments          []PaymentResponse   `json:"payments,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
	// Warning se llena cuando una notificación externa (correo al proveedor,
	// entrada de stock) falló sin afectar la transición confirmada.
	Warning string `json:"warning,omitempty"`
}

// PurchaseOrderListResponse lista paginada de órdenes.
type PurchaseOrderListResponse struct {
	Items []PurchaseOrderResponse `json:"items"`
	Meta  ListMeta                `json:"meta"`
}
