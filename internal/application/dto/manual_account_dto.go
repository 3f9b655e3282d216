package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateManualAccountRequest entrada para registrar una cuenta por pagar manual.
// Requiere concept, total_amount > 0 y al menos uno de supplier_id / creditor_name.
type CreateManualAccountRequest struct {
	Concept      string          `json:"concept" validate:"required"`
	SupplierID   string          `json:"supplier_id"`
	CreditorName string          `json:"creditor_name"`
	InvoiceRef   string          `json:"invoice_ref"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	DueDate      *time.Time      `json:"due_date"`
}

// ManualAccountResponse salida de una cuenta manual con sus derivados de saldo.
type ManualAccountResponse struct {
	ID           string            `json:"id"`
	Concept      string            `json:"concept"`
	SupplierID   string            `json:"supplier_id,omitempty"`
	CreditorName string            `json:"creditor_name,omitempty"`
	InvoiceRef   string            `json:"invoice_ref,omitempty"`
	TotalAmount  decimal.Decimal   `json:"total_amount"`
	Paid         decimal.Decimal   `json:"paid"`
	Balance      decimal.Decimal   `json:"balance"`
	Settled      bool              `json:"settled"`
	DueDate      *time.Time        `json:"due_date,omitempty"`
	Payments     []PaymentResponse `json:"payments,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// ManualAccountListResponse lista de cuentas manuales (filas del modelo de lectura).
type ManualAccountListResponse struct {
	Items []PayableItemResponse `json:"items"`
	Total int                   `json:"total"`
}
