package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ManualAccount representa una cuenta por pagar sin orden de compra:
// arriendo, servicios públicos, facturas sueltas. Lleva su propio sub-libro
// de pagos; "abierta" o "saldada" se deriva del saldo, no se almacena.
type ManualAccount struct {
	ID           string
	Concept      string // requerido
	SupplierID   string // opcional; requiere al menos uno de SupplierID/CreditorName
	CreditorName string // acreedor de texto libre cuando no hay proveedor registrado
	InvoiceRef   string // referencia de factura opcional
	TotalAmount  decimal.Decimal // > 0, fijo al crear
	DueDate      *time.Time
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
