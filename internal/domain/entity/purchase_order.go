package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra.
const (
	OrderStatusDraft           = "DRAFT"            // Borrador editable
	OrderStatusAuthorized      = "AUTHORIZED"       // Aprobada internamente
	OrderStatusSent            = "SENT"             // Enviada al proveedor
	OrderStatusReceivedPartial = "RECEIVED_PARTIAL" // Mercancía recibida parcialmente
	OrderStatusReceived        = "RECEIVED"         // Todas las líneas completas (terminal)
	OrderStatusCancelled       = "CANCELLED"        // Anulada con motivo (terminal)
)

// transitions tabla cerrada de transiciones válidas del ciclo de vida.
// Las recepciones (SENT/RECEIVED_PARTIAL -> RECEIVED_PARTIAL/RECEIVED) las
// deriva el motor de recepción; aquí van las transiciones por operación directa.
var transitions = map[string][]string{
	OrderStatusDraft:      {OrderStatusAuthorized, OrderStatusSent, OrderStatusCancelled},
	OrderStatusAuthorized: {OrderStatusSent, OrderStatusCancelled},
	OrderStatusSent:       {OrderStatusCancelled},
}

// CanTransition indica si el paso from -> to está en la tabla de transiciones.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminalStatus indica si el estado no admite más operaciones de escritura.
func IsTerminalStatus(status string) bool {
	return status == OrderStatusReceived || status == OrderStatusCancelled
}

// IsValidStatus indica si el string corresponde a un estado definido.
func IsValidStatus(status string) bool {
	switch status {
	case OrderStatusDraft, OrderStatusAuthorized, OrderStatusSent,
		OrderStatusReceivedPartial, OrderStatusReceived, OrderStatusCancelled:
		return true
	}
	return false
}

// PurchaseOrder representa una orden de compra a un proveedor.
// Nunca se borra físicamente: la anulación es un estado terminal.
type PurchaseOrder struct {
	ID                string
	Number            string // consecutivo legible, ej: OC-000042
	SupplierID        string
	VehicleRef        string // referencia opcional al vehículo del catálogo del taller
	Observations      string
	Status            string
	SupplierReference string     // referencia emitida por el proveedor (remisión/factura)
	ReceiptEvidence   string     // URL o ruta del soporte de recepción
	EstimatedDelivery *time.Time // mutable mientras la orden siga abierta
	EmailSent         bool
	CancelReason      string
	FirstReceivedAt   *time.Time // fecha de la primera recepción; referencia para antigüedad
	Lines             []*PurchaseOrderLine
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Overdue indica si la orden está vencida para reportes: fecha estimada de
// entrega definida, en el pasado, y la orden aún no termina. No cambia el estado.
func (o *PurchaseOrder) Overdue(now time.Time) bool {
	if o.EstimatedDelivery == nil || IsTerminalStatus(o.Status) {
		return false
	}
	return o.EstimatedDelivery.Before(now)
}

// HasReceipts indica si alguna línea ya registró unidades recibidas.
func (o *PurchaseOrder) HasReceipts() bool {
	for _, l := range o.Lines {
		if l.ReceivedQty.GreaterThan(decimal.Zero) {
			return true
		}
	}
	return false
}

// PurchaseOrderLine representa un renglón de la orden: pieza del catálogo o
// artículo nuevo por nombre libre (variante excluyente, nunca ambos campos).
type PurchaseOrderLine struct {
	ID              string
	OrderID         string
	PartID          string          // referencia al catálogo de repuestos (vacío si es artículo nuevo)
	NewItemName     string          // nombre libre de artículo no catalogado (vacío si PartID existe)
	RequestedQty    decimal.Decimal // > 0
	ReceivedQty     decimal.Decimal // >= 0, <= RequestedQty (acumulado)
	EstimatedPrice  decimal.Decimal // precio unitario estimado >= 0
	ActualUnitPrice *decimal.Decimal // precio real; nil hasta que se reciba
}

// IsCatalogued indica si la línea referencia una pieza existente del catálogo.
func (l *PurchaseOrderLine) IsCatalogued() bool { return l.PartID != "" }

// PendingQty devuelve la cantidad que falta por recibir.
func (l *PurchaseOrderLine) PendingQty() decimal.Decimal {
	return l.RequestedQty.Sub(l.ReceivedQty)
}

// Complete indica si la línea ya recibió todo lo solicitado.
func (l *PurchaseOrderLine) Complete() bool {
	return l.ReceivedQty.GreaterThanOrEqual(l.RequestedQty)
}

// UnitPrice devuelve el precio efectivo de la línea: el real si existe, si no el estimado.
func (l *PurchaseOrderLine) UnitPrice() decimal.Decimal {
	if l.ActualUnitPrice != nil {
		return *l.ActualUnitPrice
	}
	return l.EstimatedPrice
}
