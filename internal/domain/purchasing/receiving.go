package purchasing

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tallerpro/compras-api/internal/domain"
	"github.com/tallerpro/compras-api/internal/domain/entity"
)

// ReceiptEntry es la cantidad recibida para una línea en una llamada de recepción.
type ReceiptEntry struct {
	LineID          string
	Qty             decimal.Decimal
	ActualUnitPrice *decimal.Decimal // nil = conservar el precio anterior/estimado
}

// StockDelta es la entrada de stock que debe notificarse al módulo de inventario
// por cada línea con unidades nuevas en la recepción.
type StockDelta struct {
	PartID    string
	Qty       decimal.Decimal
	UnitPrice decimal.Decimal
}

// ApplyReceipt aplica un lote de recepción sobre la orden. El lote es atómico:
// si cualquier entrada es inválida no se aplica ninguna. Muta las líneas y el
// estado de la orden, y devuelve los deltas de stock a notificar.
//
// Reglas:
//   - Solo legal desde SENT o RECEIVED_PARTIAL.
//   - El acumulado recibido de una línea nunca excede lo solicitado.
//   - Las líneas de artículo nuevo deben resolverse a catálogo antes de recibir.
//   - Un lote sin unidades nuevas es inválido ("nada por recibir").
//   - Estado resultante: RECEIVED si toda línea está completa, si no RECEIVED_PARTIAL.
func ApplyReceipt(order *entity.PurchaseOrder, entries []ReceiptEntry, now time.Time) ([]StockDelta, error) {
	if order.Status != entity.OrderStatusSent && order.Status != entity.OrderStatusReceivedPartial {
		return nil, &domain.TransitionError{Current: order.Status, Attempted: "recepción de mercancía"}
	}
	if len(entries) == 0 {
		return nil, domain.NewValidationError("items", "la recepción requiere al menos una línea")
	}

	lines := make(map[string]*entity.PurchaseOrderLine, len(order.Lines))
	for _, l := range order.Lines {
		lines[l.ID] = l
	}

	// Primera pasada: validar el lote completo antes de mutar nada.
	// pending acumula por línea para rechazar lotes que repiten línea y exceden lo solicitado.
	pending := make(map[string]decimal.Decimal, len(entries))
	totalNew := decimal.Zero
	for _, e := range entries {
		line, ok := lines[e.LineID]
		if !ok {
			return nil, domain.NewValidationError("line_id", "la línea %s no pertenece a la orden", e.LineID)
		}
		if e.Qty.LessThan(decimal.Zero) {
			return nil, domain.NewValidationError("received_qty", "la cantidad recibida no puede ser negativa")
		}
		if e.ActualUnitPrice != nil && e.ActualUnitPrice.LessThan(decimal.Zero) {
			return nil, domain.NewValidationError("actual_unit_price", "el precio unitario real no puede ser negativo")
		}
		if e.Qty.GreaterThan(decimal.Zero) && !line.IsCatalogued() {
			return nil, domain.NewValidationError("line_id",
				"la línea %s es un artículo nuevo sin catalogar; debe resolverse a una pieza del catálogo antes de recibir", e.LineID)
		}
		acc := pending[e.LineID].Add(e.Qty)
		if acc.GreaterThan(line.PendingQty()) {
			return nil, domain.NewValidationError("received_qty",
				"la línea %s admite máximo %s unidades adicionales y se intentó recibir %s",
				e.LineID, line.PendingQty().String(), acc.String())
		}
		pending[e.LineID] = acc
		totalNew = totalNew.Add(e.Qty)
	}
	if totalNew.IsZero() {
		return nil, domain.NewValidationError("items", "nada por recibir: todas las cantidades son cero")
	}

	// Segunda pasada: aplicar y acumular deltas de stock.
	var deltas []StockDelta
	for _, e := range entries {
		line := lines[e.LineID]
		if e.ActualUnitPrice != nil {
			rounded := e.ActualUnitPrice.Round(2)
			line.ActualUnitPrice = &rounded
		}
		if e.Qty.GreaterThan(decimal.Zero) {
			line.ReceivedQty = line.ReceivedQty.Add(e.Qty)
			deltas = append(deltas, StockDelta{
				PartID:    line.PartID,
				Qty:       e.Qty,
				UnitPrice: line.UnitPrice(),
			})
		}
	}

	if order.FirstReceivedAt == nil {
		t := now
		order.FirstReceivedAt = &t
	}
	order.Status = deriveStatus(order)
	order.UpdatedAt = now
	return deltas, nil
}

// deriveStatus deriva el estado de la orden de la completitud de sus líneas.
func deriveStatus(order *entity.PurchaseOrder) string {
	allComplete := true
	for _, l := range order.Lines {
		if !l.Complete() {
			allComplete = false
			break
		}
	}
	if allComplete {
		return entity.OrderStatusReceived
	}
	return entity.OrderStatusReceivedPartial
}
