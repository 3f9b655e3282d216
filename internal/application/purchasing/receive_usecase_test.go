package purchasing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallerpro/compras-api/internal/application/dto"
	"github.com/tallerpro/compras-api/internal/domain"
	"github.com/tallerpro/compras-api/internal/domain/entity"
)

func receiveItem(lineID string, qty int64, actualPrice *float64) dto.ReceiveItemRequest {
	item := dto.ReceiveItemRequest{LineID: lineID, ReceivedQty: decimal.NewFromInt(qty)}
	if actualPrice != nil {
		p := decimal.NewFromFloat(*actualPrice)
		item.ActualUnitPrice = &p
	}
	return item
}

func fptr(f float64) *float64 { return &f }

// ──────────────────────────────────────────────────────────────────────────────
// Recepciones contra una orden enviada
// ──────────────────────────────────────────────────────────────────────────────

// Recepción parcial: 6 de 10 a precio real 5.50 deja deuda 33.00 y notifica el
// delta de stock exactamente una vez.
func TestReceive_Parcial(t *testing.T) {
	e := newEnv()
	order := e.seedOrder(entity.OrderStatusSent, line("l1", "p1", 10, 5.00))

	out, err := e.receiveUC.Receive(context.Background(), order.ID, dto.ReceivePurchaseOrderRequest{
		Items:             []dto.ReceiveItemRequest{receiveItem("l1", 6, fptr(5.50))},
		SupplierReference: "REM-100",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusReceivedPartial, out.Status)
	assert.Equal(t, "33.00", out.TotalOwed.StringFixed(2))
	assert.Equal(t, "33.00", out.Balance.StringFixed(2))
	assert.Equal(t, "REM-100", out.SupplierReference)
	assert.NotNil(t, out.FirstReceivedAt)
	assert.Empty(t, out.Warning)

	require.Equal(t, 1, e.stock.calls, "una recepción, una notificación de stock")
	require.Len(t, e.stock.deltas, 1)
	assert.Equal(t, "p1", e.stock.deltas[0].PartID)
	assert.True(t, e.stock.deltas[0].Qty.Equal(decimal.NewFromInt(6)))
}

// Completar la orden en una segunda recepción: deuda final 55.00 y RECEIVED.
func TestReceive_CompletaEnDosLotes(t *testing.T) {
	e := newEnv()
	order := e.seedOrder(entity.OrderStatusSent, line("l1", "p1", 10, 5.00))

	_, err := e.receiveUC.Receive(context.Background(), order.ID, dto.ReceivePurchaseOrderRequest{
		Items: []dto.ReceiveItemRequest{receiveItem("l1", 6, fptr(5.50))},
	})
	require.NoError(t, err)

	out, err := e.receiveUC.Receive(context.Background(), order.ID, dto.ReceivePurchaseOrderRequest{
		Items: []dto.ReceiveItemRequest{receiveItem("l1", 4, nil)},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusReceived, out.Status)
	assert.Equal(t, "55.00", out.TotalOwed.StringFixed(2),
		"las 4 últimas unidades toman el precio real vigente de la línea")
	assert.Equal(t, 2, e.stock.calls)
}

func TestReceive_OrdenInexistente(t *testing.T) {
	e := newEnv()
	_, err := e.receiveUC.Receive(context.Background(), "nope", dto.ReceivePurchaseOrderRequest{
		Items: []dto.ReceiveItemRequest{receiveItem("l1", 1, nil)},
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// Lote inválido: nada se persiste y el inventario no se notifica.
func TestReceive_LoteInvalidoNoNotifica(t *testing.T) {
	e := newEnv()
	order := e.seedOrder(entity.OrderStatusSent, line("l1", "p1", 10, 5.00))

	_, err := e.receiveUC.Receive(context.Background(), order.ID, dto.ReceivePurchaseOrderRequest{
		Items: []dto.ReceiveItemRequest{receiveItem("l1", 11, nil)},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Equal(t, 0, e.stock.calls)
	assert.True(t, e.orders.orders[order.ID].Lines[0].ReceivedQty.IsZero())
}

// La falla del inventario no revierte la recepción: queda advertencia.
func TestReceive_InventarioCaidoDejaAdvertencia(t *testing.T) {
	e := newEnv()
	e.stock.fail = true
	order := e.seedOrder(entity.OrderStatusSent, line("l1", "p1", 10, 5.00))

	out, err := e.receiveUC.Receive(context.Background(), order.ID, dto.ReceivePurchaseOrderRequest{
		Items: []dto.ReceiveItemRequest{receiveItem("l1", 10, nil)},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusReceived, out.Status)
	assert.NotEmpty(t, out.Warning)
	assert.Equal(t, entity.OrderStatusReceived, e.orders.orders[order.ID].Status,
		"la recepción queda confirmada aunque el inventario falle")
}

func TestReceive_EstadoIlegal(t *testing.T) {
	e := newEnv()
	order := e.seedOrder(entity.OrderStatusDraft, line("l1", "p1", 10, 5.00))

	_, err := e.receiveUC.Receive(context.Background(), order.ID, dto.ReceivePurchaseOrderRequest{
		Items: []dto.ReceiveItemRequest{receiveItem("l1", 1, nil)},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}
