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

// ──────────────────────────────────────────────────────────────────────────────
// Creación de órdenes
// ──────────────────────────────────────────────────────────────────────────────

func TestOrderCreate_MezclaDeCatalogoYArticuloNuevo(t *testing.T) {
	e := newEnv()
	out, err := e.orderUC.Create(context.Background(), dto.CreatePurchaseOrderRequest{
		SupplierID: "s1",
		VehicleRef: "ABC-123",
		Lines: []dto.CreateOrderLineRequest{
			{PartID: "p1", RequestedQty: decimal.NewFromInt(4), EstimatedPrice: decimal.NewFromFloat(12.50)},
			{NewItemName: "Sensor MAP", RequestedQty: decimal.NewFromInt(1), EstimatedPrice: decimal.NewFromFloat(80)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusDraft, out.Status)
	assert.Equal(t, "OC-000001", out.Number, "el consecutivo sale de la secuencia")
	require.Len(t, out.Lines, 2)
	assert.Equal(t, "p1", out.Lines[0].PartID)
	assert.Equal(t, "Sensor MAP", out.Lines[1].NewItemName)
	assert.True(t, out.TotalOwed.IsZero(), "sin recepciones no hay deuda")
}

func TestOrderCreate_ProveedorInexistente(t *testing.T) {
	e := newEnv()
	_, err := e.orderUC.Create(context.Background(), dto.CreatePurchaseOrderRequest{
		SupplierID: "fantasma",
		Lines: []dto.CreateOrderLineRequest{
			{PartID: "p1", RequestedQty: decimal.NewFromInt(1), EstimatedPrice: decimal.NewFromFloat(1)},
		},
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestOrderCreate_LineasInvalidas(t *testing.T) {
	e := newEnv()
	cases := []struct {
		name string
		line dto.CreateOrderLineRequest
	}{
		{"pieza y nombre a la vez", dto.CreateOrderLineRequest{
			PartID: "p1", NewItemName: "otro", RequestedQty: decimal.NewFromInt(1), EstimatedPrice: decimal.NewFromInt(1)}},
		{"ni pieza ni nombre", dto.CreateOrderLineRequest{
			RequestedQty: decimal.NewFromInt(1), EstimatedPrice: decimal.NewFromInt(1)}},
		{"cantidad cero", dto.CreateOrderLineRequest{
			PartID: "p1", RequestedQty: decimal.Zero, EstimatedPrice: decimal.NewFromInt(1)}},
		{"precio negativo", dto.CreateOrderLineRequest{
			PartID: "p1", RequestedQty: decimal.NewFromInt(1), EstimatedPrice: decimal.NewFromInt(-1)}},
		{"pieza inexistente", dto.CreateOrderLineRequest{
			PartID: "nope", RequestedQty: decimal.NewFromInt(1), EstimatedPrice: decimal.NewFromInt(1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.orderUC.Create(context.Background(), dto.CreatePurchaseOrderRequest{
				SupplierID: "s1",
				Lines:      []dto.CreateOrderLineRequest{tc.line},
			})
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Autorización y envío
// ──────────────────────────────────────────────────────────────────────────────

func TestOrderAuthorize_SoloDesdeDraft(t *testing.T) {
	e := newEnv()
	order := e.seedOrder(entity.OrderStatusDraft, line("l1", "p1", 5, 10))

	out, err := e.orderUC.Authorize(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusAuthorized, out.Status)

	// Una segunda autorización es conflicto, no idempotencia silenciosa
	_, err = e.orderUC.Authorize(context.Background(), order.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestOrderSend_NotificaYMarcaEmailSent(t *testing.T) {
	e := newEnv()
	order := e.seedOrder(entity.OrderStatusAuthorized, line("l1", "p1", 5, 10))

	out, err := e.orderUC.Send(context.Background(), order.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusSent, out.Status)
	assert.True(t, out.EmailSent)
	assert.Empty(t, out.Warning)
	assert.Equal(t, 1, e.notifier.sent)
}

// El correo falla: la transición a SENT se mantiene y la respuesta advierte.
func TestOrderSend_CorreoFallaPeroLaTransicionQueda(t *testing.T) {
	e := newEnv()
	e.notifier.fail = true
	order := e.seedOrder(entity.OrderStatusDraft, line("l1", "p1", 5, 10))

	out, err := e.orderUC.Send(context.Background(), order.ID)
	require.NoError(t, err, "la falla del correo no es un error de la operación")

	assert.Equal(t, entity.OrderStatusSent, out.Status)
	assert.False(t, out.EmailSent)
	assert.NotEmpty(t, out.Warning)
	assert.Equal(t, entity.OrderStatusSent, e.orders.orders[order.ID].Status,
		"el estado persistido es SENT aunque el correo haya fallado")
}

func TestOrderSend_DesdeSentEsConflicto(t *testing.T) {
	e := newEnv()
	order := e.seedOrder(entity.OrderStatusSent, line("l1", "p1", 5, 10))

	_, err := e.orderUC.Send(context.Background(), order.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

// ──────────────────────────────────────────────────────────────────────────────
// Anulación
// ──────────────────────────────────────────────────────────────────────────────

func TestOrderCancel_MotivoMuyCorto(t *testing.T) {
	e := newEnv()
	order := e.seedOrder(entity.OrderStatusSent, line("l1", "p1", 5, 10))

	_, err := e.orderUC.Cancel(context.Background(), order.ID, "no")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Equal(t, entity.OrderStatusSent, e.orders.orders[order.ID].Status,
		"la orden no cambia con motivo inválido")
}

func TestOrderCancel_ConMotivoValido(t *testing.T) {
	e := newEnv()
	order := e.seedOrder(entity.OrderStatusSent, line("l1", "p1", 5, 10))

	out, err := e.orderUC.Cancel(context.Background(), order.ID, "orden duplicada")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, out.Status)
	assert.Equal(t, "orden duplicada", out.CancelReason)
}

// Una orden con mercancía recibida no se puede anular.
func TestOrderCancel_ConRecepcionesEsConflicto(t *testing.T) {
	e := newEnv()
	l := line("l1", "p1", 5, 10)
	l.ReceivedQty = decimal.NewFromInt(2)
	order := e.seedOrder(entity.OrderStatusReceivedPartial, l)

	_, err := e.orderUC.Cancel(context.Background(), order.ID, "ya no la necesitamos")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestOrderCancel_EstadoTerminal(t *testing.T) {
	e := newEnv()
	order := e.seedOrder(entity.OrderStatusCancelled, line("l1", "p1", 5, 10))

	_, err := e.orderUC.Cancel(context.Background(), order.ID, "motivo suficiente")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

// ──────────────────────────────────────────────────────────────────────────────
// Metadatos y listado
// ──────────────────────────────────────────────────────────────────────────────

func TestOrderUpdateMetadata(t *testing.T) {
	e := newEnv()
	order := e.seedOrder(entity.OrderStatusSent, line("l1", "p1", 5, 10))

	evidence := "s3://soportes/remision-443.jpg"
	ref := "FAC-9921"
	out, err := e.orderUC.UpdateMetadata(context.Background(), order.ID, dto.UpdatePurchaseOrderRequest{
		ReceiptEvidence:   &evidence,
		SupplierReference: &ref,
	})
	require.NoError(t, err)
	assert.Equal(t, evidence, out.ReceiptEvidence)
	assert.Equal(t, ref, out.SupplierReference)
}

func TestOrderUpdateMetadata_EstadoTerminal(t *testing.T) {
	e := newEnv()
	order := e.seedOrder(entity.OrderStatusReceived, line("l1", "p1", 5, 10))

	ref := "FAC-9921"
	_, err := e.orderUC.UpdateMetadata(context.Background(), order.ID, dto.UpdatePurchaseOrderRequest{SupplierReference: &ref})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestOrderList_EstadoDesconocido(t *testing.T) {
	e := newEnv()
	_, err := e.orderUC.List(context.Background(), listFilter("ENVIADA"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestOrderList_FiltraPorEstado(t *testing.T) {
	e := newEnv()
	e.seedOrder(entity.OrderStatusDraft, line("l1", "p1", 5, 10))
	e.seedOrder(entity.OrderStatusSent, line("l2", "p1", 5, 10))

	out, err := e.orderUC.List(context.Background(), listFilter(entity.OrderStatusSent))
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, entity.OrderStatusSent, out.Items[0].Status)
	assert.Equal(t, 1, out.Meta.Total)
}
