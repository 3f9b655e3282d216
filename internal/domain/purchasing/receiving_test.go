package purchasing_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallerpro/compras-api/internal/domain"
	"github.com/tallerpro/compras-api/internal/domain/entity"
	"github.com/tallerpro/compras-api/internal/domain/purchasing"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

// orderWithLine construye una orden SENT con una línea catalogada de 10 unidades
// a precio estimado 5.00.
func orderWithLine() *entity.PurchaseOrder {
	return &entity.PurchaseOrder{
		ID:     "o1",
		Status: entity.OrderStatusSent,
		Lines: []*entity.PurchaseOrderLine{
			{
				ID:             "l1",
				OrderID:        "o1",
				PartID:         "p1",
				RequestedQty:   decimal.NewFromInt(10),
				ReceivedQty:    decimal.Zero,
				EstimatedPrice: decimal.NewFromFloat(5.00),
			},
		},
	}
}

func price(f float64) *decimal.Decimal {
	d := decimal.NewFromFloat(f)
	return &d
}

// ──────────────────────────────────────────────────────────────────────────────
// Recepción parcial y completado
// ──────────────────────────────────────────────────────────────────────────────

// Recibir 6 de 10 unidades con precio real deja la orden en RECEIVED_PARTIAL
// y fija FirstReceivedAt.
func TestApplyReceipt_ParcialConPrecioReal(t *testing.T) {
	order := orderWithLine()
	deltas, err := purchasing.ApplyReceipt(order, []purchasing.ReceiptEntry{
		{LineID: "l1", Qty: decimal.NewFromInt(6), ActualUnitPrice: price(5.50)},
	}, testNow)
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusReceivedPartial, order.Status)
	assert.True(t, order.Lines[0].ReceivedQty.Equal(decimal.NewFromInt(6)))
	require.NotNil(t, order.Lines[0].ActualUnitPrice)
	assert.True(t, order.Lines[0].ActualUnitPrice.Equal(decimal.NewFromFloat(5.50)))
	require.NotNil(t, order.FirstReceivedAt)
	assert.Equal(t, testNow, *order.FirstReceivedAt)

	// La deuda refleja solo lo recibido al precio real: 6 × 5.50 = 33.00
	assert.Equal(t, "33.00", purchasing.OrderTotalOwed(order).StringFixed(2))

	require.Len(t, deltas, 1)
	assert.Equal(t, "p1", deltas[0].PartID)
	assert.True(t, deltas[0].Qty.Equal(decimal.NewFromInt(6)))
	assert.True(t, deltas[0].UnitPrice.Equal(decimal.NewFromFloat(5.50)))
}

// Completar las 4 unidades restantes deriva RECEIVED y la deuda sube a 55.00.
func TestApplyReceipt_SegundaRecepcionCompleta(t *testing.T) {
	order := orderWithLine()
	_, err := purchasing.ApplyReceipt(order, []purchasing.ReceiptEntry{
		{LineID: "l1", Qty: decimal.NewFromInt(6), ActualUnitPrice: price(5.50)},
	}, testNow)
	require.NoError(t, err)
	firstReceived := *order.FirstReceivedAt

	later := testNow.Add(72 * time.Hour)
	_, err = purchasing.ApplyReceipt(order, []purchasing.ReceiptEntry{
		{LineID: "l1", Qty: decimal.NewFromInt(4)},
	}, later)
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusReceived, order.Status)
	assert.True(t, order.Lines[0].Complete())
	assert.Equal(t, "55.00", purchasing.OrderTotalOwed(order).StringFixed(2))
	// FirstReceivedAt se fija una sola vez
	assert.Equal(t, firstReceived, *order.FirstReceivedAt)
}

// Orden con varias líneas: mientras alguna esté incompleta el estado es parcial.
func TestApplyReceipt_VariasLineas_ParcialHastaCompletarTodas(t *testing.T) {
	order := orderWithLine()
	order.Lines = append(order.Lines, &entity.PurchaseOrderLine{
		ID: "l2", OrderID: "o1", PartID: "p2",
		RequestedQty:   decimal.NewFromInt(2),
		EstimatedPrice: decimal.NewFromFloat(12.00),
	})

	_, err := purchasing.ApplyReceipt(order, []purchasing.ReceiptEntry{
		{LineID: "l1", Qty: decimal.NewFromInt(10)},
	}, testNow)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusReceivedPartial, order.Status,
		"l2 sigue pendiente: el estado debe ser parcial")

	_, err = purchasing.ApplyReceipt(order, []purchasing.ReceiptEntry{
		{LineID: "l2", Qty: decimal.NewFromInt(2)},
	}, testNow)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusReceived, order.Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Validaciones: el lote es todo o nada
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyReceipt_EstadoIlegal(t *testing.T) {
	for _, status := range []string{
		entity.OrderStatusDraft, entity.OrderStatusAuthorized,
		entity.OrderStatusReceived, entity.OrderStatusCancelled,
	} {
		order := orderWithLine()
		order.Status = status
		_, err := purchasing.ApplyReceipt(order, []purchasing.ReceiptEntry{
			{LineID: "l1", Qty: decimal.NewFromInt(1)},
		}, testNow)
		require.Error(t, err, "recibir en estado %s debe fallar", status)
		assert.True(t, errors.Is(err, domain.ErrConflict),
			"el error en estado %s debe mapear a conflicto", status)

		var te *domain.TransitionError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, status, te.Current, "el error debe llevar el estado vigente")
	}
}

func TestApplyReceipt_ExcedeLoSolicitado(t *testing.T) {
	order := orderWithLine()
	_, err := purchasing.ApplyReceipt(order, []purchasing.ReceiptEntry{
		{LineID: "l1", Qty: decimal.NewFromInt(11)},
	}, testNow)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	// Nada se aplicó
	assert.True(t, order.Lines[0].ReceivedQty.IsZero())
	assert.Equal(t, entity.OrderStatusSent, order.Status)
}

// El acumulado por línea dentro del mismo lote también respeta el tope.
func TestApplyReceipt_LineaRepetidaEnElLoteExcede(t *testing.T) {
	order := orderWithLine()
	_, err := purchasing.ApplyReceipt(order, []purchasing.ReceiptEntry{
		{LineID: "l1", Qty: decimal.NewFromInt(6)},
		{LineID: "l1", Qty: decimal.NewFromInt(5)},
	}, testNow)
	require.Error(t, err)
	assert.True(t, order.Lines[0].ReceivedQty.IsZero(), "lote inválido: nada se aplica")
}

func TestApplyReceipt_LineaAjena(t *testing.T) {
	order := orderWithLine()
	_, err := purchasing.ApplyReceipt(order, []purchasing.ReceiptEntry{
		{LineID: "otra", Qty: decimal.NewFromInt(1)},
	}, testNow)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestApplyReceipt_CantidadNegativa(t *testing.T) {
	order := orderWithLine()
	_, err := purchasing.ApplyReceipt(order, []purchasing.ReceiptEntry{
		{LineID: "l1", Qty: decimal.NewFromInt(-1)},
	}, testNow)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestApplyReceipt_PrecioNegativo(t *testing.T) {
	order := orderWithLine()
	_, err := purchasing.ApplyReceipt(order, []purchasing.ReceiptEntry{
		{LineID: "l1", Qty: decimal.NewFromInt(1), ActualUnitPrice: price(-0.01)},
	}, testNow)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

// Un artículo nuevo sin resolver a catálogo no puede recibir unidades.
func TestApplyReceipt_ArticuloNuevoSinCatalogar(t *testing.T) {
	order := orderWithLine()
	order.Lines[0].PartID = ""
	order.Lines[0].NewItemName = "sensor de oxígeno"

	_, err := purchasing.ApplyReceipt(order, []purchasing.ReceiptEntry{
		{LineID: "l1", Qty: decimal.NewFromInt(1)},
	}, testNow)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

// Todas las cantidades en cero: no hay nada por recibir.
func TestApplyReceipt_NadaPorRecibir(t *testing.T) {
	order := orderWithLine()
	_, err := purchasing.ApplyReceipt(order, []purchasing.ReceiptEntry{
		{LineID: "l1", Qty: decimal.Zero, ActualUnitPrice: price(5.50)},
	}, testNow)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Nil(t, order.Lines[0].ActualUnitPrice, "lote inválido: ni el precio se aplica")
	assert.Nil(t, order.FirstReceivedAt)
}
