package purchasing_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallerpro/compras-api/internal/domain"
	"github.com/tallerpro/compras-api/internal/domain/entity"
	"github.com/tallerpro/compras-api/internal/domain/purchasing"
)

func pay(f float64) *entity.Payment {
	return &entity.Payment{Amount: decimal.NewFromFloat(f)}
}

// ──────────────────────────────────────────────────────────────────────────────
// Deuda y saldo
// ──────────────────────────────────────────────────────────────────────────────

func TestOrderTotalOwed_SoloLoRecibido(t *testing.T) {
	actual := decimal.NewFromFloat(5.50)
	order := &entity.PurchaseOrder{Lines: []*entity.PurchaseOrderLine{
		{
			RequestedQty:    decimal.NewFromInt(10),
			ReceivedQty:     decimal.NewFromInt(6),
			EstimatedPrice:  decimal.NewFromFloat(5.00),
			ActualUnitPrice: &actual,
		},
	}}
	// 6 × 5.50 = 33.00; lo no recibido no genera deuda
	assert.Equal(t, "33.00", purchasing.OrderTotalOwed(order).StringFixed(2))
}

func TestOrderTotalOwed_SinRecepcionesEsCero(t *testing.T) {
	order := &entity.PurchaseOrder{Lines: []*entity.PurchaseOrderLine{
		{RequestedQty: decimal.NewFromInt(10), EstimatedPrice: decimal.NewFromFloat(99.99)},
	}}
	assert.True(t, purchasing.OrderTotalOwed(order).IsZero())
}

func TestBalance_RestaLosPagos(t *testing.T) {
	owed := decimal.NewFromFloat(55.00)
	payments := []*entity.Payment{pay(20.00), pay(15.50)}
	assert.Equal(t, "19.50", purchasing.Balance(owed, payments).StringFixed(2))
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación de abonos: el sobrepago se rechaza siempre
// ──────────────────────────────────────────────────────────────────────────────

// Pagar exactamente el saldo deja la cuenta en cero y saldada.
func TestValidatePayment_PagoExacto(t *testing.T) {
	balance := decimal.NewFromFloat(55.00)
	require.NoError(t, purchasing.ValidatePayment(decimal.NewFromFloat(55.00), balance))

	after := purchasing.Balance(balance, []*entity.Payment{pay(55.00)})
	assert.True(t, after.IsZero())
	assert.True(t, purchasing.Settled(after))
}

// Un centavo de más sobre saldo cero es sobrepago.
func TestValidatePayment_SobrepagoDeUnCentavo(t *testing.T) {
	err := purchasing.ValidatePayment(decimal.NewFromFloat(0.01), decimal.Zero)
	require.Error(t, err)

	var ope *domain.OverpaymentError
	require.ErrorAs(t, err, &ope)
	assert.Equal(t, "0.01", ope.Amount.StringFixed(2))
	assert.Equal(t, "0.00", ope.Balance.StringFixed(2))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestValidatePayment_SobrepagoSobreSaldoParcial(t *testing.T) {
	err := purchasing.ValidatePayment(decimal.NewFromFloat(40.00), decimal.NewFromFloat(33.00))
	require.Error(t, err)

	var ope *domain.OverpaymentError
	require.ErrorAs(t, err, &ope)
	assert.Equal(t, "33.00", ope.Balance.StringFixed(2),
		"el error debe llevar el saldo permitido")
}

func TestValidatePayment_MontoNoPositivo(t *testing.T) {
	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromFloat(-5)} {
		err := purchasing.ValidatePayment(amount, decimal.NewFromFloat(100))
		require.Error(t, err, "monto %s debe rechazarse", amount)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	}
}

// La comparación es sobre redondeo a 2 decimales, no flotante: 33.004 cabe en 33.00.
func TestValidatePayment_ComparaRedondeado(t *testing.T) {
	err := purchasing.ValidatePayment(decimal.NewFromFloat(33.004), decimal.NewFromFloat(33.00))
	assert.NoError(t, err)

	err = purchasing.ValidatePayment(decimal.NewFromFloat(33.006), decimal.NewFromFloat(33.00))
	assert.Error(t, err)
}

func TestSettled(t *testing.T) {
	assert.True(t, purchasing.Settled(decimal.Zero))
	assert.True(t, purchasing.Settled(decimal.NewFromFloat(0.001)), "menos de medio centavo redondea a cero")
	assert.False(t, purchasing.Settled(decimal.NewFromFloat(0.01)))
}
