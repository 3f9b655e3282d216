package purchasing

import (
	"github.com/shopspring/decimal"
	"github.com/tallerpro/compras-api/internal/domain"
	"github.com/tallerpro/compras-api/internal/domain/entity"
)

// Libro de pagos: cálculo de deuda y validación de abonos. Las entradas son
// estrictamente append-only; no existe reverso de pago (las correcciones se
// modelan con una cuenta manual compensatoria, fuera de este módulo).

// OrderTotalOwed calcula la deuda de una orden: suma de cantidad recibida por
// precio unitario efectivo (real si existe, estimado si no), redondeada a 2 decimales.
// Una orden sin recepciones no debe nada.
func OrderTotalOwed(order *entity.PurchaseOrder) decimal.Decimal {
	total := decimal.Zero
	for _, l := range order.Lines {
		total = total.Add(l.ReceivedQty.Mul(l.UnitPrice()))
	}
	return total.Round(2)
}

// PaidTotal suma los pagos existentes de un objetivo, redondeada a 2 decimales.
func PaidTotal(payments []*entity.Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total.Round(2)
}

// Balance devuelve el saldo pendiente: deuda menos pagos, a 2 decimales.
func Balance(totalOwed decimal.Decimal, payments []*entity.Payment) decimal.Decimal {
	return totalOwed.Round(2).Sub(PaidTotal(payments)).Round(2)
}

// ValidatePayment valida un abono contra el saldo pendiente. La comparación se
// hace sobre montos redondeados a 2 decimales, nunca con aritmética flotante.
func ValidatePayment(amount, balance decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return domain.NewValidationError("amount", "el monto del pago debe ser mayor que cero (recibido %s)", amount.StringFixed(2))
	}
	if amount.Round(2).GreaterThan(balance.Round(2)) {
		return &domain.OverpaymentError{Amount: amount.Round(2), Balance: balance.Round(2)}
	}
	return nil
}

// Settled indica si el objetivo quedó saldado (saldo exactamente cero a 2 decimales).
func Settled(balance decimal.Decimal) bool {
	return balance.Round(2).IsZero()
}
