package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago válidos.
const (
	PaymentMethodCash     = "CASH"
	PaymentMethodCard     = "CARD"
	PaymentMethodTransfer = "TRANSFER"
	PaymentMethodCheck    = "CHECK"
)

// IsValidPaymentMethod indica si el string corresponde a un método definido.
func IsValidPaymentMethod(method string) bool {
	switch method {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer, PaymentMethodCheck:
		return true
	}
	return false
}

// Payment es una entrada inmutable del libro de pagos. Pertenece a exactamente
// un objetivo: una orden de compra o una cuenta por pagar manual, nunca ambos.
// No se modifica ni se borra; las correcciones van por cuenta compensatoria.
type Payment struct {
	ID        string
	OrderID   string // vacío si el pago es de una cuenta manual
	AccountID string // vacío si el pago es de una orden
	Amount    decimal.Decimal // > 0
	Method    string          // ver constantes PaymentMethod*
	Reference string          // comprobante opcional (nro. transferencia, cheque)
	CreatedBy string
	CreatedAt time.Time
}
