package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
)

// ValidationError indica entrada malformada o fuera de rango en un campo concreto.
// El mensaje debe ser accionable por el usuario (campo + restricción violada).
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is permite errors.Is(err, domain.ErrInvalidInput) sobre errores de validación.
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// NewValidationError construye un error de validación para un campo.
func NewValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// TransitionError indica una operación ilegal para el estado actual de la orden.
// Current y Attempted permiten al handler armar un mensaje con el estado vigente.
type TransitionError struct {
	Current   string // estado actual de la orden
	Attempted string // operación u estado destino solicitado
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transición inválida: la orden está en estado %s y no admite %s", e.Current, e.Attempted)
}

// Is permite errors.Is(err, domain.ErrConflict) sobre errores de transición.
func (e *TransitionError) Is(target error) bool { return target == ErrConflict }

// OverpaymentError indica un pago que excede el saldo pendiente del objetivo.
// Es una especialización de validación: lleva el monto ofensivo y el saldo permitido.
type OverpaymentError struct {
	Amount  decimal.Decimal // monto rechazado
	Balance decimal.Decimal // saldo pendiente al momento de validar
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("el pago de %s excede el saldo pendiente de %s",
		e.Amount.StringFixed(2), e.Balance.StringFixed(2))
}

// Is permite errors.Is(err, domain.ErrInvalidInput): un sobrepago es entrada fuera de rango.
func (e *OverpaymentError) Is(target error) bool { return target == ErrInvalidInput }
