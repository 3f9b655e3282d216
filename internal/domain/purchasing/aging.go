package purchasing

import "time"

// Rangos de antigüedad de saldos (días transcurridos desde la fecha de referencia).
const (
	Bucket0To30  = "0_30"
	Bucket31To60 = "31_60"
	Bucket61Plus = "61_plus"
)

// ElapsedDays devuelve los días completos transcurridos entre la fecha de
// referencia y now (piso; fechas futuras dan valores negativos).
func ElapsedDays(referenceDate, now time.Time) int {
	hours := now.Sub(referenceDate).Hours()
	days := int(hours / 24)
	// Piso real para negativos: -1.5 días son -2, no -1
	if hours < 0 && hours/24 != float64(days) {
		days--
	}
	return days
}

// Classify clasifica un saldo por antigüedad según los días transcurridos desde
// la fecha de referencia: recepción para órdenes, registro para cuentas manuales.
// Cero o negativo (referencia futura) clasifica en 0_30.
func Classify(referenceDate, now time.Time) string {
	days := ElapsedDays(referenceDate, now)
	switch {
	case days <= 30:
		return Bucket0To30
	case days <= 60:
		return Bucket31To60
	default:
		return Bucket61Plus
	}
}
