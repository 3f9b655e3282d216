package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de fila del reporte consolidado de cuentas por pagar.
const (
	PayableKindOrder  = "order"
	PayableKindManual = "manual"
)

// PayableRow es una fila del reporte consolidado: una orden con saldo o una
// cuenta manual, con deuda, pagos y saldo ya agregados por SQL.
type PayableRow struct {
	ID            string
	Kind          string // PayableKindOrder | PayableKindManual
	Number        string // consecutivo de orden o referencia de factura
	Concept       string
	SupplierID    string
	SupplierName  string // nombre de proveedor, o acreedor libre en cuentas manuales
	ReferenceDate time.Time // primera recepción (orden) o registro (manual)
	TotalOwed     decimal.Decimal
	Paid          decimal.Decimal
	Balance       decimal.Decimal
}

// PayablesFilter filtros comunes a ambos conjuntos del reporte.
type PayablesFilter struct {
	SupplierID     string
	DateFrom       *time.Time // sobre la fecha de referencia
	DateTo         *time.Time
	IncludeSettled bool // solo aplica a cuentas manuales; las órdenes saldadas siempre se excluyen
}

// PayablesRepository consultas de solo lectura para el reporte consolidado.
type PayablesRepository interface {
	// OrderPayables devuelve las órdenes con recepciones y saldo pendiente.
	OrderPayables(ctx context.Context, filter PayablesFilter) ([]PayableRow, error)
	// ManualPayables devuelve las cuentas manuales abiertas (y saldadas si se pide).
	ManualPayables(ctx context.Context, filter PayablesFilter) ([]PayableRow, error)
}
