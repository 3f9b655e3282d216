package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayableItemResponse fila del reporte consolidado de cuentas por pagar.
type PayableItemResponse struct {
	ID            string          `json:"id"`
	Kind          string          `json:"kind"` // order | manual
	Number        string          `json:"number,omitempty"`
	Concept       string          `json:"concept,omitempty"`
	SupplierID    string          `json:"supplier_id,omitempty"`
	SupplierName  string          `json:"supplier_name"`
	ReferenceDate time.Time       `json:"reference_date"`
	TotalOwed     decimal.Decimal `json:"total_owed"`
	Paid          decimal.Decimal `json:"paid"`
	Balance       decimal.Decimal `json:"balance"`
	AgingDays     int             `json:"aging_days"`
	AgingBucket   string          `json:"aging_bucket"`
}

// AgingBucketSummary conteo y saldo acumulado de un rango de antigüedad.
type AgingBucketSummary struct {
	Count        int             `json:"count"`
	TotalBalance decimal.Decimal `json:"total_balance"`
}

// PayablesTotals totales generales del reporte.
type PayablesTotals struct {
	OrdersBalance decimal.Decimal `json:"orders_balance"`
	ManualBalance decimal.Decimal `json:"manual_balance"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
}

// PayablesReportResponse reporte consolidado: ambos conjuntos, totales y
// resumen de antigüedad calculado sobre la unión.
type PayablesReportResponse struct {
	Orders []PayableItemResponse         `json:"orders"`
	Manual []PayableItemResponse         `json:"manual"`
	Totals PayablesTotals                `json:"totals"`
	Aging  map[string]AgingBucketSummary `json:"aging"`
}
