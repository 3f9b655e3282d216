package payables

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tallerpro/compras-api/internal/application/dto"
	"github.com/tallerpro/compras-api/internal/domain"
	domainpurchasing "github.com/tallerpro/compras-api/internal/domain/purchasing"
	"github.com/tallerpro/compras-api/internal/domain/repository"
)

// Claves de ordenamiento del reporte consolidado.
const (
	SortBySupplierName  = "supplier_name"
	SortByBalance       = "balance"
	SortByReferenceDate = "reference_date"
	SortByAgingDays     = "aging_days"
)

// ReportQuery parámetros inmutables del reporte; se construye uno por llamada,
// nunca hay estado de filtro compartido.
type ReportQuery struct {
	SupplierID     string
	DateFrom       *time.Time
	DateTo         *time.Time
	SortBy         string // ver constantes SortBy*; vacío = reference_date
	SortDesc       bool
	IncludeSettled bool // incluir cuentas manuales ya saldadas
}

// ReportUseCase arma el reporte consolidado de cuentas por pagar: órdenes con
// saldo y cuentas manuales, con totales y resumen de antigüedad sobre la unión.
// Solo lectura; relee ambos libros en cada llamada.
type ReportUseCase struct {
	payablesRepo repository.PayablesRepository
	now          func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(payablesRepo repository.PayablesRepository) *ReportUseCase {
	return &ReportUseCase{payablesRepo: payablesRepo, now: time.Now}
}

// Report consulta ambos conjuntos con el mismo filtro, los ordena por la clave
// pedida (desempate por id ascendente para determinismo) y calcula totales y
// resumen de antigüedad.
func (uc *ReportUseCase) Report(ctx context.Context, q ReportQuery) (*dto.PayablesReportResponse, error) {
	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = SortByReferenceDate
	}
	switch sortBy {
	case SortBySupplierName, SortByBalance, SortByReferenceDate, SortByAgingDays:
	default:
		return nil, domain.NewValidationError("sort_by", "clave de ordenamiento desconocida: %s", sortBy)
	}

	filter := repository.PayablesFilter{
		SupplierID:     q.SupplierID,
		DateFrom:       q.DateFrom,
		DateTo:         q.DateTo,
		IncludeSettled: q.IncludeSettled,
	}
	orderRows, err := uc.payablesRepo.OrderPayables(ctx, filter)
	if err != nil {
		return nil, err
	}
	manualRows, err := uc.payablesRepo.ManualPayables(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	orders := toItems(orderRows, now)
	manual := toItems(manualRows, now)
	sortItems(orders, sortBy, q.SortDesc)
	sortItems(manual, sortBy, q.SortDesc)

	resp := &dto.PayablesReportResponse{
		Orders: orders,
		Manual: manual,
		Aging: map[string]dto.AgingBucketSummary{
			domainpurchasing.Bucket0To30:  {TotalBalance: decimal.Zero},
			domainpurchasing.Bucket31To60: {TotalBalance: decimal.Zero},
			domainpurchasing.Bucket61Plus: {TotalBalance: decimal.Zero},
		},
	}
	resp.Totals.OrdersBalance = sumBalances(orders)
	resp.Totals.ManualBalance = sumBalances(manual)
	resp.Totals.GrandTotal = resp.Totals.OrdersBalance.Add(resp.Totals.ManualBalance).Round(2)

	// Resumen de antigüedad sobre la unión de ambos conjuntos.
	for _, set := range [][]dto.PayableItemResponse{orders, manual} {
		for _, item := range set {
			summary := resp.Aging[item.AgingBucket]
			summary.Count++
			summary.TotalBalance = summary.TotalBalance.Add(item.Balance).Round(2)
			resp.Aging[item.AgingBucket] = summary
		}
	}
	return resp, nil
}

// toPayableItem convierte una fila del modelo de lectura en ítem del reporte
// con días y rango de antigüedad derivados.
func toPayableItem(r repository.PayableRow, now time.Time) dto.PayableItemResponse {
	return dto.PayableItemResponse{
		ID:            r.ID,
		Kind:          r.Kind,
		Number:        r.Number,
		Concept:       r.Concept,
		SupplierID:    r.SupplierID,
		SupplierName:  r.SupplierName,
		ReferenceDate: r.ReferenceDate,
		TotalOwed:     r.TotalOwed,
		Paid:          r.Paid,
		Balance:       r.Balance,
		AgingDays:     domainpurchasing.ElapsedDays(r.ReferenceDate, now),
		AgingBucket:   domainpurchasing.Classify(r.ReferenceDate, now),
	}
}

func toItems(rows []repository.PayableRow, now time.Time) []dto.PayableItemResponse {
	items := make([]dto.PayableItemResponse, 0, len(rows))
	for _, r := range rows {
		items = append(items, toPayableItem(r, now))
	}
	return items
}

// sortItems ordena estable por la clave pedida, con desempate por id ascendente.
func sortItems(items []dto.PayableItemResponse, sortBy string, desc bool) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		var less, equal bool
		switch sortBy {
		case SortBySupplierName:
			less = a.SupplierName < b.SupplierName
			equal = a.SupplierName == b.SupplierName
		case SortByBalance:
			less = a.Balance.LessThan(b.Balance)
			equal = a.Balance.Equal(b.Balance)
		case SortByAgingDays:
			less = a.AgingDays < b.AgingDays
			equal = a.AgingDays == b.AgingDays
		default: // SortByReferenceDate
			less = a.ReferenceDate.Before(b.ReferenceDate)
			equal = a.ReferenceDate.Equal(b.ReferenceDate)
		}
		if equal {
			return a.ID < b.ID
		}
		if desc {
			return !less
		}
		return less
	})
}

func sumBalances(items []dto.PayableItemResponse) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Balance)
	}
	return total.Round(2)
}
