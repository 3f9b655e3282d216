package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tallerpro/compras-api/internal/application/dto"
	"github.com/tallerpro/compras-api/internal/application/payables"
)

// PayablesHandler maneja el reporte consolidado de cuentas por pagar (protegido).
type PayablesHandler struct {
	uc *payables.ReportUseCase
}

// NewPayablesHandler construye el handler.
func NewPayablesHandler(uc *payables.ReportUseCase) *PayablesHandler {
	return &PayablesHandler{uc: uc}
}

// Report godoc
// @Summary      Reporte consolidado de cuentas por pagar
// @Description  Órdenes con saldo pendiente más cuentas manuales, con totales
// @Description  y clasificación por antigüedad (0_30, 31_60, 61_plus).
// @Tags         payables
// @Security     Bearer
// @Produce      json
// @Param        supplier_id      query  string  false  "Filtrar por proveedor"
// @Param        date_from        query  string  false  "Fecha de referencia mínima (YYYY-MM-DD)"
// @Param        date_to          query  string  false  "Fecha de referencia máxima (YYYY-MM-DD)"
// @Param        sort_by          query  string  false  "supplier_name | balance | reference_date | aging_days"
// @Param        sort_desc        query  bool    false  "Orden descendente"
// @Param        include_settled  query  bool    false  "Incluir cuentas manuales saldadas"
// @Success      200  {object}  dto.PayablesReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/payables/report [get]
func (h *PayablesHandler) Report(c *fiber.Ctx) error {
	q := payables.ReportQuery{
		SupplierID:     c.Query("supplier_id"),
		SortBy:         c.Query("sort_by"),
		SortDesc:       c.QueryBool("sort_desc", false),
		IncludeSettled: c.QueryBool("include_settled", false),
	}

	if raw := c.Query("date_from"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date_from: formato esperado YYYY-MM-DD"})
		}
		q.DateFrom = &t
	}
	if raw := c.Query("date_to"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date_to: formato esperado YYYY-MM-DD"})
		}
		// date_to es inclusivo: cubre hasta el final del día
		t = t.Add(24*time.Hour - time.Nanosecond)
		q.DateTo = &t
	}

	out, err := h.uc.Report(c.UserContext(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
