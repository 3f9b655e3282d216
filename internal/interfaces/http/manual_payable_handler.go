package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tallerpro/compras-api/internal/application/dto"
	"github.com/tallerpro/compras-api/internal/application/payables"
	"github.com/tallerpro/compras-api/internal/domain/entity"
	"github.com/tallerpro/compras-api/internal/domain/repository"
)

// ManualPayableHandler maneja cuentas por pagar manuales (protegido).
type ManualPayableHandler struct {
	uc *payables.ManualAccountUseCase
}

// NewManualPayableHandler construye el handler.
func NewManualPayableHandler(uc *payables.ManualAccountUseCase) *ManualPayableHandler {
	return &ManualPayableHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar cuenta por pagar manual
// @Description  Deuda fuera del flujo de órdenes (arriendo, servicios, fletes).
// @Description  Requiere proveedor del catálogo o nombre libre de acreedor.
// @Tags         payables
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateManualAccountRequest  true  "Concepto, monto y acreedor"
// @Success      201   {object}  dto.ManualAccountResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/payables/manual [post]
func (h *ManualPayableHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateManualAccountRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar cuentas manuales con su saldo
// @Tags         payables
// @Security     Bearer
// @Produce      json
// @Param        supplier_id      query  string  false  "Filtrar por proveedor"
// @Param        include_settled  query  bool    false  "Incluir cuentas saldadas"
// @Success      200  {object}  dto.ManualAccountListResponse
// @Router       /api/payables/manual [get]
func (h *ManualPayableHandler) List(c *fiber.Ctx) error {
	filter := repository.PayablesFilter{
		SupplierID:     c.Query("supplier_id"),
		IncludeSettled: c.QueryBool("include_settled", false),
	}
	out, err := h.uc.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener cuenta manual por ID (con pagos y saldo)
// @Tags         payables
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cuenta"
// @Success      200  {object}  dto.ManualAccountResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/payables/manual/{id} [get]
func (h *ManualPayableHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "cuenta no encontrada"})
	}
	return c.JSON(out)
}

// RegisterPayment godoc
// @Summary      Registrar un abono contra la cuenta manual
// @Description  El abono nunca puede exceder el saldo pendiente.
// @Tags         payables
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la cuenta"
// @Param        body  body  dto.RegisterPaymentRequest  true  "Monto, método y referencia"
// @Success      201   {object}  dto.ManualAccountResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/payables/manual/{id}/payments [post]
func (h *ManualPayableHandler) RegisterPayment(c *fiber.Ctx) error {
	var in dto.RegisterPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if !entity.IsValidPaymentMethod(in.Method) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "method debe ser CASH, CARD, TRANSFER o CHECK"})
	}
	out, err := h.uc.RegisterPayment(c.UserContext(), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
