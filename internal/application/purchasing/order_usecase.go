package purchasing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tallerpro/compras-api/internal/application/dto"
	"github.com/tallerpro/compras-api/internal/domain"
	"github.com/tallerpro/compras-api/internal/domain/entity"
	domainpurchasing "github.com/tallerpro/compras-api/internal/domain/purchasing"
	"github.com/tallerpro/compras-api/internal/domain/repository"
)

// OrderUseCase administra el ciclo de vida de la orden de compra:
// DRAFT -> AUTHORIZED -> SENT -> RECEIVED_PARTIAL -> RECEIVED, con CANCELLED
// alcanzable desde DRAFT/AUTHORIZED/SENT. Las mutaciones corren en transacción
// con la fila de la orden bloqueada (SELECT FOR UPDATE).
type OrderUseCase struct {
	txRunner     TxRunner
	orderRepo    repository.PurchaseOrderRepository
	paymentRepo  repository.PaymentRepository
	supplierRepo repository.SupplierRepository
	partRepo     repository.PartRepository
	pdfGen       OrderPDFGenerator
	notifier     SupplierNotifier
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	txRunner TxRunner,
	orderRepo repository.PurchaseOrderRepository,
	paymentRepo repository.PaymentRepository,
	supplierRepo repository.SupplierRepository,
	partRepo repository.PartRepository,
	pdfGen OrderPDFGenerator,
	notifier SupplierNotifier,
) *OrderUseCase {
	return &OrderUseCase{
		txRunner:     txRunner,
		orderRepo:    orderRepo,
		paymentRepo:  paymentRepo,
		supplierRepo: supplierRepo,
		partRepo:     partRepo,
		pdfGen:       pdfGen,
		notifier:     notifier,
	}
}

// Create crea una orden en DRAFT con sus líneas. Valida proveedor existente y
// que cada línea tenga cantidad positiva y exactamente una de pieza de catálogo
// o nombre de artículo nuevo.
func (uc *OrderUseCase) Create(ctx context.Context, in dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if in.SupplierID == "" {
		return nil, domain.NewValidationError("supplier_id", "el proveedor es requerido")
	}
	supplier, err := uc.supplierRepo.GetByID(in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}
	if len(in.Lines) == 0 {
		return nil, domain.NewValidationError("lines", "la orden requiere al menos una línea")
	}

	now := time.Now()
	order := &entity.PurchaseOrder{
		ID:                uuid.New().String(),
		SupplierID:        in.SupplierID,
		VehicleRef:        in.VehicleRef,
		Observations:      in.Observations,
		Status:            entity.OrderStatusDraft,
		EstimatedDelivery: in.EstimatedDelivery,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	for _, l := range in.Lines {
		if err := uc.validateLine(l); err != nil {
			return nil, err
		}
		order.Lines = append(order.Lines, &entity.PurchaseOrderLine{
			ID:             uuid.New().String(),
			OrderID:        order.ID,
			PartID:         l.PartID,
			NewItemName:    strings.TrimSpace(l.NewItemName),
			RequestedQty:   l.RequestedQty,
			ReceivedQty:    decimal.Zero,
			EstimatedPrice: l.EstimatedPrice.Round(2),
		})
	}

	err = uc.txRunner.Run(ctx, func(orderRepo repository.PurchaseOrderRepository, _ repository.PaymentRepository) error {
		number, err := orderRepo.NextNumber()
		if err != nil {
			return err
		}
		order.Number = number
		return orderRepo.Create(order)
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(order, nil), nil
}

func (uc *OrderUseCase) validateLine(l dto.CreateOrderLineRequest) error {
	hasPart := l.PartID != ""
	hasName := strings.TrimSpace(l.NewItemName) != ""
	if hasPart == hasName { // ninguno o ambos
		return domain.NewValidationError("lines", "cada línea lleva una pieza del catálogo o un nombre de artículo nuevo, no ambos ni ninguno")
	}
	if !l.RequestedQty.GreaterThan(decimal.Zero) {
		return domain.NewValidationError("requested_qty", "la cantidad solicitada debe ser mayor que cero")
	}
	if l.EstimatedPrice.LessThan(decimal.Zero) {
		return domain.NewValidationError("estimated_price", "el precio estimado no puede ser negativo")
	}
	if hasPart {
		part, err := uc.partRepo.GetByID(l.PartID)
		if err != nil {
			return err
		}
		if part == nil {
			return domain.NewValidationError("part_id", "la pieza %s no existe en el catálogo", l.PartID)
		}
	}
	return nil
}

// GetByID obtiene la orden con líneas, pagos y derivados de saldo. Nil si no existe.
func (uc *OrderUseCase) GetByID(ctx context.Context, id string) (*dto.PurchaseOrderResponse, error) {
	order, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, nil
	}
	payments, err := uc.paymentRepo.ListByOrder(id)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(order, payments), nil
}

// List devuelve la página filtrada de órdenes con total y total de páginas.
func (uc *OrderUseCase) List(ctx context.Context, filter repository.PurchaseOrderFilter) (*dto.PurchaseOrderListResponse, error) {
	if filter.Status != "" && !entity.IsValidStatus(filter.Status) {
		return nil, domain.NewValidationError("status", "estado desconocido: %s", filter.Status)
	}
	orders, total, err := uc.orderRepo.List(filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseOrderResponse, 0, len(orders))
	for _, o := range orders {
		items = append(items, *uc.toResponse(o, nil))
	}
	return &dto.PurchaseOrderListResponse{
		Items: items,
		Meta: dto.ListMeta{
			Skip:       filter.Skip,
			Limit:      filter.Limit,
			Total:      total,
			TotalPages: dto.TotalPages(total, filter.Limit),
		},
	}, nil
}

// Authorize pasa la orden de DRAFT a AUTHORIZED.
func (uc *OrderUseCase) Authorize(ctx context.Context, id string) (*dto.PurchaseOrderResponse, error) {
	var order *entity.PurchaseOrder
	err := uc.txRunner.Run(ctx, func(orderRepo repository.PurchaseOrderRepository, _ repository.PaymentRepository) error {
		var err error
		order, err = orderRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status != entity.OrderStatusDraft {
			return &domain.TransitionError{Current: order.Status, Attempted: "autorización"}
		}
		order.Status = entity.OrderStatusAuthorized
		order.UpdatedAt = time.Now()
		return orderRepo.Update(order)
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(order, nil), nil
}

// Send pasa la orden (DRAFT o AUTHORIZED) a SENT y luego intenta notificar al
// proveedor por correo con el PDF de la orden. La transición queda confirmada
// antes del envío; si el correo falla la respuesta lleva una advertencia y
// email_sent permanece en false.
func (uc *OrderUseCase) Send(ctx context.Context, id string) (*dto.PurchaseOrderResponse, error) {
	var order *entity.PurchaseOrder
	err := uc.txRunner.Run(ctx, func(orderRepo repository.PurchaseOrderRepository, _ repository.PaymentRepository) error {
		var err error
		order, err = orderRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if !entity.CanTransition(order.Status, entity.OrderStatusSent) {
			return &domain.TransitionError{Current: order.Status, Attempted: "envío al proveedor"}
		}
		order.Status = entity.OrderStatusSent
		order.UpdatedAt = time.Now()
		return orderRepo.Update(order)
	})
	if err != nil {
		return nil, err
	}

	// Transición confirmada; la notificación es best-effort y se reporta aparte.
	resp := uc.toResponse(order, nil)
	if warning := uc.notifySupplier(ctx, order); warning != "" {
		resp.Warning = warning
		return resp, nil
	}
	order.EmailSent = true
	order.UpdatedAt = time.Now()
	if err := uc.orderRepo.Update(order); err != nil {
		return nil, err
	}
	resp.EmailSent = true
	return resp, nil
}

// notifySupplier genera el PDF y envía el correo. Devuelve la advertencia para
// el caller (vacía si todo salió bien).
func (uc *OrderUseCase) notifySupplier(ctx context.Context, order *entity.PurchaseOrder) string {
	supplier, err := uc.supplierRepo.GetByID(order.SupplierID)
	if err != nil || supplier == nil {
		return "no se pudo cargar el proveedor para notificar la orden"
	}
	if supplier.Email == "" {
		return "el proveedor no tiene correo registrado; la orden no fue notificada"
	}
	parts, err := uc.loadParts(order)
	if err != nil {
		return "no se pudo armar el PDF de la orden: " + err.Error()
	}
	pdf, err := uc.pdfGen.GenerateOrderPDF(ctx, order, supplier, parts)
	if err != nil {
		return "no se pudo generar el PDF de la orden: " + err.Error()
	}
	if err := uc.notifier.SendOrder(ctx, order, supplier, pdf); err != nil {
		return "el correo al proveedor falló: " + err.Error()
	}
	return ""
}

// loadParts carga las piezas de catálogo referenciadas por las líneas.
func (uc *OrderUseCase) loadParts(order *entity.PurchaseOrder) (map[string]*entity.Part, error) {
	parts := make(map[string]*entity.Part)
	for _, l := range order.Lines {
		if l.PartID == "" {
			continue
		}
		if _, ok := parts[l.PartID]; ok {
			continue
		}
		part, err := uc.partRepo.GetByID(l.PartID)
		if err != nil {
			return nil, err
		}
		if part != nil {
			parts[l.PartID] = part
		}
	}
	return parts, nil
}

// Cancel anula la orden desde DRAFT/AUTHORIZED/SENT. Exige un motivo de al
// menos 5 caracteres y rechaza órdenes con mercancía ya recibida.
func (uc *OrderUseCase) Cancel(ctx context.Context, id, reason string) (*dto.PurchaseOrderResponse, error) {
	if len(strings.TrimSpace(reason)) < 5 {
		return nil, domain.NewValidationError("reason", "el motivo de anulación debe tener al menos 5 caracteres")
	}
	var order *entity.PurchaseOrder
	err := uc.txRunner.Run(ctx, func(orderRepo repository.PurchaseOrderRepository, _ repository.PaymentRepository) error {
		var err error
		order, err = orderRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.HasReceipts() {
			return &domain.TransitionError{Current: order.Status, Attempted: "anulación con mercancía ya recibida"}
		}
		if !entity.CanTransition(order.Status, entity.OrderStatusCancelled) {
			return &domain.TransitionError{Current: order.Status, Attempted: "anulación"}
		}
		order.Status = entity.OrderStatusCancelled
		order.CancelReason = strings.TrimSpace(reason)
		order.UpdatedAt = time.Now()
		return orderRepo.Update(order)
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(order, nil), nil
}

// UpdateMetadata actualiza fecha estimada de entrega, soporte de recepción y
// referencia del proveedor. Legal en cualquier estado no terminal.
func (uc *OrderUseCase) UpdateMetadata(ctx context.Context, id string, in dto.UpdatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	var order *entity.PurchaseOrder
	err := uc.txRunner.Run(ctx, func(orderRepo repository.PurchaseOrderRepository, _ repository.PaymentRepository) error {
		var err error
		order, err = orderRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if entity.IsTerminalStatus(order.Status) {
			return &domain.TransitionError{Current: order.Status, Attempted: "actualización de metadatos"}
		}
		if in.ClearEstimatedDelivery {
			order.EstimatedDelivery = nil
		} else if in.EstimatedDelivery != nil {
			order.EstimatedDelivery = in.EstimatedDelivery
		}
		if in.ReceiptEvidence != nil {
			order.ReceiptEvidence = *in.ReceiptEvidence
		}
		if in.SupplierReference != nil {
			order.SupplierReference = *in.SupplierReference
		}
		order.UpdatedAt = time.Now()
		return orderRepo.Update(order)
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(order, nil), nil
}

// OrderPDF genera el PDF de la orden para descarga directa.
func (uc *OrderUseCase) OrderPDF(ctx context.Context, id string) ([]byte, error) {
	order, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	supplier, err := uc.supplierRepo.GetByID(order.SupplierID)
	if err != nil {
		return nil, err
	}
	parts, err := uc.loadParts(order)
	if err != nil {
		return nil, err
	}
	return uc.pdfGen.GenerateOrderPDF(ctx, order, supplier, parts)
}

// toResponse arma la respuesta con saldo, deuda y vencimiento derivados.
func (uc *OrderUseCase) toResponse(order *entity.PurchaseOrder, payments []*entity.Payment) *dto.PurchaseOrderResponse {
	totalOwed := domainpurchasing.OrderTotalOwed(order)
	paid := domainpurchasing.PaidTotal(payments)
	resp := &dto.PurchaseOrderResponse{
		ID:                order.ID,
		Number:            order.Number,
		SupplierID:        order.SupplierID,
		VehicleRef:        order.VehicleRef,
		Observations:      order.Observations,
		Status:            order.Status,
		SupplierReference: order.SupplierReference,
		ReceiptEvidence:   order.ReceiptEvidence,
		EstimatedDelivery: order.EstimatedDelivery,
		EmailSent:         order.EmailSent,
		CancelReason:      order.CancelReason,
		FirstReceivedAt:   order.FirstReceivedAt,
		Overdue:           order.Overdue(time.Now()),
		TotalOwed:         totalOwed,
		Paid:              paid,
		Balance:           totalOwed.Sub(paid).Round(2),
		CreatedAt:         order.CreatedAt,
		UpdatedAt:         order.UpdatedAt,
	}
	for _, l := range order.Lines {
		resp.Lines = append(resp.Lines, dto.OrderLineResponse{
			ID:              l.ID,
			PartID:          l.PartID,
			NewItemName:     l.NewItemName,
			RequestedQty:    l.RequestedQty,
			ReceivedQty:     l.ReceivedQty,
			EstimatedPrice:  l.EstimatedPrice,
			ActualUnitPrice: l.ActualUnitPrice,
		})
	}
	for _, p := range payments {
		resp.Payments = append(resp.Payments, dto.PaymentResponse{
			ID:        p.ID,
			Amount:    p.Amount,
			Method:    p.Method,
			Reference: p.Reference,
			CreatedAt: p.CreatedAt,
		})
	}
	return resp
}
