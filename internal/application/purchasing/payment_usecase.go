package purchasing

import (
	"context"

	"github.com/google/uuid"
	"github.com/tallerpro/compras-api/internal/application/dto"
	"github.com/tallerpro/compras-api/internal/domain"
	"github.com/tallerpro/compras-api/internal/domain/entity"
	domainpurchasing "github.com/tallerpro/compras-api/internal/domain/purchasing"
	"github.com/tallerpro/compras-api/internal/domain/repository"
)

// PaymentUseCase registra abonos contra una orden de compra. La verificación de
// saldo y la inserción del pago son atómicas: corren en la misma transacción
// con la fila de la orden bloqueada, de modo que dos pagos concurrentes contra
// la misma orden se serializan y nunca exceden el saldo entre ambos.
type PaymentUseCase struct {
	txRunner TxRunner
	order    *OrderUseCase
}

// NewPaymentUseCase construye el caso de uso.
func NewPaymentUseCase(txRunner TxRunner, order *OrderUseCase) *PaymentUseCase {
	return &PaymentUseCase{txRunner: txRunner, order: order}
}

// RegisterPayment abona contra la orden. Solo legal con mercancía recibida
// (RECEIVED_PARTIAL o RECEIVED); la deuda es recibido × precio efectivo.
func (uc *PaymentUseCase) RegisterPayment(ctx context.Context, orderID, userID string, in dto.RegisterPaymentRequest) (*dto.PurchaseOrderResponse, error) {
	if !entity.IsValidPaymentMethod(in.Method) {
		return nil, domain.NewValidationError("method", "método de pago desconocido: %s", in.Method)
	}

	var order *entity.PurchaseOrder
	var payments []*entity.Payment
	err := uc.txRunner.Run(ctx, func(orderRepo repository.PurchaseOrderRepository, paymentRepo repository.PaymentRepository) error {
		var err error
		order, err = orderRepo.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status != entity.OrderStatusReceivedPartial && order.Status != entity.OrderStatusReceived {
			return &domain.TransitionError{Current: order.Status, Attempted: "registro de pago sin mercancía recibida"}
		}

		payments, err = paymentRepo.ListByOrder(orderID)
		if err != nil {
			return err
		}
		totalOwed := domainpurchasing.OrderTotalOwed(order)
		balance := domainpurchasing.Balance(totalOwed, payments)
		if err := domainpurchasing.ValidatePayment(in.Amount, balance); err != nil {
			return err
		}

		payment := &entity.Payment{
			ID:        uuid.New().String(),
			OrderID:   orderID,
			Amount:    in.Amount.Round(2),
			Method:    in.Method,
			Reference: in.Reference,
			CreatedBy: userID,
			CreatedAt: nowFunc(),
		}
		if err := paymentRepo.Create(payment); err != nil {
			return err
		}
		payments = append(payments, payment)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.order.toResponse(order, payments), nil
}
