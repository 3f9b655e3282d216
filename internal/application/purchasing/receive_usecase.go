package purchasing

import (
	"context"
	"time"

	"github.com/tallerpro/compras-api/internal/application/dto"
	"github.com/tallerpro/compras-api/internal/domain"
	"github.com/tallerpro/compras-api/internal/domain/entity"
	domainpurchasing "github.com/tallerpro/compras-api/internal/domain/purchasing"
	"github.com/tallerpro/compras-api/internal/domain/repository"
)

// nowFunc se reemplaza en tests para fechas deterministas.
var nowFunc = time.Now

// ReceiveUseCase registra recepciones parciales o totales de mercancía contra
// una orden. El lote corre en una transacción con la fila de la orden bloqueada
// (SELECT FOR UPDATE); la notificación de stock al inventario va después del
// commit, una sola vez por recepción exitosa.
type ReceiveUseCase struct {
	txRunner      TxRunner
	paymentRepo   repository.PaymentRepository
	stockNotifier StockNotifier
	order         *OrderUseCase
}

// NewReceiveUseCase construye el caso de uso.
func NewReceiveUseCase(txRunner TxRunner, paymentRepo repository.PaymentRepository, stockNotifier StockNotifier, order *OrderUseCase) *ReceiveUseCase {
	return &ReceiveUseCase{txRunner: txRunner, paymentRepo: paymentRepo, stockNotifier: stockNotifier, order: order}
}

// Receive aplica el lote de recepción (todo o nada) y deriva el estado de la
// orden. Si el lote trae supplier_reference se guarda como referencia del
// proveedor (remisión/factura).
func (uc *ReceiveUseCase) Receive(ctx context.Context, orderID string, in dto.ReceivePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	entries := make([]domainpurchasing.ReceiptEntry, 0, len(in.Items))
	for _, item := range in.Items {
		entries = append(entries, domainpurchasing.ReceiptEntry{
			LineID:          item.LineID,
			Qty:             item.ReceivedQty,
			ActualUnitPrice: item.ActualUnitPrice,
		})
	}

	var order *entity.PurchaseOrder
	var deltas []domainpurchasing.StockDelta
	err := uc.txRunner.Run(ctx, func(orderRepo repository.PurchaseOrderRepository, _ repository.PaymentRepository) error {
		var err error
		order, err = orderRepo.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		deltas, err = domainpurchasing.ApplyReceipt(order, entries, nowFunc())
		if err != nil {
			return err
		}
		if in.SupplierReference != "" {
			order.SupplierReference = in.SupplierReference
		}
		for _, l := range order.Lines {
			if err := orderRepo.UpdateLine(l); err != nil {
				return err
			}
		}
		return orderRepo.Update(order)
	})
	if err != nil {
		return nil, err
	}

	payments, err := uc.paymentRepo.ListByOrder(orderID)
	if err != nil {
		return nil, err
	}
	resp := uc.order.toResponse(order, payments)

	// Exactamente una notificación de stock por recepción exitosa; su falla no
	// revierte la recepción ya confirmada.
	if err := uc.stockNotifier.NotifyReceipt(ctx, orderID, deltas); err != nil {
		resp.Warning = "la recepción quedó registrada pero la entrada de stock no se pudo notificar: " + err.Error()
	}
	return resp, nil
}
