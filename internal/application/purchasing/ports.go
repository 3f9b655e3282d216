package purchasing

import (
	"context"

	"github.com/tallerpro/compras-api/internal/domain/entity"
	domainpurchasing "github.com/tallerpro/compras-api/internal/domain/purchasing"
	"github.com/tallerpro/compras-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad por orden: el repositorio
// de órdenes expone GetForUpdate para serializar operaciones sobre la misma fila.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		orderRepo repository.PurchaseOrderRepository,
		paymentRepo repository.PaymentRepository,
	) error) error
}

// SupplierNotifier define el puerto de salida para enviar la orden al proveedor.
// El envío es best-effort: su falla nunca revierte la transición ya confirmada.
type SupplierNotifier interface {
	SendOrder(ctx context.Context, order *entity.PurchaseOrder, supplier *entity.Supplier, pdf []byte) error
}

// OrderPDFGenerator define el puerto para la representación gráfica de la orden.
type OrderPDFGenerator interface {
	GenerateOrderPDF(ctx context.Context, order *entity.PurchaseOrder, supplier *entity.Supplier, parts map[string]*entity.Part) ([]byte, error)
}

// StockNotifier define el puerto de salida hacia el módulo de inventario.
// El contrato es exactamente una notificación por recepción exitosa, con el
// delta de cada línea; la falla se reporta como advertencia, nunca revierte.
type StockNotifier interface {
	NotifyReceipt(ctx context.Context, orderID string, deltas []domainpurchasing.StockDelta) error
}
