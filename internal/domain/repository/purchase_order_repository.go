package repository

import "github.com/tallerpro/compras-api/internal/domain/entity"

// PurchaseOrderFilter filtros del listado de órdenes.
type PurchaseOrderFilter struct {
	Status         string // vacío = todos
	SupplierID     string
	PendingReceipt bool // solo SENT o RECEIVED_PARTIAL
	Skip           int
	Limit          int
}

// PurchaseOrderRepository define el puerto de persistencia para PurchaseOrder (DIP).
// Las órdenes nunca se borran; la anulación es un cambio de estado.
type PurchaseOrderRepository interface {
	// Create persiste la cabecera y sus líneas.
	Create(order *entity.PurchaseOrder) error
	// GetByID obtiene la orden con sus líneas; nil si no existe.
	GetByID(id string) (*entity.PurchaseOrder, error)
	// GetForUpdate obtiene la orden con sus líneas bloqueando la fila de la
	// cabecera (SELECT FOR UPDATE). Usar solo dentro de una transacción.
	GetForUpdate(id string) (*entity.PurchaseOrder, error)
	// Update persiste los campos mutables de la cabecera (estado, metadatos, flags).
	Update(order *entity.PurchaseOrder) error
	// UpdateLine persiste cantidad recibida y precio real de una línea.
	UpdateLine(line *entity.PurchaseOrderLine) error
	// List devuelve la página filtrada y el total de órdenes que cumplen el filtro.
	List(filter PurchaseOrderFilter) ([]*entity.PurchaseOrder, int, error)
	// NextNumber devuelve el siguiente consecutivo legible (ej: OC-000042).
	NextNumber() (string, error)
}
