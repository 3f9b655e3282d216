package repository

import "github.com/tallerpro/compras-api/internal/domain/entity"

// SupplierRepository define el puerto de lectura del catálogo de proveedores.
// El alta y edición de proveedores vive en otro módulo del sistema.
type SupplierRepository interface {
	GetByID(id string) (*entity.Supplier, error)
	List(limit, offset int) ([]*entity.Supplier, error)
}

// PartRepository define el puerto de lectura del catálogo de repuestos.
type PartRepository interface {
	GetByID(id string) (*entity.Part, error)
	List(limit, offset int) ([]*entity.Part, error)
}
