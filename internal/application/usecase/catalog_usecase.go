package usecase

import (
	"github.com/tallerpro/compras-api/internal/application/dto"
	"github.com/tallerpro/compras-api/internal/domain/entity"
	"github.com/tallerpro/compras-api/internal/domain/repository"
)

// CatalogUseCase lecturas del catálogo de proveedores y repuestos. El alta y
// edición viven en otros módulos del sistema; compras solo consulta.
type CatalogUseCase struct {
	supplierRepo repository.SupplierRepository
	partRepo     repository.PartRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(supplierRepo repository.SupplierRepository, partRepo repository.PartRepository) *CatalogUseCase {
	return &CatalogUseCase{supplierRepo: supplierRepo, partRepo: partRepo}
}

// ListSuppliers lista proveedores paginados.
func (uc *CatalogUseCase) ListSuppliers(limit, offset int) ([]dto.SupplierResponse, error) {
	suppliers, err := uc.supplierRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(suppliers))
	for _, s := range suppliers {
		out = append(out, toSupplierResponse(s))
	}
	return out, nil
}

// GetSupplier obtiene un proveedor por ID; nil si no existe.
func (uc *CatalogUseCase) GetSupplier(id string) (*dto.SupplierResponse, error) {
	s, err := uc.supplierRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, nil
	}
	resp := toSupplierResponse(s)
	return &resp, nil
}

// ListParts lista repuestos paginados.
func (uc *CatalogUseCase) ListParts(limit, offset int) ([]dto.PartResponse, error) {
	parts, err := uc.partRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PartResponse, 0, len(parts))
	for _, p := range parts {
		out = append(out, dto.PartResponse{ID: p.ID, Code: p.Code, Name: p.Name, Brand: p.Brand})
	}
	return out, nil
}

func toSupplierResponse(s *entity.Supplier) dto.SupplierResponse {
	return dto.SupplierResponse{
		ID:        s.ID,
		Name:      s.Name,
		TaxID:     s.TaxID,
		Email:     s.Email,
		Phone:     s.Phone,
		Address:   s.Address,
		Status:    s.Status,
		CreatedAt: s.CreatedAt,
	}
}
