package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tallerpro/compras-api/internal/domain/entity"
	"github.com/tallerpro/compras-api/internal/domain/repository"
)

var (
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
	_ repository.PartRepository     = (*PartRepo)(nil)
)

// SupplierRepo lectura del catálogo de proveedores.
type SupplierRepo struct {
	q Querier
}

func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

func (r *SupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	query := `
		SELECT id, name, tax_id, email, phone, address, status, created_at, updated_at
		FROM suppliers WHERE id = $1`
	s, err := scanSupplier(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return s, nil
}

func (r *SupplierRepo) List(limit, offset int) ([]*entity.Supplier, error) {
	query := `
		SELECT id, name, tax_id, email, phone, address, status, created_at, updated_at
		FROM suppliers ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []*entity.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, rows.Err()
}

func scanSupplier(row pgx.Row) (*entity.Supplier, error) {
	var s entity.Supplier
	var taxID, email, phone, address *string
	err := row.Scan(&s.ID, &s.Name, &taxID, &email, &phone, &address, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("scan supplier: %w", err)
	}
	s.TaxID = derefStr(taxID)
	s.Email = derefStr(email)
	s.Phone = derefStr(phone)
	s.Address = derefStr(address)
	return &s, nil
}

// PartRepo lectura del catálogo de repuestos.
type PartRepo struct {
	q Querier
}

func NewPartRepository(q Querier) *PartRepo {
	return &PartRepo{q: q}
}

func (r *PartRepo) GetByID(id string) (*entity.Part, error) {
	query := `SELECT id, code, name, brand, created_at, updated_at FROM parts WHERE id = $1`
	p, err := scanPart(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get part: %w", err)
	}
	return p, nil
}

func (r *PartRepo) List(limit, offset int) ([]*entity.Part, error) {
	query := `SELECT id, code, name, brand, created_at, updated_at FROM parts ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list parts: %w", err)
	}
	defer rows.Close()

	var parts []*entity.Part
	for rows.Next() {
		p, err := scanPart(rows)
		if err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	return parts, rows.Err()
}

func scanPart(row pgx.Row) (*entity.Part, error) {
	var p entity.Part
	var brand *string
	err := row.Scan(&p.ID, &p.Code, &p.Name, &brand, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("scan part: %w", err)
	}
	p.Brand = derefStr(brand)
	return &p, nil
}
