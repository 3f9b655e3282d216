package entity

import "time"

// Supplier representa un proveedor del taller (catálogo externo, solo lectura aquí).
type Supplier struct {
	ID        string
	Name      string
	TaxID     string // NIT o cédula
	Email     string // destino de la orden de compra enviada
	Phone     string
	Address   string
	Status    string // active, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
