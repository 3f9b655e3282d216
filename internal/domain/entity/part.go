package entity

import "time"

// Part representa un repuesto del catálogo del taller (solo lectura aquí; el
// alta y el stock los maneja el módulo de inventario).
type Part struct {
	ID        string
	Code      string // código interno único
	Name      string
	Brand     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
