package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin   = "admin"
	RoleCompras = "compras"
)

// User representa un usuario del sistema (personal del taller con acceso a compras).
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, compras
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
