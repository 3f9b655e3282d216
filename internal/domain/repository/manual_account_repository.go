package repository

import "github.com/tallerpro/compras-api/internal/domain/entity"

// ManualAccountRepository define el puerto de persistencia para ManualAccount.
type ManualAccountRepository interface {
	Create(account *entity.ManualAccount) error
	// GetByID obtiene la cuenta; nil si no existe.
	GetByID(id string) (*entity.ManualAccount, error)
	// GetForUpdate obtiene la cuenta bloqueando su fila (SELECT FOR UPDATE).
	// Usar solo dentro de una transacción.
	GetForUpdate(id string) (*entity.ManualAccount, error)
	Update(account *entity.ManualAccount) error
	List(limit, offset int) ([]*entity.ManualAccount, int, error)
}
