package repository

import (
	"context"

	"github.com/jhoicas/portal-imagenes/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) (*entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (*entity.User, error)
	// Upsert inserta o actualiza nombre y rol por EmployeeID; created indica si fue inserción.
	// Los campos vacíos no sobrescriben los de una cuenta existente.
	Upsert(ctx context.Context, u *entity.User) (created bool, err error)
	List(ctx context.Context) ([]*entity.User, error)
	DeleteAll(ctx context.Context) error
}
