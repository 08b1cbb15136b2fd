package repository

import (
	"context"

	"github.com/jhoicas/portal-imagenes/internal/domain/entity"
)

// EmployeeRepository define el puerto de persistencia para Employee (DIP).
type EmployeeRepository interface {
	Create(ctx context.Context, e *entity.Employee) (*entity.Employee, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (*entity.Employee, error)
	// Upsert inserta o reemplaza por EmployeeID; created indica si fue inserción.
	Upsert(ctx context.Context, e *entity.Employee) (created bool, err error)
	List(ctx context.Context) ([]*entity.Employee, error)
	DeleteAll(ctx context.Context) error
}
