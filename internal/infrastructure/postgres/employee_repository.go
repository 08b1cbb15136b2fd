package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/portal-imagenes/internal/domain/entity"
	"github.com/jhoicas/portal-imagenes/internal/domain/repository"
)

var _ repository.EmployeeRepository = (*EmployeeRepo)(nil)

const employeeColumns = `id, employee_id, display_name, mini_region_name, region_name, sub_zone_name, zone_name, created_at`

// EmployeeRepo padrón de empleados sobre PostgreSQL.
type EmployeeRepo struct {
	db DBTX
}

// NewEmployeeRepository construye el adaptador.
func NewEmployeeRepository(db DBTX) *EmployeeRepo {
	return &EmployeeRepo{db: db}
}

// Create persiste un empleado nuevo.
func (r *EmployeeRepo) Create(ctx context.Context, e *entity.Employee) (*entity.Employee, error) {
	query := `
		INSERT INTO employees (` + employeeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + employeeColumns
	out, err := scanEmployee(r.db.QueryRow(ctx, query, employeeArgs(uuid.New().String(), e)...))
	if err != nil {
		return nil, storageErr("insert employee", err)
	}
	return out, nil
}

// GetByEmployeeID busca por clave de negocio; (nil, nil) si no existe.
func (r *EmployeeRepo) GetByEmployeeID(ctx context.Context, employeeID string) (*entity.Employee, error) {
	e, err := scanEmployee(r.db.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE employee_id = $1`, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr("get employee", err)
	}
	return e, nil
}

// Upsert actualiza los datos no vacíos del empleado conservando id y created_at.
func (r *EmployeeRepo) Upsert(ctx context.Context, e *entity.Employee) (bool, error) {
	query := `
		INSERT INTO employees (` + employeeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (employee_id) DO UPDATE SET
			display_name = COALESCE(NULLIF(EXCLUDED.display_name, ''), employees.display_name),
			mini_region_name = COALESCE(NULLIF(EXCLUDED.mini_region_name, ''), employees.mini_region_name),
			region_name = COALESCE(NULLIF(EXCLUDED.region_name, ''), employees.region_name),
			sub_zone_name = COALESCE(NULLIF(EXCLUDED.sub_zone_name, ''), employees.sub_zone_name),
			zone_name = COALESCE(NULLIF(EXCLUDED.zone_name, ''), employees.zone_name)
		RETURNING (xmax = 0)`
	var inserted bool
	if err := r.db.QueryRow(ctx, query, employeeArgs(uuid.New().String(), e)...).Scan(&inserted); err != nil {
		return false, storageErr("upsert employee", err)
	}
	return inserted, nil
}

// List devuelve el padrón ordenado por EmployeeID.
func (r *EmployeeRepo) List(ctx context.Context) ([]*entity.Employee, error) {
	rows, err := r.db.Query(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY employee_id`)
	if err != nil {
		return nil, storageErr("list employees", err)
	}
	defer rows.Close()
	list := make([]*entity.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, storageErr("scan employee", err)
		}
		list = append(list, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list employees", err)
	}
	return list, nil
}

// DeleteAll vacía el padrón.
func (r *EmployeeRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM employees`); err != nil {
		return storageErr("delete employees", err)
	}
	return nil
}

func employeeArgs(id string, e *entity.Employee) []any {
	return []any{id, e.EmployeeID, e.DisplayName, e.MiniRegionName, e.RegionName, e.SubZoneName, e.ZoneName, orNow(e.CreatedAt)}
}

func scanEmployee(row pgx.Row) (*entity.Employee, error) {
	var e entity.Employee
	err := row.Scan(&e.ID, &e.EmployeeID, &e.DisplayName, &e.MiniRegionName, &e.RegionName, &e.SubZoneName, &e.ZoneName, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
