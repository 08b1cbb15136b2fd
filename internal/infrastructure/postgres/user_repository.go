package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/portal-imagenes/internal/domain/entity"
	"github.com/jhoicas/portal-imagenes/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, employee_id, display_name, role, created_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	db DBTX
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(db DBTX) *UserRepo {
	return &UserRepo{db: db}
}

// Create persiste un usuario. Si otro login creó la cuenta en paralelo, devuelve la existente.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) (*entity.User, error) {
	query := `
		INSERT INTO users (id, employee_id, display_name, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (employee_id) DO UPDATE SET employee_id = EXCLUDED.employee_id
		RETURNING ` + userColumns
	row := r.db.QueryRow(ctx, query, uuid.New().String(), u.EmployeeID, u.DisplayName, entity.NormalizeRole(u.Role), orNow(u.CreatedAt))
	out, err := scanUser(row)
	if err != nil {
		return nil, storageErr("insert user", err)
	}
	return out, nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.findOne(ctx, "get user by id", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmployeeID obtiene un usuario por su clave de negocio.
func (r *UserRepo) GetByEmployeeID(ctx context.Context, employeeID string) (*entity.User, error) {
	return r.findOne(ctx, "get user by employee id", `SELECT `+userColumns+` FROM users WHERE employee_id = $1`, employeeID)
}

// Upsert inserta o actualiza nombre y rol; xmax = 0 identifica la inserción.
// $6 lleva el rol sin valor por defecto para no degradar cuentas existentes.
func (r *UserRepo) Upsert(ctx context.Context, u *entity.User) (bool, error) {
	query := `
		INSERT INTO users (id, employee_id, display_name, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (employee_id) DO UPDATE SET
			display_name = COALESCE(NULLIF(EXCLUDED.display_name, ''), users.display_name),
			role = COALESCE(NULLIF($6::text, ''), users.role)
		RETURNING (xmax = 0)`
	var inserted bool
	err := r.db.QueryRow(ctx, query, uuid.New().String(), u.EmployeeID, u.DisplayName, entity.NormalizeRole(u.Role), orNow(u.CreatedAt), u.Role).
		Scan(&inserted)
	if err != nil {
		return false, storageErr("upsert user", err)
	}
	return inserted, nil
}

// List devuelve todas las cuentas ordenadas por EmployeeID.
func (r *UserRepo) List(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY employee_id`)
	if err != nil {
		return nil, storageErr("list users", err)
	}
	defer rows.Close()
	list := make([]*entity.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, storageErr("scan user", err)
		}
		list = append(list, u)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list users", err)
	}
	return list, nil
}

// DeleteAll elimina todas las cuentas.
func (r *UserRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM users`); err != nil {
		return storageErr("delete users", err)
	}
	return nil
}

func (r *UserRepo) findOne(ctx context.Context, op, query string, arg any) (*entity.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr(op, err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	if err := row.Scan(&u.ID, &u.EmployeeID, &u.DisplayName, &u.Role, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
