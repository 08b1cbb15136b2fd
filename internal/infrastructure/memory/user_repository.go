package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/jhoicas/portal-imagenes/internal/domain/entity"
	"github.com/jhoicas/portal-imagenes/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo cuentas de la aplicación indexadas por ID.
type UserRepo struct {
	mu   sync.RWMutex
	byID map[string]*entity.User
}

// NewUserRepository construye el almacén vacío.
func NewUserRepository() *UserRepo {
	return &UserRepo{byID: make(map[string]*entity.User)}
}

func (r *UserRepo) Create(_ context.Context, u *entity.User) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	cp.ID = uuid.New().String()
	r.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) GetByEmployeeID(_ context.Context, employeeID string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u := r.findByEmployeeID(employeeID); u != nil {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

// Upsert actualiza nombre y rol no vacíos si ya existe una cuenta para el EmployeeID.
func (r *UserRepo) Upsert(_ context.Context, u *entity.User) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing := r.findByEmployeeID(u.EmployeeID); existing != nil {
		existing.DisplayName = keep(u.DisplayName, existing.DisplayName)
		existing.Role = keep(u.Role, existing.Role)
		return false, nil
	}
	cp := *u
	cp.ID = uuid.New().String()
	cp.Role = entity.NormalizeRole(cp.Role)
	r.byID[cp.ID] = &cp
	return true, nil
}

func (r *UserRepo) List(_ context.Context) ([]*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*entity.User, 0, len(r.byID))
	for _, u := range r.byID {
		cp := *u
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].EmployeeID < list[j].EmployeeID })
	return list, nil
}

func (r *UserRepo) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID = make(map[string]*entity.User)
	return nil
}

func (r *UserRepo) findByEmployeeID(employeeID string) *entity.User {
	for _, u := range r.byID {
		if u.EmployeeID == employeeID {
			return u
		}
	}
	return nil
}

// keep devuelve v salvo que esté vacío.
func keep(v, current string) string {
	if v == "" {
		return current
	}
	return v
}
