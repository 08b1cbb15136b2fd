package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/jhoicas/portal-imagenes/internal/domain/entity"
	"github.com/jhoicas/portal-imagenes/internal/domain/repository"
)

var _ repository.EmployeeRepository = (*EmployeeRepo)(nil)

// EmployeeRepo padrón de empleados indexado por EmployeeID.
type EmployeeRepo struct {
	mu    sync.RWMutex
	byKey map[string]*entity.Employee
}

// NewEmployeeRepository construye el almacén vacío.
func NewEmployeeRepository() *EmployeeRepo {
	return &EmployeeRepo{byKey: make(map[string]*entity.Employee)}
}

func (r *EmployeeRepo) Create(_ context.Context, e *entity.Employee) (*entity.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *e
	cp.ID = uuid.New().String()
	r.byKey[cp.EmployeeID] = &cp
	out := cp
	return &out, nil
}

func (r *EmployeeRepo) GetByEmployeeID(_ context.Context, employeeID string) (*entity.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byKey[employeeID]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

// Upsert conserva el ID, CreatedAt y los campos que llegan vacíos.
func (r *EmployeeRepo) Upsert(_ context.Context, e *entity.Employee) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *e
	if existing, ok := r.byKey[e.EmployeeID]; ok {
		cp.ID = existing.ID
		cp.CreatedAt = existing.CreatedAt
		cp.DisplayName = keep(e.DisplayName, existing.DisplayName)
		cp.MiniRegionName = keep(e.MiniRegionName, existing.MiniRegionName)
		cp.RegionName = keep(e.RegionName, existing.RegionName)
		cp.SubZoneName = keep(e.SubZoneName, existing.SubZoneName)
		cp.ZoneName = keep(e.ZoneName, existing.ZoneName)
		r.byKey[e.EmployeeID] = &cp
		return false, nil
	}
	cp.ID = uuid.New().String()
	r.byKey[e.EmployeeID] = &cp
	return true, nil
}

func (r *EmployeeRepo) List(_ context.Context) ([]*entity.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*entity.Employee, 0, len(r.byKey))
	for _, e := range r.byKey {
		cp := *e
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].EmployeeID < list[j].EmployeeID })
	return list, nil
}

func (r *EmployeeRepo) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byKey = make(map[string]*entity.Employee)
	return nil
}
