// Package memory implementa los puertos de persistencia en memoria de proceso.
// Se usa en desarrollo (STORE_DRIVER=memory) y como doble de pruebas.
package memory

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/jhoicas/portal-imagenes/internal/domain"
	"github.com/jhoicas/portal-imagenes/internal/domain/entity"
	"github.com/jhoicas/portal-imagenes/internal/domain/repository"
)

var _ repository.ImageRequestRepository = (*ImageRequestRepo)(nil)

// ImageRequestRepo almacén en memoria; cada operación es atómica bajo mu.
type ImageRequestRepo struct {
	mu   sync.RWMutex
	byID map[string]*entity.ImageRequest
}

// NewImageRequestRepository construye el almacén vacío.
func NewImageRequestRepository() *ImageRequestRepo {
	return &ImageRequestRepo{byID: make(map[string]*entity.ImageRequest)}
}

// Create asigna un ID y guarda una copia.
func (r *ImageRequestRepo) Create(_ context.Context, req *entity.ImageRequest) (*entity.ImageRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := cloneRequest(req)
	cp.ID = uuid.New().String()
	r.byID[cp.ID] = cp
	return cloneRequest(cp), nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *ImageRequestRepo) GetByID(_ context.Context, id string) (*entity.ImageRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	req, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return cloneRequest(req), nil
}

// ListByUser solicitudes del usuario sin contenido embebido.
func (r *ImageRequestRepo) ListByUser(_ context.Context, userID string) ([]*entity.ImageRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*entity.ImageRequest, 0)
	for _, req := range r.byID {
		if req.UserID == userID {
			list = append(list, req.WithoutContent())
		}
	}
	sortNewestFirst(list)
	return list, nil
}

// List página ordenada por UploadedAt descendente.
func (r *ImageRequestRepo) List(_ context.Context, opts entity.ListOptions) (*entity.ImageRequestPage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]*entity.ImageRequest, 0, len(r.byID))
	for _, req := range r.byID {
		if opts.IncludeContent {
			all = append(all, cloneRequest(req))
		} else {
			all = append(all, req.WithoutContent())
		}
	}
	sortNewestFirst(all)

	total := len(all)
	start := min(max(opts.Offset, 0), total)
	end := total
	if opts.Limit > 0 {
		end = min(start+opts.Limit, total)
	}
	return &entity.ImageRequestPage{Items: all[start:end], Total: total}, nil
}

// UpdateByID aplica el patch bajo el lock de escritura.
func (r *ImageRequestRepo) UpdateByID(_ context.Context, id string, patch entity.ImageRequestPatch) (*entity.ImageRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	if patch.ExpectStatus != "" && req.Status != patch.ExpectStatus {
		return nil, domain.ErrConflict
	}
	if patch.Edited != nil {
		req.Edited = cloneAsset(*patch.Edited)
	}
	if patch.Status != nil {
		req.Status = *patch.Status
	}
	if patch.CompletedAt != nil {
		t := *patch.CompletedAt
		req.CompletedAt = &t
	}
	return cloneRequest(req), nil
}

// DeleteAll vacía el almacén.
func (r *ImageRequestRepo) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID = make(map[string]*entity.ImageRequest)
	return nil
}

func sortNewestFirst(list []*entity.ImageRequest) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].UploadedAt.Equal(list[j].UploadedAt) {
			return list[i].UploadedAt.After(list[j].UploadedAt)
		}
		return list[i].ID > list[j].ID
	})
}

func cloneRequest(req *entity.ImageRequest) *entity.ImageRequest {
	cp := *req
	cp.Original = cloneAsset(req.Original)
	cp.Edited = cloneAsset(req.Edited)
	if req.CompletedAt != nil {
		t := *req.CompletedAt
		cp.CompletedAt = &t
	}
	return &cp
}

func cloneAsset(a entity.Asset) entity.Asset {
	if a.Content != nil {
		a.Content = bytes.Clone(a.Content)
	}
	return a
}
