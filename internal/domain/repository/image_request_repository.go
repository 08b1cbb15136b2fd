package repository

import (
	"context"

	"github.com/jhoicas/portal-imagenes/internal/domain/entity"
)

// ImageRequestRepository define el puerto de persistencia para ImageRequest (DIP).
//
// Contrato común a todas las implementaciones:
//   - Los "no encontrado" se devuelven como (nil, nil); un ID con formato inválido cuenta como no encontrado.
//   - Los fallos de conectividad se envuelven con domain.ErrStorageUnavailable.
//   - Los listados se ordenan por UploadedAt descendente (desempate por ID descendente).
type ImageRequestRepository interface {
	// Create persiste la solicitud y devuelve la entidad con el ID asignado.
	Create(ctx context.Context, req *entity.ImageRequest) (*entity.ImageRequest, error)
	GetByID(ctx context.Context, id string) (*entity.ImageRequest, error)
	// ListByUser devuelve las solicitudes de un usuario sin bytes embebidos.
	ListByUser(ctx context.Context, userID string) ([]*entity.ImageRequest, error)
	List(ctx context.Context, opts entity.ListOptions) (*entity.ImageRequestPage, error)
	// UpdateByID aplica el patch de forma atómica y devuelve la entidad resultante.
	// Devuelve domain.ErrConflict si patch.ExpectStatus no coincide con el estado actual.
	UpdateByID(ctx context.Context, id string, patch entity.ImageRequestPatch) (*entity.ImageRequest, error)
	DeleteAll(ctx context.Context) error
}
