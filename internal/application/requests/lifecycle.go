// Package requests implementa el ciclo de vida de las solicitudes de imagen
// (pending → completed), las consultas del panel y la descarga de archivos.
package requests

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/portal-imagenes/internal/domain"
	"github.com/jhoicas/portal-imagenes/internal/domain/content"
	"github.com/jhoicas/portal-imagenes/internal/domain/entity"
	"github.com/jhoicas/portal-imagenes/internal/domain/repository"
)

// Submitter identidad de quien carga el original.
type Submitter struct {
	UserID      string
	EmployeeID  string
	DisplayName string
}

// LifecycleUseCase es el único escritor de Status y CompletedAt.
type LifecycleUseCase struct {
	repo     repository.ImageRequestRepository
	policy   content.Policy
	blobs    BlobUploader
	notifier Notifier
	log      zerolog.Logger
	now      func() time.Time
}

// NewLifecycleUseCase construye el motor. blobs es opcional (nil = solo contenido embebido);
// notifier nil equivale a NopNotifier.
func NewLifecycleUseCase(
	repo repository.ImageRequestRepository,
	policy content.Policy,
	blobs BlobUploader,
	notifier Notifier,
	log zerolog.Logger,
) *LifecycleUseCase {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &LifecycleUseCase{
		repo:     repo,
		policy:   policy,
		blobs:    blobs,
		notifier: notifier,
		log:      log.With().Str("component", "lifecycle").Logger(),
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *LifecycleUseCase) WithClock(now func() time.Time) *LifecycleUseCase {
	uc.now = now
	return uc
}

// Create valida el archivo y el solicitante y persiste una solicitud en estado pending.
// Emite new_image_upload a los administradores después de la escritura.
func (uc *LifecycleUseCase) Create(ctx context.Context, in content.Upload, sub Submitter) (*entity.ImageRequest, error) {
	if strings.TrimSpace(sub.UserID) == "" || strings.TrimSpace(sub.EmployeeID) == "" || strings.TrimSpace(sub.DisplayName) == "" {
		return nil, fmt.Errorf("%w: userId, employeeId y displayName son requeridos", domain.ErrInvalidInput)
	}
	if err := uc.policy.Validate(in); err != nil {
		return nil, err
	}

	req := &entity.ImageRequest{
		UserID:      sub.UserID,
		EmployeeID:  sub.EmployeeID,
		DisplayName: sub.DisplayName,
		Original:    uc.storeAsset(ctx, entity.SideOriginal, in),
		Status:      entity.StatusPending,
		UploadedAt:  uc.now().UTC().Truncate(time.Millisecond),
	}
	created, err := uc.repo.Create(ctx, req)
	if err != nil {
		uc.log.Error().Err(err).
			Str("user_id", sub.UserID).Str("employee_id", sub.EmployeeID).
			Msg("crear solicitud de imagen")
		return nil, err
	}

	uc.checkConsistent(created)
	uc.log.Info().Str("request_id", created.ID).Str("employee_id", created.EmployeeID).Msg("solicitud creada")
	uc.notifier.Publish(ctx, Event{
		Type:     EventNewImageUpload,
		Audience: Audience{Role: entity.RoleAdmin},
		Data:     toImageRequestResponse(created),
	})
	return created, nil
}

// AttachEdited adjunta el archivo editado y completa la solicitud.
// Una solicitud completada no se vuelve a completar (ErrAlreadyCompleted): la
// escritura está condicionada a status = pending, por lo que entre llamadas
// concurrentes sobre el mismo ID solo una gana.
func (uc *LifecycleUseCase) AttachEdited(ctx context.Context, requestID string, in content.Upload) (*entity.ImageRequest, error) {
	if strings.TrimSpace(requestID) == "" {
		return nil, fmt.Errorf("%w: requestId es requerido", domain.ErrInvalidInput)
	}
	if err := uc.policy.Validate(in); err != nil {
		return nil, err
	}

	current, err := uc.repo.GetByID(ctx, requestID)
	if err != nil {
		uc.log.Error().Err(err).Str("request_id", requestID).Msg("leer solicitud")
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}
	if current.Status == entity.StatusCompleted {
		return nil, domain.ErrAlreadyCompleted
	}

	edited := uc.storeAsset(ctx, entity.SideEdited, in)
	status := entity.StatusCompleted
	completedAt := uc.now().UTC().Truncate(time.Millisecond)
	updated, err := uc.repo.UpdateByID(ctx, requestID, entity.ImageRequestPatch{
		Edited:       &edited,
		Status:       &status,
		CompletedAt:  &completedAt,
		ExpectStatus: entity.StatusPending,
	})
	if errors.Is(err, domain.ErrConflict) {
		uc.log.Warn().Str("request_id", requestID).Msg("solicitud completada por otra escritura concurrente")
		return nil, domain.ErrAlreadyCompleted
	}
	if err != nil {
		uc.log.Error().Err(err).Str("request_id", requestID).Msg("completar solicitud")
		return nil, err
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}

	uc.checkConsistent(updated)
	uc.log.Info().Str("request_id", updated.ID).Msg("solicitud completada")
	uc.notifier.Publish(ctx, Event{
		Type:     EventImageEdited,
		Audience: Audience{Role: entity.RoleAdmin, UserID: updated.UserID},
		Data:     toImageRequestResponse(updated),
	})
	return updated, nil
}

// checkConsistent registra las escrituras que el almacén devolvió con un
// estado que no corresponde al archivo editado.
func (uc *LifecycleUseCase) checkConsistent(r *entity.ImageRequest) {
	if r.IsConsistent() {
		return
	}
	uc.log.Error().
		Str("request_id", r.ID).
		Str("status", r.Status).
		Bool("edited_present", r.Edited.IsPresent()).
		Bool("completed_at_set", r.CompletedAt != nil).
		Msg("solicitud inconsistente tras la escritura")
}

// storeAsset arma el archivo a persistir. El contenido embebido siempre se guarda;
// si hay host externo también se sube y se guarda la URL. Un fallo del host no
// impide la operación.
func (uc *LifecycleUseCase) storeAsset(ctx context.Context, side entity.AssetSide, in content.Upload) entity.Asset {
	asset := entity.Asset{
		FileName:    in.FileName,
		ContentType: strings.ToLower(strings.TrimSpace(in.ContentType)),
		Content:     in.Data,
	}
	if uc.blobs == nil {
		return asset
	}
	url, err := uc.blobs.Upload(ctx, string(side), in.FileName, asset.ContentType, in.Data)
	if err != nil {
		uc.log.Warn().Err(err).Str("side", string(side)).Str("file", in.FileName).
			Msg("host externo no disponible, se guarda solo contenido embebido")
		return asset
	}
	asset.URL = url
	return asset
}
