package requests

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/portal-imagenes/internal/application/dto"
	"github.com/jhoicas/portal-imagenes/internal/domain"
	"github.com/jhoicas/portal-imagenes/internal/domain/content"
	"github.com/jhoicas/portal-imagenes/internal/domain/entity"
	"github.com/jhoicas/portal-imagenes/internal/domain/repository"
)

// QueryUseCase lecturas: listados por usuario, listado paginado y descarga.
// El listado completo es también el mecanismo de polling cuando no hay push.
type QueryUseCase struct {
	repo     repository.ImageRequestRepository
	resolver *content.Resolver
	log      zerolog.Logger
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(repo repository.ImageRequestRepository, resolver *content.Resolver, log zerolog.Logger) *QueryUseCase {
	return &QueryUseCase{
		repo:     repo,
		resolver: resolver,
		log:      log.With().Str("component", "requests-query").Logger(),
	}
}

// ListMine devuelve las solicitudes del usuario, más recientes primero.
func (uc *QueryUseCase) ListMine(ctx context.Context, userID string) (*dto.UserRequestListResponse, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: userId es requerido", domain.ErrInvalidInput)
	}
	list, err := uc.repo.ListByUser(ctx, userID)
	if err != nil {
		uc.log.Error().Err(err).Str("user_id", userID).Msg("listar solicitudes del usuario")
		return nil, err
	}
	items := make([]dto.ImageRequestResponse, 0, len(list))
	for _, r := range list {
		items = append(items, toImageRequestResponse(r))
	}
	return &dto.UserRequestListResponse{Requests: items}, nil
}

// ListAll devuelve una página del listado completo sin bytes embebidos.
func (uc *QueryUseCase) ListAll(ctx context.Context, page dto.PageRequest) (*dto.AdminRequestListResponse, error) {
	page.DefaultPage()
	res, err := uc.repo.List(ctx, entity.ListOptions{Offset: page.Offset(), Limit: page.Limit})
	if err != nil {
		uc.log.Error().Err(err).Int("page", page.Page).Int("limit", page.Limit).Msg("listar solicitudes")
		return nil, err
	}
	items := make([]dto.ImageRequestResponse, 0, len(res.Items))
	for _, r := range res.Items {
		items = append(items, toImageRequestResponse(r))
	}
	uc.log.Debug().Int("page", page.Page).Int("count", len(items)).Int("total", res.Total).Msg("listado de administración")
	return &dto.AdminRequestListResponse{
		Requests:   items,
		Pagination: dto.NewPagination(res.Total, page),
	}, nil
}

// Download resuelve los bytes (o la URL externa) de un lado de la solicitud.
func (uc *QueryUseCase) Download(ctx context.Context, requestID, side string) (*content.Resolved, error) {
	return uc.DownloadFor(ctx, "", requestID, side)
}

// DownloadFor es Download restringido a las solicitudes de ownerID; vacío
// permite cualquier solicitud.
func (uc *QueryUseCase) DownloadFor(ctx context.Context, ownerID, requestID, side string) (*content.Resolved, error) {
	s, ok := entity.ParseAssetSide(side)
	if !ok {
		return nil, fmt.Errorf("%w: tipo de imagen inválido", domain.ErrInvalidInput)
	}
	req, err := uc.repo.GetByID(ctx, requestID)
	if err != nil {
		uc.log.Error().Err(err).Str("request_id", requestID).Msg("leer solicitud para descarga")
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	if ownerID != "" && req.UserID != ownerID {
		uc.log.Warn().Str("request_id", requestID).Str("user_id", ownerID).Msg("descarga de solicitud ajena")
		return nil, domain.ErrForbidden
	}
	out, err := uc.resolver.Resolve(req, s)
	if err != nil {
		if errors.Is(err, domain.ErrContentNotAvailable) {
			uc.log.Warn().Str("request_id", requestID).Str("side", side).Msg("contenido no disponible en el registro")
		}
		return nil, err
	}
	return out, nil
}

func toImageRequestResponse(r *entity.ImageRequest) dto.ImageRequestResponse {
	return dto.ImageRequestResponse{
		ID:               r.ID,
		UserID:           r.UserID,
		EmployeeID:       r.EmployeeID,
		DisplayName:      r.DisplayName,
		OriginalFileName: r.Original.FileName,
		OriginalFilePath: publicPath(r.Original.URL),
		EditedFileName:   r.Edited.FileName,
		EditedFilePath:   publicPath(r.Edited.URL),
		Status:           r.Status,
		UploadedAt:       r.UploadedAt,
		CompletedAt:      r.CompletedAt,
	}
}

// publicPath oculta data URIs en listados y eventos: pueden pesar megabytes.
func publicPath(u string) string {
	if strings.HasPrefix(u, "data:") {
		return ""
	}
	return u
}

// Summary resumen de la solicitud para respuestas de carga.
func Summary(r *entity.ImageRequest) dto.RequestSummary {
	s := dto.RequestSummary{ID: r.ID, Status: r.Status, CompletedAt: r.CompletedAt}
	if !r.UploadedAt.IsZero() {
		uploadedAt := r.UploadedAt
		s.UploadedAt = &uploadedAt
	}
	return s
}
