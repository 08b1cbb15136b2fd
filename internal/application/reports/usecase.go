// Package reports exporta el listado de solicitudes de imagen a hoja de cálculo y PDF.
package reports

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/portal-imagenes/internal/application/dto"
	"github.com/jhoicas/portal-imagenes/internal/application/roster"
	"github.com/jhoicas/portal-imagenes/internal/domain/entity"
	"github.com/jhoicas/portal-imagenes/internal/domain/repository"
)

// RequestsPDFGenerator puerto del generador de PDF (implementado en infrastructure/pdf).
type RequestsPDFGenerator interface {
	GenerateRequestsReport(ctx context.Context, requests []*entity.ImageRequest, generatedAt time.Time) ([]byte, error)
}

var requestHeaders = []string{
	"ID", "User ID", "Employee ID", "Display Name",
	"Original File", "Original Path", "Edited File", "Edited Path",
	"Status", "Uploaded At", "Completed At",
}

// ReportsUseCase exportaciones del panel de administración.
type ReportsUseCase struct {
	repo  repository.ImageRequestRepository
	codec roster.SheetCodec
	pdf   RequestsPDFGenerator
	log   zerolog.Logger
	now   func() time.Time
}

// NewReportsUseCase construye el caso de uso.
func NewReportsUseCase(repo repository.ImageRequestRepository, codec roster.SheetCodec, pdf RequestsPDFGenerator, log zerolog.Logger) *ReportsUseCase {
	return &ReportsUseCase{
		repo:  repo,
		codec: codec,
		pdf:   pdf,
		log:   log.With().Str("component", "reports").Logger(),
		now:   time.Now,
	}
}

// ExportXLSX genera image_requests_export.xlsx con todas las solicitudes.
func (uc *ReportsUseCase) ExportXLSX(ctx context.Context) (*dto.FileResponse, error) {
	list, err := uc.all(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(list))
	for _, r := range list {
		rows = append(rows, []string{
			r.ID, r.UserID, r.EmployeeID, r.DisplayName,
			r.Original.FileName, externalPath(r.Original.URL),
			r.Edited.FileName, externalPath(r.Edited.URL),
			r.Status, formatTime(&r.UploadedAt), formatTime(r.CompletedAt),
		})
	}
	data, err := uc.codec.Write("Image Requests", requestHeaders, rows)
	if err != nil {
		uc.log.Error().Err(err).Msg("generar hoja de solicitudes")
		return nil, err
	}
	return &dto.FileResponse{FileName: "image_requests_export.xlsx", ContentType: roster.XLSXContentType, Data: data}, nil
}

// ExportPDF genera el reporte imprimible de solicitudes.
func (uc *ReportsUseCase) ExportPDF(ctx context.Context) (*dto.FileResponse, error) {
	list, err := uc.all(ctx)
	if err != nil {
		return nil, err
	}
	data, err := uc.pdf.GenerateRequestsReport(ctx, list, uc.now())
	if err != nil {
		uc.log.Error().Err(err).Int("count", len(list)).Msg("generar reporte PDF")
		return nil, err
	}
	return &dto.FileResponse{FileName: "image_requests_report.pdf", ContentType: "application/pdf", Data: data}, nil
}

func (uc *ReportsUseCase) all(ctx context.Context) ([]*entity.ImageRequest, error) {
	page, err := uc.repo.List(ctx, entity.ListOptions{})
	if err != nil {
		uc.log.Error().Err(err).Msg("listar solicitudes para exportar")
		return nil, err
	}
	return page.Items, nil
}

// externalPath omite data URIs: no caben en una celda.
func externalPath(u string) string {
	if len(u) > 5 && u[:5] == "data:" {
		return ""
	}
	return u
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
