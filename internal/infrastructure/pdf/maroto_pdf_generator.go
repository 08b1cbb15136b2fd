// Package pdf genera el reporte imprimible de solicitudes de imagen con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + fecha de generación                       │
//	│  RESUMEN: total | pendientes | completadas                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Empleado | Nombre | Original | Editado | Estado |   │
//	│         Cargada | Completada                                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/portal-imagenes/internal/application/reports"
	"github.com/jhoicas/portal-imagenes/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorPending = &props.Color{Red: 191, Green: 120, Blue: 0}
	colorDone    = &props.Color{Red: 0, Green: 128, Blue: 64}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ reports.RequestsPDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa reports.RequestsPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateRequestsReport genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateRequestsReport(
	_ context.Context,
	requests []*entity.ImageRequest,
	generatedAt time.Time,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Solicitudes de imagen", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(generatedAt))
	m.AddRows(summaryRow(requests))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(requests)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(generatedAt time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("SOLICITUDES DE IMAGEN", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Portal de edición de fondos", props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+generatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

func summaryRow(requests []*entity.ImageRequest) core.Row {
	pending, completed := 0, 0
	for _, r := range requests {
		if r.Status == entity.StatusCompleted {
			completed++
		} else {
			pending++
		}
	}
	cell := func(label string, n int, c *props.Color) core.Col {
		return col.New(4).Add(text.New(fmt.Sprintf("%s: %d", label, n), props.Text{
			Style: fontstyle.Bold, Size: 9, Color: c, Top: 1,
		}))
	}
	return row.New(8).Add(
		cell("Total", len(requests), colorPrimary),
		cell("Pendientes", pending, colorPending),
		cell("Completadas", completed, colorDone),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 7, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(7).Add(
		h("Empleado", 1),
		h("Nombre", 2),
		h("Original", 2),
		h("Editado", 2),
		h("Estado", 1),
		h("Cargada", 2),
		h("Completada", 2),
	)
}

func tableRows(requests []*entity.ImageRequest) []core.Row {
	result := make([]core.Row, 0, len(requests))
	for _, r := range requests {
		statusColor := colorPending
		if r.Status == entity.StatusCompleted {
			statusColor = colorDone
		}
		completed := "—"
		if r.CompletedAt != nil {
			completed = r.CompletedAt.Format("02/01/2006 15:04")
		}
		result = append(result, row.New(6).Add(
			col.New(1).Add(text.New(r.EmployeeID, props.Text{Size: 7, Top: 1})),
			col.New(2).Add(text.New(r.DisplayName, props.Text{Size: 7, Top: 1})),
			col.New(2).Add(text.New(nonEmpty(r.Original.FileName, "—"), props.Text{Size: 7, Top: 1})),
			col.New(2).Add(text.New(nonEmpty(r.Edited.FileName, "—"), props.Text{Size: 7, Top: 1})),
			col.New(1).Add(text.New(r.Status, props.Text{Size: 7, Top: 1, Color: statusColor})),
			col.New(2).Add(text.New(r.UploadedAt.Format("02/01/2006 15:04"), props.Text{Size: 7, Top: 1})),
			col.New(2).Add(text.New(completed, props.Text{Size: 7, Top: 1, Color: colorGray})),
		))
	}
	return result
}

func nonEmpty(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
