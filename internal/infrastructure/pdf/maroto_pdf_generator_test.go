package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/portal-imagenes/internal/domain/entity"
	"github.com/jhoicas/portal-imagenes/internal/infrastructure/pdf"
)

func TestGenerateRequestsReport(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	list := []*entity.ImageRequest{
		{ID: "1", EmployeeID: "E100", DisplayName: "Ana", Original: entity.Asset{FileName: "a.png"}, Status: entity.StatusPending, UploadedAt: now},
		{ID: "2", EmployeeID: "E200", DisplayName: "Luis", Original: entity.Asset{FileName: "b.png"}, Edited: entity.Asset{FileName: "b_edited.png"},
			Status: entity.StatusCompleted, UploadedAt: now, CompletedAt: &now},
	}

	data, err := pdf.NewMarotoPDFGenerator().GenerateRequestsReport(context.Background(), list, now)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestGenerateRequestsReport_Vacio(t *testing.T) {
	data, err := pdf.NewMarotoPDFGenerator().GenerateRequestsReport(context.Background(), nil, time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
