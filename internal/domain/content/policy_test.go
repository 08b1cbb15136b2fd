package content_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/portal-imagenes/internal/domain"
	"github.com/jhoicas/portal-imagenes/internal/domain/content"
)

func TestPolicy_AceptaTiposPermitidos(t *testing.T) {
	p := content.NewPolicy(0)
	for _, ct := range []string{"image/jpeg", "image/jpg", "image/png", "image/webp", "IMAGE/PNG"} {
		err := p.Validate(content.Upload{FileName: "a", ContentType: ct, Data: []byte{1}})
		assert.NoError(t, err, ct)
	}
}

func TestPolicy_RechazaTipoNoPermitido(t *testing.T) {
	err := content.NewPolicy(0).Validate(content.Upload{FileName: "a.gif", ContentType: "image/gif", Data: []byte{1}})
	assert.ErrorIs(t, err, domain.ErrUploadRejected)
}

func TestPolicy_RechazaArchivoGrande(t *testing.T) {
	p := content.NewPolicy(8)
	err := p.Validate(content.Upload{FileName: "a.png", ContentType: "image/png", Data: bytes.Repeat([]byte{1}, 9)})
	assert.ErrorIs(t, err, domain.ErrUploadRejected)

	assert.NoError(t, p.Validate(content.Upload{FileName: "a.png", ContentType: "image/png", Data: bytes.Repeat([]byte{1}, 8)}))
}

func TestPolicy_LimitePorDefectoEsDiezMiB(t *testing.T) {
	assert.Equal(t, int64(10*1024*1024), content.NewPolicy(-1).MaxBytes)
}

func TestPolicy_RechazaVacio(t *testing.T) {
	err := content.NewPolicy(0).Validate(content.Upload{FileName: "", ContentType: "image/png"})
	assert.ErrorIs(t, err, domain.ErrUploadRejected)
}
