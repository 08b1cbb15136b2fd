// Package content contiene las reglas de dominio sobre los bytes de imagen:
// la política de carga (tamaño y tipo MIME) y la resolución de contenido
// embebido vs. referenciado por URL.
package content

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/portal-imagenes/internal/domain"
)

// DefaultMaxBytes límite de tamaño por archivo (10 MiB).
const DefaultMaxBytes int64 = 10 * 1024 * 1024

// AllowedContentTypes lista blanca de tipos MIME aceptados.
var AllowedContentTypes = []string{"image/jpeg", "image/jpg", "image/png", "image/webp"}

// Upload archivo recibido por la frontera, ya bufferizado en memoria.
type Upload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Policy valida archivos antes de crear o actualizar cualquier registro.
type Policy struct {
	MaxBytes int64
}

// NewPolicy construye la política; maxBytes <= 0 usa DefaultMaxBytes.
func NewPolicy(maxBytes int64) Policy {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return Policy{MaxBytes: maxBytes}
}

// Validate devuelve un error que envuelve domain.ErrUploadRejected si el archivo no cumple.
func (p Policy) Validate(u Upload) error {
	var errs []error
	if strings.TrimSpace(u.FileName) == "" {
		errs = append(errs, errors.New("nombre de archivo vacío"))
	}
	if len(u.Data) == 0 {
		errs = append(errs, errors.New("archivo vacío"))
	}
	if int64(len(u.Data)) > p.MaxBytes {
		errs = append(errs, fmt.Errorf("el archivo supera el límite de %d bytes", p.MaxBytes))
	}
	if !IsAllowedContentType(u.ContentType) {
		errs = append(errs, fmt.Errorf("tipo %q no permitido; solo JPG, PNG y WEBP", u.ContentType))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrUploadRejected, errors.Join(errs...))
	}
	return nil
}

// IsAllowedContentType compara ignorando mayúsculas y parámetros (ej. "; charset=").
func IsAllowedContentType(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	for _, allowed := range AllowedContentTypes {
		if ct == allowed {
			return true
		}
	}
	return false
}
