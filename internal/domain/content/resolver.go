package content

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	"github.com/jhoicas/portal-imagenes/internal/domain"
	"github.com/jhoicas/portal-imagenes/internal/domain/entity"
)

// DefaultContentType se usa cuando el registro no declara tipo MIME.
const DefaultContentType = "application/octet-stream"

// ExternalMode decide qué hacer con una URL externa verdadera.
type ExternalMode string

const (
	// ExternalRedirect entrega la URL a la frontera para que redirija.
	ExternalRedirect ExternalMode = "redirect"
	// ExternalStrict exige bytes servibles; una URL externa es ErrContentNotInline.
	ExternalStrict ExternalMode = "strict"
)

var dataURIRx = regexp.MustCompile(`^data:([^;,]+);base64,(.+)$`)

// Resolved resultado normalizado de la resolución. Si URL no está vacío,
// Data es nil y la frontera debe redirigir.
type Resolved struct {
	Data        []byte
	ContentType string
	FileName    string
	URL         string
}

// IsRedirect indica que el contenido vive en un host externo.
func (r *Resolved) IsRedirect() bool { return r.URL != "" }

// Resolver normaliza las dos estrategias de almacenamiento en un único modelo de lectura.
// Solo lee campos de archivo; nunca decide estado.
type Resolver struct {
	mode ExternalMode
}

// NewResolver construye el resolver; un modo desconocido se trata como ExternalRedirect.
func NewResolver(mode ExternalMode) *Resolver {
	if mode != ExternalStrict {
		mode = ExternalRedirect
	}
	return &Resolver{mode: mode}
}

// Resolve aplica el orden: contenido embebido → data URI → URL externa → no disponible.
func (r *Resolver) Resolve(req *entity.ImageRequest, side entity.AssetSide) (*Resolved, error) {
	if req == nil {
		return nil, domain.ErrNotFound
	}
	asset := req.Asset(side)

	if len(asset.Content) > 0 {
		ct := asset.ContentType
		if ct == "" {
			ct = DefaultContentType
		}
		return &Resolved{
			Data:        asset.Content,
			ContentType: ct,
			FileName:    fileNameFor(asset, side, false),
		}, nil
	}

	if asset.URL == "" {
		return nil, domain.ErrContentNotAvailable
	}

	if strings.HasPrefix(asset.URL, "data:") {
		mimeType, data, err := DecodeDataURI(asset.URL)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrContentNotAvailable, err)
		}
		return &Resolved{
			Data:        data,
			ContentType: mimeType,
			FileName:    fileNameFor(asset, side, true),
		}, nil
	}

	if !isHTTPURL(asset.URL) {
		// Ruta local de una versión anterior: no hay bytes recuperables.
		return nil, domain.ErrContentNotAvailable
	}
	if r.mode == ExternalStrict {
		return nil, domain.ErrContentNotInline
	}
	return &Resolved{
		URL:         asset.URL,
		ContentType: asset.ContentType,
		FileName:    fileNameFor(asset, side, false),
	}, nil
}

// DecodeDataURI decodifica "data:<mime>;base64,<payload>".
func DecodeDataURI(uri string) (string, []byte, error) {
	m := dataURIRx.FindStringSubmatch(uri)
	if m == nil {
		return "", nil, fmt.Errorf("data URI con formato no soportado")
	}
	data, err := base64.StdEncoding.DecodeString(m[2])
	if err != nil {
		return "", nil, fmt.Errorf("data URI: %w", err)
	}
	return m[1], data, nil
}

// DecodeInlineString decodifica contenido embebido legado guardado como texto base64,
// con o sin prefijo "data:<mime>;base64,".
func DecodeInlineString(s string) ([]byte, error) {
	if i := strings.Index(s, ","); i >= 0 && strings.HasPrefix(s, "data:") {
		s = s[i+1:]
	}
	return base64.StdEncoding.DecodeString(s)
}

func fileNameFor(a entity.Asset, side entity.AssetSide, fromDataURI bool) string {
	if a.FileName != "" {
		return a.FileName
	}
	if fromDataURI {
		return "image"
	}
	if side == entity.SideEdited {
		return "edited-image"
	}
	return "image"
}

func isHTTPURL(u string) bool {
	return strings.HasPrefix(u, "https://") || strings.HasPrefix(u, "http://")
}
