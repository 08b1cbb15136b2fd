package entity

import "time"

// Estados válidos de ImageRequest. El estado se deriva del archivo editado;
// solo el motor de ciclo de vida lo escribe.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// ImageRequest es una solicitud de quitar fondo: original cargado por el empleado,
// editado cargado por un administrador.
type ImageRequest struct {
	ID          string
	UserID      string
	EmployeeID  string
	DisplayName string // desnormalizado para el panel de administración

	Original Asset
	Edited   Asset

	Status      string
	UploadedAt  time.Time
	CompletedAt *time.Time
}

// Asset devuelve el archivo del lado indicado.
func (r *ImageRequest) Asset(side AssetSide) Asset {
	if side == SideEdited {
		return r.Edited
	}
	return r.Original
}

// DerivedStatus calcula el estado a partir de los campos del archivo editado.
func (r *ImageRequest) DerivedStatus() string {
	if r.Edited.IsPresent() {
		return StatusCompleted
	}
	return StatusPending
}

// IsConsistent verifica: completed ⟺ editado presente ⟺ CompletedAt definido.
func (r *ImageRequest) IsConsistent() bool {
	switch r.Status {
	case StatusCompleted:
		return r.Edited.IsPresent() && r.CompletedAt != nil
	case StatusPending:
		return r.Edited.IsZero() && r.CompletedAt == nil
	default:
		return false
	}
}

// WithoutContent devuelve una copia sin bytes embebidos (para listados y eventos).
func (r *ImageRequest) WithoutContent() *ImageRequest {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Original = r.Original.WithoutContent()
	cp.Edited = r.Edited.WithoutContent()
	return &cp
}

// ImageRequestPatch actualización parcial atómica por ID.
// ExpectStatus, si no está vacío, condiciona la escritura al estado actual.
type ImageRequestPatch struct {
	Edited       *Asset
	Status       *string
	CompletedAt  *time.Time
	ExpectStatus string
}

// ListOptions paginación y proyección para listados.
type ListOptions struct {
	Offset         int
	Limit          int  // 0 = sin límite
	IncludeContent bool // false excluye los bytes embebidos
}

// ImageRequestPage página de resultados con el total de la colección.
type ImageRequestPage struct {
	Items []*ImageRequest
	Total int
}
