package dto

// Paginación por defecto del panel de administración.
const (
	DefaultPage     = 1
	DefaultPageSize = 5
	MaxPageSize     = 100
)

// PageRequest paginación por número de página (1-based).
type PageRequest struct {
	Page  int `query:"page" validate:"min=1"`
	Limit int `query:"limit" validate:"min=1,max=100"`
}

// DefaultPage aplica valores por defecto y límites.
func (p *PageRequest) DefaultPage() {
	if p.Page <= 0 {
		p.Page = DefaultPage
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
}

// Offset registros a saltar para la página actual.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PaginationResponse metadatos de página en respuestas.
type PaginationResponse struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// NewPagination calcula totalPages = ceil(total / limit).
func NewPagination(total int, p PageRequest) PaginationResponse {
	pages := 0
	if p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return PaginationResponse{Total: total, Page: p.Page, Limit: p.Limit, TotalPages: pages}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse estado del servicio.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	// Subscribers conexiones /ws activas; ausente en modo polling.
	Subscribers *int `json:"subscribers,omitempty"`
}
