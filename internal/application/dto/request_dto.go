package dto

import "time"

// UploadRequest identidad del solicitante en la carga del original (campos multipart).
type UploadRequest struct {
	UserID      string `form:"userId"`
	EmployeeID  string `form:"employeeId"`
	DisplayName string `form:"displayName"`
}

// ImageRequestResponse solicitud sin bytes embebidos.
type ImageRequestResponse struct {
	ID               string     `json:"id"`
	UserID           string     `json:"userId,omitempty"`
	EmployeeID       string     `json:"employeeId,omitempty"`
	DisplayName      string     `json:"displayName,omitempty"`
	OriginalFileName string     `json:"originalFileName"`
	OriginalFilePath string     `json:"originalFilePath,omitempty"`
	EditedFileName   string     `json:"editedFileName,omitempty"`
	EditedFilePath   string     `json:"editedFilePath,omitempty"`
	Status           string     `json:"status"`
	UploadedAt       time.Time  `json:"uploadedAt"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
}

// RequestSummary resumen devuelto tras una carga.
type RequestSummary struct {
	ID          string     `json:"id"`
	Status      string     `json:"status"`
	UploadedAt  *time.Time `json:"uploadedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// UploadResponse respuesta de carga de original o editado.
type UploadResponse struct {
	Message string         `json:"message"`
	Request RequestSummary `json:"request"`
}

// UserRequestListResponse solicitudes de un usuario.
type UserRequestListResponse struct {
	Requests []ImageRequestResponse `json:"requests"`
}

// AdminRequestListResponse lista paginada para el panel de administración.
type AdminRequestListResponse struct {
	Requests   []ImageRequestResponse `json:"requests"`
	Pagination PaginationResponse     `json:"pagination"`
}
