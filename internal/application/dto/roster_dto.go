package dto

// ImportResponse resultado de una importación masiva.
type ImportResponse struct {
	Message       string `json:"message"`
	ImportedCount int    `json:"importedCount"`
	UpdatedCount  int    `json:"updatedCount"`
	SkippedCount  int    `json:"skippedCount"`
}

// FileResponse archivo generado para descarga (exportaciones).
type FileResponse struct {
	FileName    string
	ContentType string
	Data        []byte
}
