package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/portal-imagenes/internal/application/dto"
	"github.com/jhoicas/portal-imagenes/internal/application/reports"
	"github.com/jhoicas/portal-imagenes/internal/application/requests"
)

// AdminHandler panel de administración: listado paginado, carga de editados y reportes.
type AdminHandler struct {
	lifecycle *requests.LifecycleUseCase
	query     *requests.QueryUseCase
	reports   *reports.ReportsUseCase
	maxBytes  int64
	responder
}

// NewAdminHandler construye el handler de administración.
func NewAdminHandler(lifecycle *requests.LifecycleUseCase, query *requests.QueryUseCase, rep *reports.ReportsUseCase, maxBytes int64, r responder) *AdminHandler {
	return &AdminHandler{lifecycle: lifecycle, query: query, reports: rep, maxBytes: maxBytes, responder: r}
}

// ListRequests godoc
// @Summary      Listar solicitudes (paginado)
// @Description  Más recientes primero, sin bytes embebidos. También es el mecanismo de polling.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        page   query  int  false  "página (por defecto 1)"
// @Param        limit  query  int  false  "tamaño de página (por defecto 5, máx. 100)"
// @Success      200  {object}  dto.AdminRequestListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/requests [get]
func (h *AdminHandler) ListRequests(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badRequest(c, "INVALID_QUERY", "page y limit deben ser numéricos")
	}
	out, err := h.query.ListAll(c.UserContext(), page)
	if err != nil {
		return h.fail(c, "list_requests", err)
	}
	return c.JSON(out)
}

// UploadEdited godoc
// @Summary      Cargar imagen editada
// @Description  Completa la solicitud. Una solicitud ya completada responde 409.
// @Tags         admin
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        requestId    path      string  true  "ID de la solicitud"
// @Param        editedImage  formData  file    true  "JPG, PNG o WEBP (máx. 10 MiB)"
// @Success      200  {object}  dto.UploadResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/admin/upload-edited/{requestId} [post]
func (h *AdminHandler) UploadEdited(c *fiber.Ctx) error {
	in, err := readUpload(c, "editedImage", h.maxBytes)
	if err != nil {
		return badRequest(c, "NO_FILE", "no se proporcionó la imagen editada")
	}
	updated, err := h.lifecycle.AttachEdited(c.UserContext(), c.Params("requestId"), in)
	if err != nil {
		return h.fail(c, "upload_edited", err)
	}
	return c.JSON(dto.UploadResponse{
		Message: "Imagen editada cargada correctamente",
		Request: requests.Summary(updated),
	})
}

// ExportRequestsXLSX godoc
// @Summary      Exportar solicitudes a Excel
// @Tags         admin
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200
// @Router       /api/admin/requests/export-file [get]
func (h *AdminHandler) ExportRequestsXLSX(c *fiber.Ctx) error {
	f, err := h.reports.ExportXLSX(c.UserContext())
	if err != nil {
		return h.fail(c, "export_requests_xlsx", err)
	}
	return sendFile(c, f)
}

// ExportRequestsPDF godoc
// @Summary      Reporte PDF de solicitudes
// @Tags         admin
// @Produce      application/pdf
// @Security     BearerAuth
// @Success      200
// @Router       /api/admin/requests/export-pdf [get]
func (h *AdminHandler) ExportRequestsPDF(c *fiber.Ctx) error {
	f, err := h.reports.ExportPDF(c.UserContext())
	if err != nil {
		return h.fail(c, "export_requests_pdf", err)
	}
	return sendFile(c, f)
}
