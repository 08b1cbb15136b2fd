package http

import (
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/portal-imagenes/internal/application/dto"
	"github.com/jhoicas/portal-imagenes/internal/application/requests"
	"github.com/jhoicas/portal-imagenes/internal/domain"
	"github.com/jhoicas/portal-imagenes/internal/domain/content"
	"github.com/jhoicas/portal-imagenes/internal/domain/entity"
)

// ImageHandler carga de originales, listado propio y descargas.
type ImageHandler struct {
	lifecycle *requests.LifecycleUseCase
	query     *requests.QueryUseCase
	maxBytes  int64
	responder
}

// NewImageHandler construye el handler de imágenes.
func NewImageHandler(lifecycle *requests.LifecycleUseCase, query *requests.QueryUseCase, maxBytes int64, r responder) *ImageHandler {
	if maxBytes <= 0 {
		maxBytes = content.DefaultMaxBytes
	}
	return &ImageHandler{lifecycle: lifecycle, query: query, maxBytes: maxBytes, responder: r}
}

// Upload godoc
// @Summary      Cargar imagen original
// @Description  Crea una solicitud en estado pending. userId y employeeId toman por defecto la identidad del token.
// @Tags         images
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        image        formData  file    true   "JPG, PNG o WEBP (máx. 10 MiB)"
// @Param        userId       formData  string  false  "ID del usuario"
// @Param        employeeId   formData  string  false  "ID de empleado"
// @Param        displayName  formData  string  true   "Nombre para el panel"
// @Success      201  {object}  dto.UploadResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/images/upload [post]
func (h *ImageHandler) Upload(c *fiber.Ctx) error {
	in, err := readUpload(c, "image", h.maxBytes)
	if err != nil {
		return badRequest(c, "NO_FILE", "no se proporcionó ninguna imagen")
	}
	var form dto.UploadRequest
	if err := c.BodyParser(&form); err != nil {
		return badRequest(c, "INVALID_BODY", "formulario inválido")
	}
	sub := requests.Submitter{
		UserID:      firstNonEmpty(form.UserID, GetUserID(c)),
		EmployeeID:  firstNonEmpty(form.EmployeeID, GetEmployeeID(c)),
		DisplayName: strings.TrimSpace(form.DisplayName),
	}
	if !h.canActAs(c, sub.UserID) {
		return h.fail(c, "upload", domain.ErrForbidden)
	}

	created, err := h.lifecycle.Create(c.UserContext(), in, sub)
	if err != nil {
		return h.fail(c, "upload", err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.UploadResponse{
		Message: "Imagen cargada correctamente",
		Request: requests.Summary(created),
	})
}

// ListMine godoc
// @Summary      Solicitudes del usuario
// @Tags         images
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path  string  true  "ID del usuario"
// @Success      200  {object}  dto.UserRequestListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/images/user/{userId} [get]
func (h *ImageHandler) ListMine(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if !h.canActAs(c, userID) {
		return h.fail(c, "list_mine", domain.ErrForbidden)
	}
	out, err := h.query.ListMine(c.UserContext(), userID)
	if err != nil {
		return h.fail(c, "list_mine", err)
	}
	return c.JSON(out)
}

// Download godoc
// @Summary      Descargar imagen
// @Description  Devuelve los bytes con Content-Type y Content-Disposition, o redirige si el archivo vive en un host externo.
// @Tags         images
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        requestId  path  string  true  "ID de la solicitud"
// @Param        type       path  string  true  "original | edited"
// @Success      200
// @Success      302
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/images/download-by-id/{requestId}/{type} [get]
func (h *ImageHandler) Download(c *fiber.Ctx) error {
	return h.download(c, c.Params("requestId"), c.Params("type"))
}

// DownloadLegacy godoc
// @Summary      Descargar imagen (ruta anterior)
// @Tags         images
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        requestId  path   string  true   "ID de la solicitud"
// @Param        type       query  string  false  "original (por defecto) | edited"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/images/download/{requestId} [get]
func (h *ImageHandler) DownloadLegacy(c *fiber.Ctx) error {
	return h.download(c, c.Params("requestId"), c.Query("type", string(entity.SideOriginal)))
}

func (h *ImageHandler) download(c *fiber.Ctx, requestID, side string) error {
	owner := GetUserID(c)
	if GetRole(c) == entity.RoleAdmin {
		owner = ""
	}
	out, err := h.query.DownloadFor(c.UserContext(), owner, requestID, side)
	if err != nil {
		return h.fail(c, "download", err)
	}
	return sendResolved(c, out)
}

// canActAs: un admin actúa sobre cualquier usuario; un user solo sobre sí mismo.
func (h *ImageHandler) canActAs(c *fiber.Ctx, userID string) bool {
	if GetRole(c) == entity.RoleAdmin {
		return true
	}
	return userID != "" && userID == GetUserID(c)
}

// readUpload lee el archivo multipart en memoria. Lee como máximo maxBytes+1
// para que la política de carga detecte el exceso sin bufferizar todo.
func readUpload(c *fiber.Ctx, field string, maxBytes int64) (content.Upload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return content.Upload{}, err
	}
	f, err := fh.Open()
	if err != nil {
		return content.Upload{}, fmt.Errorf("abrir %s: %w", field, err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return content.Upload{}, fmt.Errorf("leer %s: %w", field, err)
	}
	return content.Upload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}, nil
}

func sendResolved(c *fiber.Ctx, out *content.Resolved) error {
	if out.IsRedirect() {
		return c.Redirect(out.URL, fiber.StatusFound)
	}
	return sendBytes(c, out.FileName, out.ContentType, out.Data)
}

func sendFile(c *fiber.Ctx, f *dto.FileResponse) error {
	return sendBytes(c, f.FileName, f.ContentType, f.Data)
}

func sendBytes(c *fiber.Ctx, fileName, contentType string, data []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, attachment(fileName))
	return c.Send(data)
}

// attachment arma Content-Disposition; nombres no ASCII usan filename* (RFC 2231).
func attachment(fileName string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": fileName}); v != "" {
		return v
	}
	return "attachment"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
