package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/portal-imagenes/internal/application/dto"
	"github.com/jhoicas/portal-imagenes/internal/domain"
)

// responder traduce errores de dominio a dto.ErrorResponse.
// En producción los 500 nunca exponen err.Error().
type responder struct {
	log        zerolog.Logger
	production bool
}

type errorMapping struct {
	target  error
	status  int
	code    string
	message string // vacío = usar err.Error()
}

// El orden importa: los más específicos primero.
var errorMappings = []errorMapping{
	{domain.ErrAlreadyCompleted, fiber.StatusConflict, "ALREADY_COMPLETED", "la solicitud ya fue completada"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT", "conflicto con el estado actual"},
	{domain.ErrUploadRejected, fiber.StatusBadRequest, "UPLOAD_REJECTED", ""},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION", ""},
	{domain.ErrUserNotFound, fiber.StatusUnauthorized, "USER_NOT_FOUND", "empleado no encontrado"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED", "credenciales inválidas"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", "acceso denegado"},
	{domain.ErrContentNotAvailable, fiber.StatusNotFound, "CONTENT_NOT_AVAILABLE", "la imagen no está disponible en el almacenamiento; vuelva a cargarla"},
	{domain.ErrContentNotInline, fiber.StatusNotFound, "CONTENT_NOT_INLINE", "la imagen está en un host externo"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "solicitud no encontrada"},
	{domain.ErrStorageUnavailable, fiber.StatusInternalServerError, "STORAGE_UNAVAILABLE", "almacenamiento no disponible, intente más tarde"},
}

// fail responde el error mapeado; lo no reconocido es 500 INTERNAL.
func (r responder) fail(c *fiber.Ctx, op string, err error) error {
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		msg := m.message
		if msg == "" {
			msg = err.Error()
		}
		if m.status >= fiber.StatusInternalServerError {
			r.log.Error().Err(err).Str("op", op).Str("path", c.Path()).Msg("error de almacenamiento")
			if !r.production {
				msg = err.Error()
			}
		}
		return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: msg})
	}

	r.log.Error().Err(err).Str("op", op).Str("path", c.Path()).Msg("error interno")
	msg := "error interno del servidor"
	if !r.production {
		msg = err.Error()
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: msg})
}

func badRequest(c *fiber.Ctx, code, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: message})
}

// ErrorHandler responde los errores propios de Fiber (ruta inexistente, cuerpo
// demasiado grande, upgrade requerido) con el mismo formato de error.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	code := "INTERNAL"
	msg := "error interno del servidor"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
		msg = fe.Message
		switch fe.Code {
		case fiber.StatusNotFound:
			code = "NOT_FOUND"
		case fiber.StatusRequestEntityTooLarge:
			status = fiber.StatusBadRequest
			code = "UPLOAD_REJECTED"
			msg = "el cuerpo de la petición supera el límite permitido"
		case fiber.StatusUpgradeRequired:
			code = "UPGRADE_REQUIRED"
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		default:
			code = "HTTP_ERROR"
		}
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}
