package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrUserNotFound = errors.New("empleado no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// Ciclo de vida de la solicitud de imagen.
	ErrAlreadyCompleted = errors.New("la solicitud ya fue completada")
	ErrUploadRejected   = errors.New("archivo rechazado por la política de carga")

	// Resolución de contenido.
	ErrContentNotAvailable = errors.New("el contenido de la imagen no está disponible")
	ErrContentNotInline    = errors.New("el contenido de la imagen está en un host externo")

	// ErrStorageUnavailable envuelve cualquier fallo de conectividad con la persistencia.
	ErrStorageUnavailable = errors.New("almacenamiento no disponible")
)
