package requests

import (
	"context"
)

// Tipos de evento emitidos por el ciclo de vida.
const (
	EventNewImageUpload = "new_image_upload"
	EventImageEdited    = "image_edited"
)

// Audience destinatarios de un evento: suscriptores con el rol indicado
// o conectados como el usuario indicado. Campos vacíos no coinciden con nadie.
type Audience struct {
	Role   string
	UserID string
}

// Event evento de ciclo de vida. Data es serializable a JSON y nunca lleva bytes de imagen.
type Event struct {
	Type     string
	Audience Audience
	Data     any
}

// Notifier entrega eventos a los suscriptores activos. Best-effort: nunca bloquea
// ni falla la operación que lo invoca; sin suscriptores el evento se descarta.
type Notifier interface {
	Publish(ctx context.Context, ev Event)
}

// BlobUploader sube bytes a un host de objetos externo y devuelve su URL pública.
type BlobUploader interface {
	Upload(ctx context.Context, folder, fileName, contentType string, data []byte) (string, error)
}

// NopNotifier descarta los eventos (modo solo polling).
type NopNotifier struct{}

// Publish no hace nada.
func (NopNotifier) Publish(context.Context, Event) {}
