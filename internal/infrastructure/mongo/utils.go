package mongo

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jhoicas/portal-imagenes/internal/domain"
	"github.com/jhoicas/portal-imagenes/internal/domain/content"
)

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorageUnavailable, err)
}

// objectID convierte el ID externo; false si no es un ObjectID válido.
func objectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	return oid, err == nil
}

// decodeContent lee un campo de contenido embebido: binario, o texto base64 de
// versiones anteriores (con o sin prefijo data:). Un texto ilegible cuenta como ausente.
func decodeContent(rv bson.RawValue) []byte {
	switch rv.Type {
	case bsontype.Binary:
		_, data, ok := rv.BinaryOK()
		if !ok || len(data) == 0 {
			return nil
		}
		return data
	case bsontype.String:
		s, ok := rv.StringValueOK()
		if !ok || s == "" {
			return nil
		}
		data, err := content.DecodeInlineString(s)
		if err != nil {
			return nil
		}
		return data
	default:
		return nil
	}
}

// binary envuelve bytes como BSON binario genérico; nil si no hay contenido.
func binary(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return primitive.Binary{Subtype: bsontype.BinaryGeneric, Data: b}
}

func orNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}

// splitEmpty manda value a $set si no está vacío; si lo está, def va a
// $setOnInsert para no pisar el valor de un documento existente.
func splitEmpty(set, onInsert bson.D, key, value, def string) (bson.D, bson.D) {
	if value != "" {
		return append(set, bson.E{Key: key, Value: value}), onInsert
	}
	return set, append(onInsert, bson.E{Key: key, Value: def})
}
