// Package mongo implementa los puertos de persistencia sobre MongoDB, compatible
// con los documentos creados por versiones anteriores del portal.
package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Nombres de colección.
const (
	EmployeesCollection = "employees"
	UsersCollection     = "users"
	// RequestsCollection colección histórica de solicitudes de imagen.
	RequestsCollection = "image_storage"
)

// Connect abre el cliente y verifica la conexión. La sesión es única por proceso.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// EnsureIndexes crea los índices de consulta. No son únicos: los datos heredados
// pueden tener duplicados por employeeId.
func EnsureIndexes(ctx context.Context, db *mongo.Database, log zerolog.Logger) {
	specs := map[string][]mongo.IndexModel{
		EmployeesCollection: {{Keys: bson.D{{Key: "employeeId", Value: 1}}}},
		UsersCollection:     {{Keys: bson.D{{Key: "employeeId", Value: 1}}}},
		RequestsCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "uploadedAt", Value: -1}}},
			{Keys: bson.D{{Key: "uploadedAt", Value: -1}, {Key: "_id", Value: -1}}},
		},
	}
	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			log.Warn().Err(err).Str("collection", coll).Msg("crear índices")
		}
	}
}
