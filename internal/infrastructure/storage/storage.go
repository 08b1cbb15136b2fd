// Package storage abre el almacén de registros seleccionado por STORE_DRIVER
// y expone sus repositorios detrás de las interfaces de dominio.
package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/portal-imagenes/internal/domain/repository"
	"github.com/jhoicas/portal-imagenes/internal/infrastructure/memory"
	infmongo "github.com/jhoicas/portal-imagenes/internal/infrastructure/mongo"
	"github.com/jhoicas/portal-imagenes/internal/infrastructure/postgres"
	"github.com/jhoicas/portal-imagenes/pkg/config"
)

// Stores repositorios del driver activo.
type Stores struct {
	Driver    string
	Requests  repository.ImageRequestRepository
	Employees repository.EmployeeRepository
	Users     repository.UserRepository
	close     func()
}

// Close libera la conexión subyacente.
func (s *Stores) Close() {
	if s.close != nil {
		s.close()
	}
}

// Open conecta con el driver configurado. En postgres aplica migraciones si
// DB_AUTO_MIGRATE está activo; en mongo crea los índices de consulta.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Stores, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migraciones: %w", err)
			}
			log.Info().Msg("migraciones aplicadas")
		}
		return &Stores{
			Driver:    config.DriverPostgres,
			Requests:  postgres.NewImageRequestRepository(pool),
			Employees: postgres.NewEmployeeRepository(pool),
			Users:     postgres.NewUserRepository(pool),
			close:     pool.Close,
		}, nil

	case config.DriverMongo:
		client, err := infmongo.Connect(ctx, cfg.Mongo.URI)
		if err != nil {
			return nil, fmt.Errorf("conexión a MongoDB: %w", err)
		}
		db := client.Database(cfg.Mongo.Database)
		infmongo.EnsureIndexes(ctx, db, log)
		return &Stores{
			Driver:    config.DriverMongo,
			Requests:  infmongo.NewImageRequestRepository(db),
			Employees: infmongo.NewEmployeeRepository(db),
			Users:     infmongo.NewUserRepository(db),
			close: func() {
				if err := client.Disconnect(context.Background()); err != nil {
					log.Warn().Err(err).Msg("desconexión de MongoDB")
				}
			},
		}, nil

	case config.DriverMemory:
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
		return &Stores{
			Driver:    config.DriverMemory,
			Requests:  memory.NewImageRequestRepository(),
			Employees: memory.NewEmployeeRepository(),
			Users:     memory.NewUserRepository(),
		}, nil
	}
	return nil, fmt.Errorf("driver de almacén desconocido %q", cfg.Store.Driver)
}
