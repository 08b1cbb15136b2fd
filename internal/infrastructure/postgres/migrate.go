package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/jhoicas/portal-imagenes/internal/infrastructure/postgres/migrations"
)

// Migrate aplica las migraciones pendientes sobre el pool.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	// El *sql.DB comparte las conexiones del pool; no se cierra aquí.
	db := stdlib.OpenDBFromPool(pool)

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("aplicar migraciones: %w", err)
	}
	return nil
}
