// importer carga el padrón de empleados y usuarios desde archivos .xlsx locales
// al almacén configurado (STORE_DRIVER), con la misma semántica de upsert que
// los endpoints de administración.
//
// Uso: go run ./cmd/importer -employees empleados.xlsx -users usuarios.xlsx
// Cualquiera de los dos archivos puede omitirse; un archivo inexistente se salta.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/jhoicas/portal-imagenes/internal/application/dto"
	"github.com/jhoicas/portal-imagenes/internal/application/roster"
	"github.com/jhoicas/portal-imagenes/internal/infrastructure/spreadsheet"
	"github.com/jhoicas/portal-imagenes/internal/infrastructure/storage"
	"github.com/jhoicas/portal-imagenes/pkg/config"
	"github.com/jhoicas/portal-imagenes/pkg/logger"
)

func main() {
	employeesPath := flag.String("employees", "", "ruta del .xlsx de empleados")
	usersPath := flag.String("users", "", "ruta del .xlsx de usuarios")
	flag.Parse()

	if *employeesPath == "" && *usersPath == "" {
		fmt.Fprintln(os.Stderr, "uso: importer -employees <archivo.xlsx> -users <archivo.xlsx>")
		os.Exit(2)
	}

	os.Exit(run(*employeesPath, *usersPath))
}

func run(employeesPath, usersPath string) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		return 1
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	stores, err := storage.Open(ctx, cfg, log.Component("storage"))
	if err != nil {
		log.Error().Err(err).Msg("abrir almacén")
		return 1
	}
	defer stores.Close()

	uc := roster.NewRosterUseCase(stores.Employees, stores.Users, spreadsheet.NewXLSXCodec(), log.Component("importer"))

	failed := false
	steps := []struct {
		name string
		path string
		run  func(context.Context, []byte) (*dto.ImportResponse, error)
	}{
		{"empleados", employeesPath, uc.ImportEmployees},
		{"usuarios", usersPath, uc.ImportUsers},
	}
	for _, s := range steps {
		if s.path == "" {
			continue
		}
		data, err := os.ReadFile(s.path)
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn().Str("file", s.path).Msgf("archivo de %s no encontrado, se omite", s.name)
			continue
		}
		if err != nil {
			log.Error().Err(err).Str("file", s.path).Msg("leer archivo")
			failed = true
			continue
		}
		res, err := s.run(ctx, data)
		if err != nil {
			log.Error().Err(err).Str("file", s.path).Msgf("importar %s", s.name)
			failed = true
			continue
		}
		log.Info().
			Str("file", s.path).
			Int("imported", res.ImportedCount).
			Int("updated", res.UpdatedCount).
			Int("skipped", res.SkippedCount).
			Msgf("%s importados", s.name)
	}
	if failed {
		return 1
	}
	return 0
}
