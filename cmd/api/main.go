package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/portal-imagenes/docs"
	"github.com/jhoicas/portal-imagenes/internal/application/auth"
	"github.com/jhoicas/portal-imagenes/internal/application/reports"
	"github.com/jhoicas/portal-imagenes/internal/application/requests"
	"github.com/jhoicas/portal-imagenes/internal/application/roster"
	"github.com/jhoicas/portal-imagenes/internal/domain/content"
	"github.com/jhoicas/portal-imagenes/internal/infrastructure/blob"
	infrapdf "github.com/jhoicas/portal-imagenes/internal/infrastructure/pdf"
	"github.com/jhoicas/portal-imagenes/internal/infrastructure/realtime"
	"github.com/jhoicas/portal-imagenes/internal/infrastructure/spreadsheet"
	"github.com/jhoicas/portal-imagenes/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/portal-imagenes/internal/interfaces/http"
	"github.com/jhoicas/portal-imagenes/pkg/config"
	"github.com/jhoicas/portal-imagenes/pkg/logger"
)

// @title                       Portal de Imágenes API
// @version                     1.0
// @description                 Solicitudes de quitar fondo: carga, edición y descarga.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Str("notify", cfg.Notify.Transport).
		Msg("iniciando aplicación")

	if err := cfg.ValidateAPI(); err != nil {
		log.Fatal().Err(err).Msg("configuración incompleta")
	}

	ctx := context.Background()
	stores, err := storage.Open(ctx, cfg, log.Component("storage"))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacén")
	}
	defer stores.Close()

	passwordHash := cfg.Auth.SharedPasswordHash
	if passwordHash == "" {
		passwordHash, err = auth.HashPassword(cfg.Auth.SharedPassword, 0)
		if err != nil {
			log.Fatal().Err(err).Msg("hashear contraseña compartida")
		}
	}

	// Host externo opcional: sin S3_BUCKET solo hay contenido embebido.
	var blobs requests.BlobUploader
	if cfg.S3.Enabled() {
		store, err := blob.NewS3Store(ctx, blob.Options{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			PublicBaseURL:   cfg.S3.PublicBaseURL,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("cliente S3")
		}
		blobs = store
	}

	var hub *realtime.Hub
	var notifier requests.Notifier = requests.NopNotifier{}
	if cfg.Notify.Transport == config.TransportWebSocket {
		hub = realtime.NewHub(realtime.DefaultBufferSize, log.Zerolog())
		notifier = hub
	}

	zl := log.Zerolog()
	codec := spreadsheet.NewXLSXCodec()
	policy := content.NewPolicy(cfg.Upload.MaxBytes)
	lifecycleUC := requests.NewLifecycleUseCase(stores.Requests, policy, blobs, notifier, zl)
	queryUC := requests.NewQueryUseCase(stores.Requests, content.NewResolver(content.ExternalMode(cfg.Notify.DownloadExternal)), zl)
	reportsUC := reports.NewReportsUseCase(stores.Requests, codec, infrapdf.NewMarotoPDFGenerator(), zl)
	rosterUC := roster.NewRosterUseCase(stores.Employees, stores.Users, codec, zl)
	authUC := auth.NewAuthUseCase(stores.Users, stores.Employees, passwordHash, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, zl)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.BodyLimit(),
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(zl))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Portal de Imágenes API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		Lifecycle:      lifecycleUC,
		Query:          queryUC,
		Reports:        reportsUC,
		Roster:         rosterUC,
		Hub:            hub,
		JWTSecret:      cfg.JWT.Secret,
		MaxUploadBytes: policy.MaxBytes,
		Production:     cfg.App.IsProduction(),
		Log:            zl,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	// Cerrar el hub primero libera las conexiones /ws abiertas.
	if hub != nil {
		hub.Close()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
