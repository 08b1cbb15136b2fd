package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/portal-imagenes/internal/application/auth"
	"github.com/jhoicas/portal-imagenes/internal/application/reports"
	"github.com/jhoicas/portal-imagenes/internal/application/requests"
	"github.com/jhoicas/portal-imagenes/internal/application/roster"
	"github.com/jhoicas/portal-imagenes/internal/domain/entity"
	"github.com/jhoicas/portal-imagenes/internal/infrastructure/realtime"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	Lifecycle *requests.LifecycleUseCase
	Query     *requests.QueryUseCase
	Reports   *reports.ReportsUseCase
	Roster    *roster.RosterUseCase
	// Hub nil = modo polling, sin /ws.
	Hub            *realtime.Hub
	JWTSecret      string
	MaxUploadBytes int64
	Production     bool
	Log            zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	r := responder{log: deps.Log.With().Str("component", "http").Logger(), production: deps.Production}

	var subs subscriberCounter
	if deps.Hub != nil {
		subs = deps.Hub
	}
	health := Health(subs)
	app.Get("/health", health)
	api := app.Group("/api")
	api.Get("/health", health)

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, r)
	api.Post("/auth/login", authHandler.Login)

	// Imágenes (cualquier usuario autenticado)
	images := api.Group("/images", AuthMiddleware(deps.JWTSecret))
	imageHandler := NewImageHandler(deps.Lifecycle, deps.Query, deps.MaxUploadBytes, r)
	images.Post("/upload", imageHandler.Upload)
	images.Get("/user/:userId", imageHandler.ListMine)
	images.Get("/download-by-id/:requestId/:type", imageHandler.Download)
	images.Get("/download/:requestId", imageHandler.DownloadLegacy)

	// Administración (rol admin)
	admin := api.Group("/admin", AuthMiddleware(deps.JWTSecret), RequireRole(entity.RoleAdmin))
	adminHandler := NewAdminHandler(deps.Lifecycle, deps.Query, deps.Reports, deps.MaxUploadBytes, r)
	admin.Get("/requests", adminHandler.ListRequests)
	admin.Get("/requests/export-file", adminHandler.ExportRequestsXLSX)
	admin.Get("/requests/export-pdf", adminHandler.ExportRequestsPDF)
	admin.Post("/upload-edited/:requestId", adminHandler.UploadEdited)

	rosterHandler := NewRosterHandler(deps.Roster, r)
	admin.Post("/employees/import", rosterHandler.ImportEmployees)
	admin.Get("/employees/export", rosterHandler.ExportEmployees)
	admin.Delete("/employees", rosterHandler.ClearEmployees)
	admin.Post("/users/import", rosterHandler.ImportUsers)
	admin.Get("/users/export", rosterHandler.ExportUsers)

	// Push de eventos
	if deps.Hub != nil {
		ws := NewWSHandler(deps.Hub, deps.JWTSecret, deps.Log)
		app.Get("/ws", ws.Upgrade, ws.Serve())
	}
}
