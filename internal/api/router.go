package api

import (
	"log/slog"
	"net/http"
	"time"

	"skillarena/internal/api/handler"
	"skillarena/internal/api/middleware"
	"skillarena/internal/app/service"
	"skillarena/internal/common/security"
	"skillarena/internal/domain/model"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

type Dependencies struct {
	Logger              *slog.Logger
	Sessions            *security.SessionManager
	AuthService         *service.AuthService
	ProfileService      *service.ProfileService
	GamificationService *service.GamificationService
	UploadService       *service.UploadService
	CatalogService      *service.CatalogService
	StaticDir           string
}

func NewRouter(d Dependencies) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	// Session token from the cookie or "Authorization: Bearer T"; the
	// result is read by Authenticator, PageGate and the request logger.
	r.Use(d.Sessions.Verifier())
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// API v1 Routes
	r.Route("/api/v1", func(v1 chi.Router) {
		authHandler := handler.NewAuthHandler(d.AuthService, d.Sessions, d.Logger)
		v1.Group(authHandler.RegisterRoutes)

		catalogHandler := handler.NewCatalogHandler(d.CatalogService)
		v1.Group(catalogHandler.RegisterRoutes)

		v1.Group(func(authed chi.Router) {
			authed.Use(middleware.Authenticator)

			profileHandler := handler.NewProfileHandler(d.ProfileService, d.Logger)
			profileHandler.RegisterRoutes(authed)

			gamificationHandler := handler.NewGamificationHandler(d.GamificationService, d.Logger)
			authed.Route("/gamification", gamificationHandler.RegisterRoutes)

			uploadHandler := handler.NewUploadHandler(d.UploadService, d.Logger)
			authed.With(middleware.RequireRoles(model.Roles...)).Route("/uploads", uploadHandler.RegisterRoutes)
		})
	})

	// Pages
	pages := handler.NewPageHandler(d.StaticDir)
	r.Group(func(web chi.Router) {
		web.Use(middleware.PageGate)
		web.Group(func(clientOnly chi.Router) {
			clientOnly.Use(middleware.PageRoleGate(middleware.DashboardPath, model.RoleClient))
			clientOnly.Handle("/contests/create", pages)
			clientOnly.Handle("/contests/create/*", pages)
		})
		web.Handle("/*", pages)
	})

	return r
}
