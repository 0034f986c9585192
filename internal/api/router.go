package api

import (
	"net/http"

	"github.com/amine/notehub/internal/api/handlers"
	"github.com/amine/notehub/internal/api/middleware"
	"github.com/amine/notehub/internal/notify"
	"github.com/amine/notehub/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(services *service.Services, hub *notify.Hub) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth)
	noteHandler := handlers.NewNoteHandler(services.Note)
	tagHandler := handlers.NewTagHandler(services.Tag)
	categoryHandler := handlers.NewCategoryHandler(services.Category)
	userHandler := handlers.NewUserHandler(services.User)
	wsHandler := handlers.NewWebSocketHandler(hub, services.Auth)

	requireAccess := middleware.Auth(services.Auth)
	requireRefresh := middleware.RefreshAuth(services.Auth)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(requireRefresh)
			r.Post("/refresh", authHandler.Refresh)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAccess)
			r.Get("/profile", authHandler.Profile)
			r.Post("/logout", authHandler.Logout)
		})
	})

	r.Route("/api", func(r chi.Router) {
		// Reminder event stream; authenticates via query token.
		r.Get("/ws", wsHandler.Handle)

		r.Group(func(r chi.Router) {
			r.Use(requireAccess)

			r.Route("/notes", func(r chi.Router) {
				r.Post("/", noteHandler.Create)
				r.Get("/", noteHandler.List)
				r.Get("/search", noteHandler.List)
				r.Get("/reminders", noteHandler.Reminders)
				r.Get("/count", noteHandler.Count)
				r.Get("/{id}", noteHandler.Get)
				r.Put("/{id}", noteHandler.Update)
				r.Delete("/{id}", noteHandler.Delete)
				r.Patch("/{id}/archive", noteHandler.Archive)
				r.Patch("/{id}/trash", noteHandler.Trash)
				r.Patch("/{id}/restore", noteHandler.Restore)
			})

			r.Route("/tags", func(r chi.Router) {
				r.Get("/", tagHandler.GetAll)
				r.Post("/", tagHandler.Create)
				r.Put("/{id}", tagHandler.Update)
				r.Delete("/{id}", tagHandler.Delete)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", categoryHandler.GetAll)
				r.Post("/", categoryHandler.Create)
				r.Put("/{id}", categoryHandler.Update)
				r.Delete("/{id}", categoryHandler.Delete)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", userHandler.GetAll)
				r.Get("/{id}", userHandler.Get)
				r.Put("/{id}", userHandler.Update)
				r.Delete("/{id}", userHandler.Delete)
			})
		})
	})

	return r
}
