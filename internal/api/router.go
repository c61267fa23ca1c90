package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"

	"github.com/aide-studio/engine/internal/api/handlers"
	mw "github.com/aide-studio/engine/internal/api/middleware"
)

type Dependencies struct {
	ProjectsHandler   *handlers.ProjectsHandler
	FilesHandler      *handlers.FilesHandler
	ChatHandler       *handlers.ChatHandler
	OpenRouterHandler *handlers.OpenRouterHandler
	// EventsHandler is optional; without it /api/events is not mounted.
	EventsHandler *handlers.EventsHandler

	RateLimitRPS   float64
	RateLimitBurst int
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()

	// Built-in middleware
	r.Use(mw.RequestID)
	r.Use(mw.Recovery)
	r.Use(mw.Logging)
	r.Use(mw.CORS)
	r.Use(mw.RateLimit(dep.RateLimitRPS, dep.RateLimitBurst))
	r.Use(chimid.Compress(5, "application/json"))

	// Health endpoints
	hh := handlers.NewHealthHandler()
	r.Get("/healthz", hh.Liveness)
	r.Get("/readyz", hh.Readiness)

	r.Route("/api", func(api chi.Router) {
		api.Route("/projects", func(pr chi.Router) {
			pr.Get("/", dep.ProjectsHandler.List)
			pr.Post("/", dep.ProjectsHandler.Create)
			pr.Get("/{id}", dep.ProjectsHandler.Get)
			pr.Patch("/{id}", dep.ProjectsHandler.Update)
			pr.Delete("/{id}", dep.ProjectsHandler.Delete)

			pr.Get("/{projectId}/files", dep.FilesHandler.ListByProject)
			pr.Get("/{projectId}/tree", dep.FilesHandler.Tree)
			pr.Get("/{projectId}/chat/{mode}", dep.ChatHandler.History)
		})

		api.Route("/files", func(fr chi.Router) {
			fr.Post("/", dep.FilesHandler.Create)
			fr.Get("/{id}", dep.FilesHandler.Get)
			fr.Patch("/{id}", dep.FilesHandler.Update)
			fr.Delete("/{id}", dep.FilesHandler.Delete)
		})

		api.Post("/chat", dep.ChatHandler.Post)

		api.Route("/openrouter", func(or chi.Router) {
			or.Get("/config", dep.OpenRouterHandler.GetConfig)
			or.Patch("/config", dep.OpenRouterHandler.UpdateConfig)
			or.Post("/chat", dep.OpenRouterHandler.Chat)
			or.Get("/models", dep.OpenRouterHandler.Models)
		})

		if dep.EventsHandler != nil {
			api.Get("/events", dep.EventsHandler.Stream)
		}
	})

	return r
}
