package router

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/talkboard-dev/talkboard/internal/middleware/metrics"
	"github.com/talkboard-dev/talkboard/internal/setup"
)

// New creates and configures the chi router with all the routes.
func New(deps *setup.Dependencies) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(metrics.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Public.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	h := deps.Handler
	authMw := deps.AuthMiddleware

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		// Public read surface
		r.Get("/boards", h.ListBoards)
		r.Get("/boards/{board}", h.GetBoard)
		r.Get("/boards/{board}/threads", h.ListThreads)
		r.Get("/threads/{thread}", h.GetThread)
		r.Get("/threads/{thread}/answers", h.ListAnswers)
		r.Get("/answers/{answer}", h.GetAnswer)

		// Member writes
		r.Group(func(r chi.Router) {
			r.Use(authMw.NeedAuth())
			r.Post("/boards/{board}/threads", h.CreateThread)
			r.Put("/threads/{thread}", h.EditThread)
			r.Post("/threads/{thread}/answers", h.CreateAnswer)
			r.Put("/answers/{answer}", h.EditAnswer)
			r.Post("/threads/{thread}/like", h.ToggleThreadLike)
			r.Post("/answers/{answer}/like", h.ToggleAnswerLike)
		})

		// Moderator surface
		r.Group(func(r chi.Router) {
			r.Use(authMw.ModeratorOnly())
			r.Post("/boards", h.CreateBoard)
			r.Put("/boards/{board}", h.EditBoard)
			r.Delete("/boards/{board}", h.DeleteBoard)
			r.Put("/threads/{thread}/admin", h.AdminEditThread)
			r.Delete("/threads/{thread}", h.DeleteThread)
			r.Delete("/answers/{answer}", h.DeleteAnswer)
		})
	})

	return r
}
