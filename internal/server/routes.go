package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(s.rateLimit)
	r.Use(s.metricsMiddleware)

	r.Get("/health", s.healthHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", s.loginHandler)
		r.Post("/register", s.registerHandler)
		r.Post("/logout", s.logoutHandler)
		r.Get("/me", s.meHandler)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.requireUser)

		r.Route("/todos", func(r chi.Router) {
			r.Get("/", s.listTodosHandler)
			r.Post("/", s.createTodoHandler)
			r.Get("/{id}", s.getTodoHandler)
			r.Put("/{id}", s.updateTodoHandler)
			r.Delete("/{id}", s.deleteTodoHandler)
			r.Patch("/{id}/toggle", s.toggleTodoHandler)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", s.listCategoriesHandler)
			r.Post("/", s.createCategoryHandler)
			r.Get("/{id}", s.getCategoryHandler)
			r.Put("/{id}", s.updateCategoryHandler)
			r.Delete("/{id}", s.deleteCategoryHandler)
		})

		r.Route("/stats", func(r chi.Router) {
			r.Get("/overview", s.statsOverviewHandler)
			r.Get("/categories", s.statsCategoriesHandler)
			r.Get("/trends", s.statsTrendsHandler)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/", s.listReportsHandler)
			r.Post("/", s.generateReportHandler)
			r.Post("/generate", s.generateReportHandler)
			r.Post("/save", s.saveReportHandler)
			r.Get("/export", s.exportReportHandler)
			r.Get("/{id}", s.getReportHandler)
			r.Patch("/{id}", s.patchReportHandler)
			r.Delete("/{id}", s.deleteReportHandler)
		})
	})

	return r
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	healthStats := s.db.Health()
	if status, ok := healthStats["status"]; ok && status == "down" {
		respondWithJSON(w, http.StatusServiceUnavailable, healthStats)
		return
	}
	respondWithJSON(w, http.StatusOK, healthStats)
}
