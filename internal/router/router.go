// Package router sets up all HTTP routes and middleware chains for the
// DevMastery API. Public reads are open to everyone; writes live under
// /api/admin behind an admin API key and a rate limiter.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"devmastery/internal/handlers"
	"devmastery/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(resolver middleware.KeyResolver, limiter *middleware.RateLimiter, admin *handlers.Admin, public *handlers.Public) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadUser(resolver))

	r.NotFound(notFoundHandler)
	r.MethodNotAllowed(methodNotAllowedHandler)

	r.Get("/health", healthHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/topics", func(r chi.Router) {
			r.Get("/", public.Topics)
			r.Get("/{topicSlug}", public.TopicPage)
			r.Get("/{topicSlug}/{subTopicSlug}", public.SubTopicPage)
		})

		r.Get("/blogs", public.Blogs)
		r.Get("/blogs/{id}", public.Blog)
		r.Get("/notes", public.Notes)
		r.Get("/notes/{id}", public.Note)
		r.Get("/leetcode", public.Problems)
		r.Get("/leetcode/{id}", public.Problem)

		// Admin writes: require an admin key, rate-limited per client IP.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			if limiter != nil {
				r.Use(limiter.Middleware)
			}

			r.Post("/topics", admin.CreateTopic)
			r.Post("/topics/{topicSlug}/subtopics", admin.CreateSubTopic)
			r.Post("/blogs", admin.CreateBlog)
			r.Post("/notes", admin.CreateNote)
			r.Post("/leetcode", admin.CreateProblem)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":"Not Found"}`))
}

func methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMethodNotAllowed)
	w.Write([]byte(`{"error":"Method Not Allowed"}`))
}
