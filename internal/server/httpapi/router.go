package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/innovatepam/ideatracker/internal/server/authz"
)

// NewRouter wires the middleware stack and routes. requestTimeout bounds each
// request's context.
func NewRouter(h *Handler, requestTimeout time.Duration) chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(RequestLogger(h.logger))
	router.Use(middleware.Recoverer)
	if requestTimeout > 0 {
		router.Use(middleware.Timeout(requestTimeout))
	}

	router.Get("/health", h.Health)

	router.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(h.Authenticate)
			r.With(h.RequirePermission(authz.ObjectProfile, authz.ActionRead)).Get("/me", h.Me)
			r.With(h.RequirePermission(authz.ObjectAttempts, authz.ActionRead)).Get("/attempts", h.Attempts)
		})
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "endpoint not found"})
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method not allowed"})
	})

	return router
}
