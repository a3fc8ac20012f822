package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/innovatepam/ideatracker/internal/common"
	"github.com/innovatepam/ideatracker/internal/logging"
	"github.com/innovatepam/ideatracker/internal/server/auth"
)

// RequestLogger logs method, path, status and duration. Bodies and headers
// are never logged.
func RequestLogger(l logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				l.Info(r.Context(), "HTTP request",
					"request_id", middleware.GetReqID(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"duration", time.Since(start),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

// Authenticate verifies the bearer token and stores the principal on the
// request context.
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := auth.BearerToken(r.Header.Get(common.AuthorizationHeaderName))
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "missing token"})
			return
		}

		p, err := h.auth.Verify(token)
		if err != nil {
			h.writeError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), *p)))
	})
}

// RequirePermission lets the request through when the principal's authority
// may perform action on object.
func (h *Handler) RequirePermission(object, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := auth.PrincipalFromContext(r.Context())
			if !ok {
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: "missing token"})
				return
			}

			allowed, err := h.authorizer.Allow(p.Authority(), object, action)
			if err != nil {
				h.writeError(w, r, err)
				return
			}
			if !allowed {
				writeJSON(w, http.StatusForbidden, errorBody{Error: "forbidden"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
