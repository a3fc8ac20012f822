// Package httpapi exposes login, registration and token-protected views over
// HTTP using a chi router.
package httpapi

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/innovatepam/ideatracker/internal/logging"
	"github.com/innovatepam/ideatracker/internal/server/auth"
	"github.com/innovatepam/ideatracker/internal/server/authz"
	"github.com/innovatepam/ideatracker/internal/server/models"
	"github.com/innovatepam/ideatracker/internal/server/services"
)

const (
	maxBodyBytes        = 1 << 20
	defaultAttemptLimit = 20
	maxAttemptLimit     = 100
)

type Authenticator interface {
	Login(ctx context.Context, email, password, origin string) (*services.LoginResult, error)
	Verify(token string) (*auth.Principal, error)
	RecentAttempts(ctx context.Context, email string, limit int) ([]models.AttemptRecord, error)
}

type Registrar interface {
	Register(ctx context.Context, email, password, role string) (*services.LoginResult, error)
}

type Handler struct {
	auth       Authenticator
	registrar  Registrar
	authorizer *authz.Authorizer
	logger     logging.Logger
}

func NewHandler(a Authenticator, r Registrar, z *authz.Authorizer, l logging.Logger) *Handler {
	if l == nil {
		l = logging.Nop{}
	}
	return &Handler{auth: a, registrar: r, authorizer: z, logger: l.With("module", "http")}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type authResponse struct {
	Token     string `json:"token"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	UserID    string `json:"userId"`
	ExpiresIn int64  `json:"expiresIn"`
}

type meResponse struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Authority string    `json:"authority"`
	IssuedAt  time.Time `json:"issuedAt"`
}

type attemptResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	AttemptedAt time.Time `json:"attemptedAt"`
	Success     bool      `json:"success"`
	Origin      string    `json:"origin,omitempty"`
}

func toAuthResponse(res *services.LoginResult) authResponse {
	return authResponse{
		Token:     res.Token,
		Email:     res.Email,
		Role:      res.Role,
		UserID:    res.IdentityID,
		ExpiresIn: res.ExpiresIn,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}

	res, err := h.auth.Login(r.Context(), req.Email, req.Password, clientIP(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toAuthResponse(res))
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decode(w, r, &req) {
		return
	}

	res, err := h.registrar.Register(r.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAuthResponse(res))
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "missing token"})
		return
	}

	writeJSON(w, http.StatusOK, meResponse{
		UserID:    p.UserID,
		Email:     p.Email,
		Role:      p.Role,
		Authority: p.Authority(),
		IssuedAt:  p.IssuedAt.UTC(),
	})
}

// Attempts lists the newest ledger records for ?email=, at most ?limit=.
func (h *Handler) Attempts(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "email is required"})
		return
	}

	limit := defaultAttemptLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "limit must be a positive integer"})
			return
		}
		limit = min(n, maxAttemptLimit)
	}

	records, err := h.auth.RecentAttempts(r.Context(), email, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := make([]attemptResponse, 0, len(records))
	for _, a := range records {
		out = append(out, attemptResponse{
			ID:          a.ID,
			Email:       a.Email,
			AttemptedAt: a.AttemptedAt.UTC(),
			Success:     a.Success,
			Origin:      a.Origin,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed request body"})
		return false
	}
	return true
}

// clientIP is the remote host after middleware.RealIP has run.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
