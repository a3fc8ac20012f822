package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/innovatepam/ideatracker/internal/common"
)

type errorBody struct {
	Error       string     `json:"error"`
	LockedUntil *time.Time `json:"lockedUntil,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps a service error onto an HTTP status and a client-safe body.
func statusFor(err error) (int, errorBody) {
	var locked *common.AccountLockedError
	switch {
	case errors.As(err, &locked):
		until := locked.Until.UTC()
		return http.StatusForbidden, errorBody{Error: locked.Error(), LockedUntil: &until}
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorBody{Error: common.ErrInvalidCredentials.Error()}
	case errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, errorBody{Error: common.ErrInvalidToken.Error()}
	case errors.Is(err, common.ErrEmailTaken):
		return http.StatusConflict, errorBody{Error: common.ErrEmailTaken.Error()}
	case errors.Is(err, common.ErrValidation), errors.Is(err, common.ErrInvalidRole):
		return http.StatusBadRequest, errorBody{Error: err.Error()}
	case errors.Is(err, common.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, errorBody{Error: "service temporarily unavailable"}
	default:
		return http.StatusInternalServerError, errorBody{Error: "internal error"}
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, body)
}
