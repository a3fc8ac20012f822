package auth

import (
	"context"
	"strings"

	"github.com/innovatepam/ideatracker/internal/common"
)

type principalContextKey struct{}

// WithPrincipal stores the verified principal on the context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext returns the principal placed by an authentication layer.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(Principal)
	return p, ok
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// value. The scheme is matched case-insensitively.
func BearerToken(header string) (string, bool) {
	n := len(common.BearerPrefix)
	if len(header) < n || !strings.EqualFold(header[:n], common.BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[n:])
	return token, token != ""
}
