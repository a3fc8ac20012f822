// Package auth issues and verifies bearer tokens, hashes passwords and maps
// role names onto authorization authorities.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/innovatepam/ideatracker/internal/common"
	"github.com/innovatepam/ideatracker/internal/server/models"
)

// Claims is the signed claim set: the standard sub/iat/exp plus the identity id
// and role name.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
	Role   string `json:"role"`
}

// Principal is what a verified token asserts about its bearer.
type Principal struct {
	UserID   string
	Email    string
	Role     string
	IssuedAt time.Time
}

// Authority is the canonical authorization token for the principal's role.
func (p Principal) Authority() string {
	return CanonicalizeRole(p.Role)
}

// TokenManager signs and verifies HS256 tokens. Key and lifetime are fixed at
// construction.
type TokenManager struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

func NewTokenManager(secretKey []byte, lifetime time.Duration) *TokenManager {
	key := make([]byte, len(secretKey))
	copy(key, secretKey)
	return &TokenManager{secret: key, lifetime: lifetime, now: time.Now}
}

// Lifetime is the validity of tokens produced by Issue.
func (m *TokenManager) Lifetime() time.Duration {
	return m.lifetime
}

// Issue returns a signed token for identity, valid from now for Lifetime.
func (m *TokenManager) Issue(identity *models.Identity) (string, error) {
	if identity == nil {
		return "", errors.New("issue token: nil identity")
	}
	now := m.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.lifetime)),
		},
		UserID: identity.ID,
		Role:   identity.Role.Name,
	})

	return token.SignedString(m.secret)
}

// Verify checks signature and expiry and returns the embedded principal.
// Every failure, whatever its cause, is reported as common.ErrInvalidToken.
func (m *TokenManager) Verify(tokenString string) (*Principal, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidToken
	}

	if claims.Subject == "" || claims.UserID == "" || claims.IssuedAt == nil {
		return nil, common.ErrInvalidToken
	}

	return &Principal{
		UserID:   claims.UserID,
		Email:    claims.Subject,
		Role:     claims.Role,
		IssuedAt: claims.IssuedAt.Time,
	}, nil
}
