// Package services contains server-side business logic: credential
// verification with brute-force lockout, and registration.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/innovatepam/ideatracker/internal/common"
	"github.com/innovatepam/ideatracker/internal/logging"
	"github.com/innovatepam/ideatracker/internal/server/auth"
	"github.com/innovatepam/ideatracker/internal/server/lockout"
	"github.com/innovatepam/ideatracker/internal/server/models"
	"github.com/innovatepam/ideatracker/internal/server/repositories/repomanager"
	usersrepo "github.com/innovatepam/ideatracker/internal/server/repositories/users"
)

// LoginResult is returned by a successful login or registration.
type LoginResult struct {
	Token      string
	IdentityID string
	Email      string
	Role       string
	// ExpiresIn is the token validity in whole seconds.
	ExpiresIn int64
}

// NormalizeEmail is the single form used for lookups, uniqueness and ledger
// keys.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AuthService verifies credentials, applies the lockout policy and issues
// tokens.
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenManager
	hasher      *auth.PasswordHasher
	policy      lockout.Policy
	log         logging.Logger
	now         func() time.Time
}

func NewAuthService(
	db *sql.DB,
	m repomanager.RepositoryManager,
	tokens *auth.TokenManager,
	hasher *auth.PasswordHasher,
	policy lockout.Policy,
	log logging.Logger,
) *AuthService {
	if log == nil {
		log = logging.Nop{}
	}
	return &AuthService{
		db:          db,
		repomanager: m,
		tokens:      tokens,
		hasher:      hasher,
		policy:      policy,
		log:         log.With("module", "auth"),
		now:         time.Now,
	}
}

func (s *AuthService) ledger() *lockout.Ledger {
	return lockout.NewLedger(s.repomanager.Attempts(s.db), s.policy.Window, s.now)
}

// Login authenticates email/password. Every call leaves exactly one ledger
// record. Failures are ErrInvalidCredentials, *AccountLockedError or an
// error matching ErrStoreUnavailable.
func (s *AuthService) Login(ctx context.Context, email, password, origin string) (*LoginResult, error) {
	email = NormalizeEmail(email)
	users := s.repomanager.Users(s.db)
	ledger := s.ledger()

	identity, err := users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, common.StoreError("lookup identity", err)
		}
		s.hasher.CompareDummy(password)
		if err := ledger.RecordRejection(ctx, email, origin); err != nil {
			return nil, common.StoreError("record attempt", err)
		}
		s.log.Debug(ctx, "login rejected", "reason", "invalid_credentials")
		return nil, common.ErrInvalidCredentials
	}

	now := s.now()
	if identity.Lock.IsEffectivelyLocked(now) {
		if err := ledger.RecordRejection(ctx, email, origin); err != nil {
			return nil, common.StoreError("record attempt", err)
		}
		s.log.Debug(ctx, "login rejected", "reason", "locked")
		return nil, &common.AccountLockedError{Until: *identity.Lock.Until}
	}

	if !s.hasher.Compare(identity.PasswordHash, password) {
		return nil, s.rejectPassword(ctx, users, ledger, identity, origin, now)
	}

	identity.Lock = identity.Lock.Unlock()
	if err := users.SaveLockState(ctx, identity); err != nil {
		return nil, common.StoreError("save lock state", err)
	}
	if err := ledger.RecordSuccess(ctx, email, origin); err != nil {
		return nil, common.StoreError("record attempt", err)
	}

	return issueResult(s.tokens, identity)
}

func (s *AuthService) rejectPassword(
	ctx context.Context,
	users usersrepo.Repository,
	ledger *lockout.Ledger,
	identity *models.Identity,
	origin string,
	now time.Time,
) error {
	// Rejections made while a previous lock was in force do not count.
	var floor time.Time
	if identity.Lock.Until != nil {
		floor = *identity.Lock.Until
	}

	failures, err := ledger.RecordFailureAfter(ctx, identity.Email, origin, floor)
	if err != nil {
		return common.StoreError("record attempt", err)
	}

	if !s.policy.ShouldLock(failures) {
		s.log.Debug(ctx, "login rejected", "reason", "invalid_credentials")
		return common.ErrInvalidCredentials
	}

	identity.Lock = identity.Lock.Lock(now, s.policy.LockDuration)
	if err := users.SaveLockState(ctx, identity); err != nil {
		return common.StoreError("save lock state", err)
	}

	s.log.Warn(ctx, "account locked",
		"email", identity.Email,
		"failures", failures,
		"until", identity.Lock.Until.UTC().Format(time.RFC3339))

	return &common.AccountLockedError{Until: *identity.Lock.Until}
}

func issueResult(tokens *auth.TokenManager, identity *models.Identity) (*LoginResult, error) {
	token, err := tokens.Issue(identity)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResult{
		Token:      token,
		IdentityID: identity.ID,
		Email:      identity.Email,
		Role:       identity.Role.Name,
		ExpiresIn:  int64(tokens.Lifetime() / time.Second),
	}, nil
}

// Verify checks a bearer token.
func (s *AuthService) Verify(token string) (*auth.Principal, error) {
	return s.tokens.Verify(token)
}

// RecentAttempts lists the newest ledger records for email.
func (s *AuthService) RecentAttempts(ctx context.Context, email string, limit int) ([]models.AttemptRecord, error) {
	records, err := s.ledger().Recent(ctx, NormalizeEmail(email), limit)
	if err != nil {
		return nil, common.StoreError("list attempts", err)
	}
	return records, nil
}
