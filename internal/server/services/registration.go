package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/innovatepam/ideatracker/internal/common"
	"github.com/innovatepam/ideatracker/internal/dbx"
	"github.com/innovatepam/ideatracker/internal/logging"
	"github.com/innovatepam/ideatracker/internal/server/auth"
	"github.com/innovatepam/ideatracker/internal/server/models"
	"github.com/innovatepam/ideatracker/internal/server/repositories/repomanager"
)

// MinPasswordLength applies to the trimmed password.
const MinPasswordLength = 8

// RegistrationService creates identities and signs them in.
type RegistrationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenManager
	hasher      *auth.PasswordHasher
	log         logging.Logger
}

func NewRegistrationService(
	db *sql.DB,
	m repomanager.RepositoryManager,
	tokens *auth.TokenManager,
	hasher *auth.PasswordHasher,
	log logging.Logger,
) *RegistrationService {
	if log == nil {
		log = logging.Nop{}
	}
	return &RegistrationService{
		db:          db,
		repomanager: m,
		tokens:      tokens,
		hasher:      hasher,
		log:         log.With("module", "registration"),
	}
}

// Register validates the input, stores a new unlocked identity with the named
// role and returns a token for it. A taken email is ErrEmailTaken, an unknown
// role ErrInvalidRole, bad input ErrValidation.
func (s *RegistrationService) Register(ctx context.Context, email, password, role string) (*LoginResult, error) {
	email = NormalizeEmail(email)
	password = strings.TrimSpace(password)
	role = strings.ToLower(strings.TrimSpace(role))

	if err := validateRegistration(email, password, role); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var identity *models.Identity
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		users := s.repomanager.Users(tx)

		exists, err := users.ExistsByEmail(ctx, email)
		if err != nil {
			return common.StoreError("check email", err)
		}
		if exists {
			return common.ErrEmailTaken
		}

		r, err := s.repomanager.Roles(tx).GetByName(ctx, role)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return fmt.Errorf("%w: %q", common.ErrInvalidRole, role)
			}
			return common.StoreError("lookup role", err)
		}

		identity, err = users.Create(ctx, &models.Identity{
			Email:        email,
			PasswordHash: hash,
			Role:         *r,
		})
		if err != nil {
			if errors.Is(err, common.ErrEmailTaken) {
				return err
			}
			return common.StoreError("create identity", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrEmailTaken) || errors.Is(err, common.ErrInvalidRole) ||
			errors.Is(err, common.ErrStoreUnavailable) {
			return nil, err
		}
		return nil, common.StoreError("register", err)
	}

	s.log.Info(ctx, "identity registered", "id", identity.ID, "role", identity.Role.Name)

	return issueResult(s.tokens, identity)
}

func validateRegistration(email, password, role string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", common.ErrValidation)
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return fmt.Errorf("%w: invalid email format", common.ErrValidation)
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrValidation, MinPasswordLength)
	}
	if role == "" {
		return fmt.Errorf("%w: role is required", common.ErrValidation)
	}
	return nil
}
