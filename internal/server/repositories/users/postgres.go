package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/innovatepam/ideatracker/internal/common"
	"github.com/innovatepam/ideatracker/internal/dbx"
	"github.com/innovatepam/ideatracker/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Identity, error) {
	query :=
		`SELECT u.id, u.email, u.password_hash, u.locked, u.locked_until, u.created_at, r.id, r.name
		 FROM users u
		 JOIN roles r ON r.id = u.role_id
		 WHERE u.email = $1
		 `

	identity := &models.Identity{}
	var locked bool
	var until sql.NullTime

	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&identity.ID, &identity.Email, &identity.PasswordHash,
		&locked, &until, &identity.CreatedAt,
		&identity.Role.ID, &identity.Role.Name,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	identity.Lock = models.LockState{Locked: locked}
	if until.Valid {
		t := until.Time
		identity.Lock.Until = &t
	}

	return identity, nil
}

func (r *PostgresRepository) SaveLockState(ctx context.Context, identity *models.Identity) error {
	query :=
		`UPDATE users SET locked = $2, locked_until = $3
		 WHERE id = $1
		 `

	var until sql.NullTime
	if identity.Lock.Until != nil {
		until = sql.NullTime{Time: *identity.Lock.Until, Valid: true}
	}

	res, err := r.db.ExecContext(ctx, query, identity.ID, identity.Lock.Locked, until)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) Create(ctx context.Context, identity *models.Identity) (*models.Identity, error) {
	query :=
		`INSERT INTO users (id, email, password_hash, role_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at
		 `

	if identity.ID == "" {
		identity.ID = uuid.NewString()
	}

	err := r.db.QueryRowContext(ctx, query,
		identity.ID, identity.Email, identity.PasswordHash, identity.Role.ID).Scan(&identity.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrEmailTaken
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return identity, nil
}

func (r *PostgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}
