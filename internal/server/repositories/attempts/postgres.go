package attempts

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/innovatepam/ideatracker/internal/dbx"
	"github.com/innovatepam/ideatracker/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, attempt *models.AttemptRecord) (*models.AttemptRecord, error) {
	query :=
		`INSERT INTO authentication_attempts (id, email, attempt_time, success, ip_address)
		 VALUES ($1, $2, $3, $4, $5)
		 `

	if attempt.ID == "" {
		attempt.ID = uuid.NewString()
	}

	origin := sql.NullString{String: attempt.Origin, Valid: attempt.Origin != ""}

	if _, err := r.db.ExecContext(ctx, query,
		attempt.ID, attempt.Email, attempt.AttemptedAt, attempt.Success, origin); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return attempt, nil
}

func (r *PostgresRepository) CountFailuresSince(ctx context.Context, email string, since time.Time) (int, error) {
	query :=
		`SELECT COUNT(*) FROM authentication_attempts
		 WHERE email = $1 AND success = FALSE AND attempt_time > $2
		 `

	var n int
	if err := r.db.QueryRowContext(ctx, query, email, since).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return n, nil
}

func (r *PostgresRepository) ListRecent(ctx context.Context, email string, limit int) ([]models.AttemptRecord, error) {
	query :=
		`SELECT id, email, attempt_time, success, COALESCE(ip_address, '')
		 FROM authentication_attempts
		 WHERE email = $1
		 ORDER BY attempt_time DESC
		 LIMIT $2
		 `

	rows, err := r.db.QueryContext(ctx, query, email, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.AttemptRecord, 0)
	for rows.Next() {
		var a models.AttemptRecord
		if err := rows.Scan(&a.ID, &a.Email, &a.AttemptedAt, &a.Success, &a.Origin); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
