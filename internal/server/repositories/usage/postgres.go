package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/repsphere/internal/dbx"
	"github.com/dmitrijs2005/repsphere/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Log stores u, assigning an id when it has none.
func (r *PostgresRepository) Log(ctx context.Context, u *models.UsageLog) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO usage_logs (id, user_id, filename, created_at)
		 VALUES ($1, $2, $3, $4)
		 `

	if _, err := r.db.ExecContext(ctx, query, u.ID, u.UserID, u.Filename, u.CreatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) CountSince(ctx context.Context, userID string, since time.Time) (int, error) {
	query :=
		`SELECT count(*) FROM usage_logs
		 WHERE user_id = $1 AND created_at >= $2
		 `

	var n int
	if err := r.db.QueryRowContext(ctx, query, userID, since).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
