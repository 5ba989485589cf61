package limits

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/repsphere/internal/common"
	"github.com/dmitrijs2005/repsphere/internal/dbx"
	"github.com/dmitrijs2005/repsphere/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*models.UserLimits, error) {
	query :=
		`SELECT user_id, tier, quota, max_file_mb, reset_date FROM user_limits
		 WHERE user_id = $1
		 `

	l := &models.UserLimits{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&l.UserID, &l.Tier, &l.Quota, &l.MaxFileMB, &l.ResetDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return l, nil
}

func (r *PostgresRepository) Create(ctx context.Context, l *models.UserLimits) (*models.UserLimits, error) {
	query :=
		`INSERT INTO user_limits (user_id, tier, quota, max_file_mb, reset_date)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id) DO NOTHING
		 `

	if _, err := r.db.ExecContext(ctx, query, l.UserID, l.Tier, l.Quota, l.MaxFileMB, l.ResetDate); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return r.Get(ctx, l.UserID)
}

func (r *PostgresRepository) UpdateResetDate(ctx context.Context, userID string, resetDate time.Time) error {
	query :=
		`UPDATE user_limits SET reset_date = $2
		 WHERE user_id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, userID, resetDate)
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

func (r *PostgresRepository) Upsert(ctx context.Context, l *models.UserLimits) error {
	query :=
		`INSERT INTO user_limits (user_id, tier, quota, max_file_mb, reset_date)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id) DO UPDATE SET
		   tier = EXCLUDED.tier,
		   quota = EXCLUDED.quota,
		   max_file_mb = EXCLUDED.max_file_mb,
		   reset_date = EXCLUDED.reset_date
		 `

	if _, err := r.db.ExecContext(ctx, query, l.UserID, l.Tier, l.Quota, l.MaxFileMB, l.ResetDate); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
