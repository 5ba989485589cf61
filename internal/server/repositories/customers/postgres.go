package customers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/repsphere/internal/common"
	"github.com/dmitrijs2005/repsphere/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) UserID(ctx context.Context, customerID string) (string, error) {
	query :=
		`SELECT user_id FROM stripe_customers
		 WHERE customer_id = $1
		 `

	var userID string
	if err := r.db.QueryRowContext(ctx, query, customerID).Scan(&userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return userID, nil
}

func (r *PostgresRepository) Link(ctx context.Context, customerID, userID string) error {
	query :=
		`INSERT INTO stripe_customers (customer_id, user_id)
		 VALUES ($1, $2)
		 ON CONFLICT (customer_id) DO UPDATE SET user_id = EXCLUDED.user_id
		 `

	if _, err := r.db.ExecContext(ctx, query, customerID, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
