package conversations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/repsphere/internal/client/models"
	"github.com/dmitrijs2005/repsphere/internal/common"
	"github.com/dmitrijs2005/repsphere/internal/dbx"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts c. CreatedAt and UpdatedAt are filled from the database.
func (r *PostgresRepository) Create(ctx context.Context, c *models.Conversation) error {
	query := `
		INSERT INTO conversations (id, user_id, filename, file_url, file_size, meeting_type, approach, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		c.ID, c.UserID, c.Filename, c.FileURL, c.FileSize, c.MeetingType, c.Approach, string(c.Status),
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert conversation: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status models.ConversationStatus, message string) error {
	query := `UPDATE conversations SET status = $2, error_message = $3, updated_at = now() WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, string(status), message)
	if err != nil {
		return fmt.Errorf("failed to update conversation status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Conversation, error) {
	query := `
		SELECT id, user_id, filename, file_url, file_size, meeting_type, approach, status, error_message, created_at, updated_at
		FROM conversations WHERE id = $1`

	c := &models.Conversation{}
	var status string
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.UserID, &c.Filename, &c.FileURL, &c.FileSize, &c.MeetingType, &c.Approach,
		&status, &c.ErrorMessage, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select conversation: %w", err)
	}
	c.Status = models.ConversationStatus(status)
	return c, nil
}
