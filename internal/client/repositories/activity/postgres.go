package activity

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/repsphere/internal/client/models"
	"github.com/dmitrijs2005/repsphere/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create appends a. A zero CreatedAt is left to the database default.
func (r *PostgresRepository) Create(ctx context.Context, a *models.Activity) error {
	query := `
		INSERT INTO activity_log (id, user_id, action, result, conversation_id, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, now()))`

	var createdAt any
	if !a.CreatedAt.IsZero() {
		createdAt = a.CreatedAt
	}

	if _, err := r.db.ExecContext(ctx, query, a.ID, a.UserID, a.Action, a.Result, a.ConversationID, a.Detail, createdAt); err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}
	return nil
}
