package analyses

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/repsphere/internal/client/models"
	"github.com/dmitrijs2005/repsphere/internal/common"
	"github.com/dmitrijs2005/repsphere/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, a *models.BehavioralAnalysis) error {
	query := `INSERT INTO behavioral_analyses (id, conversation_id, result) VALUES ($1, $2, $3) RETURNING created_at`

	if err := r.db.QueryRowContext(ctx, query, a.ID, a.ConversationID, a.Result).Scan(&a.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert analysis: %w", err)
	}
	return nil
}

// GetLatest returns the most recent analysis stored for a conversation.
func (r *PostgresRepository) GetLatest(ctx context.Context, conversationID string) (*models.BehavioralAnalysis, error) {
	query := `
		SELECT id, conversation_id, result, created_at FROM behavioral_analyses
		WHERE conversation_id = $1 ORDER BY created_at DESC LIMIT 1`

	a := &models.BehavioralAnalysis{}
	err := r.db.QueryRowContext(ctx, query, conversationID).Scan(&a.ID, &a.ConversationID, &a.Result, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select analysis: %w", err)
	}
	return a, nil
}
