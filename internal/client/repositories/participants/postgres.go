package participants

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

func (r *PostgresRepository) Create(ctx context.Context, p *models.Participant) error {
	query := `INSERT INTO participants (id, conversation_id, name, role, profile) VALUES ($1, $2, $3, $4, $5)`

	var profile any
	if len(p.Profile) > 0 {
		profile = p.Profile
	}

	if _, err := r.db.ExecContext(ctx, query, p.ID, p.ConversationID, p.Name, p.Role, profile); err != nil {
		return fmt.Errorf("failed to insert participant: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByConversation(ctx context.Context, conversationID string) ([]*models.Participant, error) {
	query := `SELECT id, conversation_id, name, role, profile FROM participants WHERE conversation_id = $1 ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to select participants: %w", err)
	}
	defer rows.Close()

	var result []*models.Participant
	for rows.Next() {
		p := &models.Participant{}
		if err := rows.Scan(&p.ID, &p.ConversationID, &p.Name, &p.Role, &p.Profile); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
