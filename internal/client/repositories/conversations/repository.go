// Package conversations stores conversation records in PostgreSQL.
package conversations

import (
	"context"

	"github.com/dmitrijs2005/repsphere/internal/client/models"
)

type Repository interface {
	Create(ctx context.Context, c *models.Conversation) error
	UpdateStatus(ctx context.Context, id string, status models.ConversationStatus, message string) error
	GetByID(ctx context.Context, id string) (*models.Conversation, error)
}
