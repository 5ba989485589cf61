// Package participants stores speaker profiles extracted from an analysis.
package participants

import (
	"context"

	"github.com/dmitrijs2005/repsphere/internal/client/models"
)

type Repository interface {
	Create(ctx context.Context, p *models.Participant) error
	ListByConversation(ctx context.Context, conversationID string) ([]*models.Participant, error)
}
