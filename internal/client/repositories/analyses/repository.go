// Package analyses stores raw behavioral-analysis documents.
package analyses

import (
	"context"

	"github.com/dmitrijs2005/repsphere/internal/client/models"
)

type Repository interface {
	Create(ctx context.Context, a *models.BehavioralAnalysis) error
	GetLatest(ctx context.Context, conversationID string) (*models.BehavioralAnalysis, error)
}
