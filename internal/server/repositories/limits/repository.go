package limits

import (
	"context"
	"time"

	"github.com/dmitrijs2005/repsphere/internal/server/models"
)

type Repository interface {
	Get(ctx context.Context, userID string) (*models.UserLimits, error)
	// Create inserts l unless the user already has limits, and returns the
	// stored row either way.
	Create(ctx context.Context, l *models.UserLimits) (*models.UserLimits, error)
	UpdateResetDate(ctx context.Context, userID string, resetDate time.Time) error
	// Upsert replaces the plan of l.UserID, creating the row if needed.
	Upsert(ctx context.Context, l *models.UserLimits) error
}
