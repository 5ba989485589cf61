package usage

import (
	"context"
	"time"

	"github.com/dmitrijs2005/repsphere/internal/server/models"
)

type Repository interface {
	Log(ctx context.Context, u *models.UsageLog) error
	CountSince(ctx context.Context, userID string, since time.Time) (int, error)
}
