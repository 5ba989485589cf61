// Package results keeps completed analyses in a local SQLite database so the
// CLI can list and reopen them without the backend.
package results

import (
	"context"

	"github.com/dmitrijs2005/repsphere/internal/client/models"
)

type Repository interface {
	Save(ctx context.Context, e *models.ResultEntry) error
	Get(ctx context.Context, id string) (*models.ResultEntry, error)
	List(ctx context.Context, limit int) ([]*models.ResultEntry, error)
}
