// Package activity appends rows to the activity log.
package activity

import (
	"context"

	"github.com/dmitrijs2005/repsphere/internal/client/models"
)

type Repository interface {
	Create(ctx context.Context, a *models.Activity) error
}
