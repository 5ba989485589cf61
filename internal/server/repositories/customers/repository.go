// Package customers maps payment-provider customer ids to gateway users.
package customers

import "context"

type Repository interface {
	// UserID returns common.ErrorNotFound for an unknown customer.
	UserID(ctx context.Context, customerID string) (string, error)
	// Link associates customerID with userID, replacing any earlier owner.
	Link(ctx context.Context, customerID, userID string) error
}
