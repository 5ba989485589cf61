package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/repsphere/internal/common"
	"github.com/dmitrijs2005/repsphere/internal/server/config"
	"github.com/dmitrijs2005/repsphere/internal/server/models"
	"github.com/dmitrijs2005/repsphere/internal/server/repositories/repomanager"
)

// SubscriptionEvent is a subscription change reported by the payment
// provider, reduced to what the gateway needs.
type SubscriptionEvent struct {
	CustomerID string
	// UserID comes from subscription metadata and may be empty.
	UserID    string
	ProductID string
	// Tier comes from price or product metadata and may be empty.
	Tier    string
	Deleted bool
}

// BillingService applies subscription changes to user plans.
type BillingService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	usage        *UsageService
	productTiers map[string]string
}

func NewBillingService(db *sql.DB, m repomanager.RepositoryManager, us *UsageService, cfg *config.Config) *BillingService {
	return &BillingService{
		db:           db,
		repomanager:  m,
		usage:        us,
		productTiers: cfg.StripeProductTiers,
	}
}

// ApplySubscription sets the plan of the subscribing user. Events for a
// customer that cannot be tied to a user are ignored and return nil limits.
func (s *BillingService) ApplySubscription(ctx context.Context, ev SubscriptionEvent) (*models.UserLimits, error) {
	userID, err := s.resolveUser(ctx, ev)
	if err != nil || userID == "" {
		return nil, err
	}
	return s.usage.SetTier(ctx, userID, s.tierOf(ev))
}

func (s *BillingService) resolveUser(ctx context.Context, ev SubscriptionEvent) (string, error) {
	repo := s.repomanager.Customers(s.db)

	if ev.UserID != "" {
		if ev.CustomerID != "" {
			if err := repo.Link(ctx, ev.CustomerID, ev.UserID); err != nil {
				return "", fmt.Errorf("error linking customer: %w", err)
			}
		}
		return ev.UserID, nil
	}
	if ev.CustomerID == "" {
		return "", nil
	}

	userID, err := repo.UserID(ctx, ev.CustomerID)
	if errors.Is(err, common.ErrorNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("error resolving customer: %w", err)
	}
	return userID, nil
}

func (s *BillingService) tierOf(ev SubscriptionEvent) string {
	switch {
	case ev.Deleted:
		return DefaultTier
	case KnownTier(ev.Tier):
		return ev.Tier
	}
	if t, ok := s.productTiers[ev.ProductID]; ok && KnownTier(t) {
		return t
	}
	return DefaultTier
}
