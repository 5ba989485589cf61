// Package services contains the gateway's business logic. This file
// implements UsageService, which owns per-user plan limits and the
// monthly analysis quota.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/repsphere/internal/common"
	"github.com/dmitrijs2005/repsphere/internal/dbx"
	"github.com/dmitrijs2005/repsphere/internal/server/config"
	"github.com/dmitrijs2005/repsphere/internal/server/models"
	"github.com/dmitrijs2005/repsphere/internal/server/repositories/repomanager"
	"github.com/patrickmn/go-cache"
)

// UsagePeriod is the length of one quota window.
const UsagePeriod = 30 * 24 * time.Hour

// Tier describes the limits of a subscription plan.
type Tier struct {
	Quota     int
	MaxFileMB int
}

const DefaultTier = "free"

var tiers = map[string]Tier{
	"free":  {Quota: 10, MaxFileMB: 25},
	"basic": {Quota: 50, MaxFileMB: 50},
	"pro":   {Quota: 250, MaxFileMB: 100},
}

// TierLimits returns the limits of the named tier, falling back to the
// free tier for unknown names.
func TierLimits(name string) Tier {
	if t, ok := tiers[name]; ok {
		return t
	}
	return tiers[DefaultTier]
}

// KnownTier reports whether name is a configured plan.
func KnownTier(name string) bool {
	_, ok := tiers[name]
	return ok
}

// UsageSnapshot is the usage of one user inside the current window.
type UsageSnapshot struct {
	Tier      string
	Usage     int
	Quota     int
	ResetDate time.Time
}

// UsageService answers quota questions and records counted requests.
// Limits rows are cached per user for the configured TTL.
type UsageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cache       *cache.Cache
	now         func() time.Time
}

// NewUsageService constructs a UsageService. A non-positive LimitsCacheTTL
// disables caching.
func NewUsageService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UsageService {
	ttl := cfg.LimitsCacheTTL
	if ttl <= 0 {
		ttl = time.Nanosecond
	}
	return &UsageService{
		db:          db,
		repomanager: m,
		cache:       cache.New(ttl, 2*ttl),
		now:         time.Now,
	}
}

// Limits returns the plan of userID, creating free-tier defaults on first
// sight. An elapsed reset date is moved forward by whole periods.
func (s *UsageService) Limits(ctx context.Context, userID string) (*models.UserLimits, error) {
	if v, ok := s.cache.Get(userID); ok {
		l := v.(*models.UserLimits)
		if s.now().Before(l.ResetDate) {
			return l, nil
		}
	}

	repo := s.repomanager.Limits(s.db)

	l, err := repo.Get(ctx, userID)
	if errors.Is(err, common.ErrorNotFound) {
		t := TierLimits(DefaultTier)
		l, err = repo.Create(ctx, &models.UserLimits{
			UserID:    userID,
			Tier:      DefaultTier,
			Quota:     t.Quota,
			MaxFileMB: t.MaxFileMB,
			ResetDate: s.now().Add(UsagePeriod).UTC(),
		})
		if err != nil {
			return nil, fmt.Errorf("error creating default limits: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("error loading limits: %w", err)
	}

	if next := rollForward(l.ResetDate, s.now()); !next.Equal(l.ResetDate) {
		if err := repo.UpdateResetDate(ctx, userID, next); err != nil {
			return nil, fmt.Errorf("error moving reset date: %w", err)
		}
		l.ResetDate = next
	}

	s.cache.Set(userID, l, cache.DefaultExpiration)
	return l, nil
}

// SetTier moves userID onto the named plan and starts a fresh usage window.
// Unknown names fall back to the free tier. The cached limits are dropped.
func (s *UsageService) SetTier(ctx context.Context, userID, tier string) (*models.UserLimits, error) {
	if !KnownTier(tier) {
		tier = DefaultTier
	}
	t := TierLimits(tier)
	l := &models.UserLimits{
		UserID:    userID,
		Tier:      tier,
		Quota:     t.Quota,
		MaxFileMB: t.MaxFileMB,
		ResetDate: s.now().Add(UsagePeriod).UTC(),
	}

	if err := s.repomanager.Limits(s.db).Upsert(ctx, l); err != nil {
		return nil, fmt.Errorf("error updating tier: %w", err)
	}
	s.cache.Delete(userID)
	return l, nil
}

// Current returns the usage of userID in the current window.
func (s *UsageService) Current(ctx context.Context, userID string) (*UsageSnapshot, error) {
	l, err := s.Limits(ctx, userID)
	if err != nil {
		return nil, err
	}

	n, err := s.repomanager.Usage(s.db).CountSince(ctx, userID, windowStart(l))
	if err != nil {
		return nil, fmt.Errorf("error counting usage: %w", err)
	}
	return snapshot(l, n), nil
}

// Consume counts one analysis request for userID. When the quota is already
// used up it returns the snapshot together with common.ErrQuotaExceeded and
// records nothing.
func (s *UsageService) Consume(ctx context.Context, userID, filename string) (*UsageSnapshot, error) {
	l, err := s.Limits(ctx, userID)
	if err != nil {
		return nil, err
	}

	var snap *UsageSnapshot
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Usage(tx)

		n, err := repo.CountSince(ctx, userID, windowStart(l))
		if err != nil {
			return fmt.Errorf("error counting usage: %w", err)
		}
		snap = snapshot(l, n)
		if n >= l.Quota {
			return common.ErrQuotaExceeded
		}

		if err := repo.Log(ctx, &models.UsageLog{UserID: userID, Filename: filename, CreatedAt: s.now().UTC()}); err != nil {
			return fmt.Errorf("error logging usage: %w", err)
		}
		snap.Usage++
		return nil
	})
	return snap, err
}

func snapshot(l *models.UserLimits, n int) *UsageSnapshot {
	return &UsageSnapshot{Tier: l.Tier, Usage: n, Quota: l.Quota, ResetDate: l.ResetDate}
}

func windowStart(l *models.UserLimits) time.Time {
	return l.ResetDate.Add(-UsagePeriod)
}

func rollForward(reset, now time.Time) time.Time {
	for !now.Before(reset) {
		reset = reset.Add(UsagePeriod)
	}
	return reset
}
