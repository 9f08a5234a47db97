package jobs

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/asandoval/fintrack-backend/internal/dto"
	"github.com/asandoval/fintrack-backend/internal/models"
)

const (
	dateLayout      = "2006-01-02"
	defaultLookback = 30 * 24 * time.Hour
	defaultWorkers  = 4
)

type userLister interface {
	ListUsers(ctx context.Context, max int) ([]dto.ProviderUser, error)
}

type transactionFetcher interface {
	Fetch(ctx context.Context, uid, startDate, endDate string) ([]models.Transaction, error)
}

// Syncer re-ingests recent transactions for every known user. A failing user
// is logged and skipped; one bad item never aborts the pass.
type Syncer struct {
	log      *slog.Logger
	users    userLister
	txs      transactionFetcher
	lookback time.Duration
	workers  int
	clockNow func() time.Time
}

func NewSyncer(log *slog.Logger, users userLister, txs transactionFetcher) *Syncer {
	return &Syncer{
		log:      log,
		users:    users,
		txs:      txs,
		lookback: defaultLookback,
		workers:  defaultWorkers,
		clockNow: time.Now,
	}
}

// Run performs one sync pass over all users with the fixed lookback window.
func (s *Syncer) Run(ctx context.Context) error {
	now := s.clockNow()
	startDate := now.Add(-s.lookback).Format(dateLayout)
	endDate := now.Format(dateLayout)

	users, err := s.users.ListUsers(ctx, 0)
	if err != nil {
		return err
	}

	s.log.Info("nightly sync started",
		"user_count", len(users),
		"start_date", startDate,
		"end_date", endDate)

	var synced, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, u := range users {
		g.Go(func() error {
			txs, err := s.txs.Fetch(gctx, u.UID, startDate, endDate)
			if err != nil {
				failed.Add(1)
				s.log.Error("user sync failed", "uid", u.UID, "error", err)
				return nil // isolate per-user failures
			}
			synced.Add(1)
			s.log.Debug("user synced", "uid", u.UID, "transaction_count", len(txs))
			return nil
		})
	}
	g.Wait()

	s.log.Info("nightly sync completed",
		"users_synced", synced.Load(),
		"users_failed", failed.Load())
	return nil
}

// RunEvery runs a pass immediately, then on every tick until the context is
// canceled.
func (s *Syncer) RunEvery(ctx context.Context, interval time.Duration) error {
	if err := s.Run(ctx); err != nil {
		s.log.Error("sync pass failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.Run(ctx); err != nil {
				s.log.Error("sync pass failed", "error", err)
			}
		}
	}
}
