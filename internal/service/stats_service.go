package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/instasorteo/contest-stats/internal/domain"
	"github.com/instasorteo/contest-stats/internal/repository"
)

// Lookup outcomes reported to the metrics hook.
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// StatsService assembles the statistics snapshot of a contest.
// HTTP handlers depend on this service, never on the repository directly.
type StatsService struct {
	repo   repository.StatsRepository
	logger *zap.Logger

	// onLookup is injected by main so the service stays metrics-agnostic.
	onLookup func(outcome string, elapsed time.Duration)
}

// NewStatsService constructs the service. onLookup is optional (nil = no-op).
func NewStatsService(
	repo repository.StatsRepository,
	logger *zap.Logger,
	onLookup func(outcome string, elapsed time.Duration),
) *StatsService {
	if onLookup == nil {
		onLookup = func(string, time.Duration) {}
	}
	return &StatsService{repo: repo, logger: logger, onLookup: onLookup}
}

// Snapshot loads the contest and, if it exists, its totals, leaders and
// winners.
//
// The contest lookup runs first so an unknown id costs a single query. The
// three remaining reads are independent statements and run concurrently on
// the pool; they are not wrapped in a transaction, so the snapshot is only
// as consistent as each statement on its own.
func (s *StatsService) Snapshot(ctx context.Context, contestID int64) (*domain.Snapshot, error) {
	start := time.Now()

	snap, err := s.load(ctx, contestID)

	switch {
	case err == nil:
		s.onLookup(OutcomeFound, time.Since(start))
	case errors.Is(err, domain.ErrContestNotFound):
		s.onLookup(OutcomeNotFound, time.Since(start))
	default:
		s.onLookup(OutcomeError, time.Since(start))
	}
	return snap, err
}

func (s *StatsService) load(ctx context.Context, contestID int64) (*domain.Snapshot, error) {
	contest, err := s.repo.GetContest(ctx, contestID)
	if err != nil {
		return nil, err
	}

	var (
		totals  *domain.Totals
		top     []domain.TopParticipant
		winners []domain.Winner
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.repo.GetTotals(gctx, contestID)
		if err != nil {
			return fmt.Errorf("totals: %w", err)
		}
		totals = t
		return nil
	})
	g.Go(func() error {
		t, err := s.repo.TopParticipants(gctx, contestID)
		if err != nil {
			return fmt.Errorf("top participants: %w", err)
		}
		top = t
		return nil
	})
	g.Go(func() error {
		w, err := s.repo.Winners(gctx, contestID)
		if err != nil {
			return fmt.Errorf("winners: %w", err)
		}
		winners = w
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := &domain.Snapshot{
		Contest: *contest,
		Top:     top,
		Winners: winners,
	}
	if totals != nil {
		snap.Totals = *totals
	}
	// Empty lists must encode as [] rather than null.
	if snap.Top == nil {
		snap.Top = []domain.TopParticipant{}
	}
	if snap.Winners == nil {
		snap.Winners = []domain.Winner{}
	}

	s.logger.Debug("stats snapshot assembled",
		zap.Int64("contest_id", contestID),
		zap.Int64("participants", snap.Totals.Participants),
		zap.Int("winners", len(snap.Winners)),
	)
	return snap, nil
}
