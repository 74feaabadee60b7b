package repository

import (
	"context"

	"github.com/instasorteo/contest-stats/internal/domain"
)

// StatsRepository defines the read-only queries behind the statistics endpoint.
// The MySQL implementation is in mysql_stats_repo.go.
// Tests use a hand-written mock (mock_stats_repo.go).
type StatsRepository interface {
	GetContest(ctx context.Context, contestID int64) (*domain.Contest, error)
	GetTotals(ctx context.Context, contestID int64) (*domain.Totals, error)
	// TopParticipants returns at most domain.TopParticipantsLimit leaders.
	TopParticipants(ctx context.Context, contestID int64) ([]domain.TopParticipant, error)
	Winners(ctx context.Context, contestID int64) ([]domain.Winner, error)
}
