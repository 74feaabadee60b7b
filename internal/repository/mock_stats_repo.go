package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/instasorteo/contest-stats/internal/domain"
)

// MockCount is one conteos row held by MockStatsRepository.
type MockCount struct {
	ContestID int64
	Nick      string
	Comments  int64
	Mentions  int64
}

// MockWinner is one ganadores row held by MockStatsRepository.
type MockWinner struct {
	ContestID int64
	Winner    domain.Winner
	CreatedAt time.Time
}

// MockStatsRepository is a hand-written, in-memory implementation of
// StatsRepository used in unit tests. It applies the same ordering rules as
// the SQL statements so service and handler tests can assert on them.
type MockStatsRepository struct {
	mu       sync.RWMutex
	contests map[int64]domain.Contest
	counts   []MockCount
	winners  []MockWinner

	// Optional error overrides, set in tests to simulate failure paths.
	GetContestErr      error
	GetTotalsErr       error
	TopParticipantsErr error
	WinnersErr         error
}

func NewMockStatsRepository() *MockStatsRepository {
	return &MockStatsRepository{contests: make(map[int64]domain.Contest)}
}

func (m *MockStatsRepository) AddContest(c domain.Contest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contests[c.ID] = c
}

func (m *MockStatsRepository) AddCount(c MockCount) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts = append(m.counts, c)
}

func (m *MockStatsRepository) AddWinner(w MockWinner) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.winners = append(m.winners, w)
}

func (m *MockStatsRepository) GetContest(_ context.Context, contestID int64) (*domain.Contest, error) {
	if m.GetContestErr != nil {
		return nil, m.GetContestErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.contests[contestID]
	if !ok {
		return nil, domain.ErrContestNotFound
	}
	return &c, nil
}

func (m *MockStatsRepository) GetTotals(_ context.Context, contestID int64) (*domain.Totals, error) {
	if m.GetTotalsErr != nil {
		return nil, m.GetTotalsErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var t domain.Totals
	for _, c := range m.counts {
		if c.ContestID == contestID {
			t.Participants++
			t.Comments += c.Comments
		}
	}
	return &t, nil
}

func (m *MockStatsRepository) TopParticipants(_ context.Context, contestID int64) ([]domain.TopParticipant, error) {
	if m.TopParticipantsErr != nil {
		return nil, m.TopParticipantsErr
	}
	m.mu.RLock()
	var rows []MockCount
	for _, c := range m.counts {
		if c.ContestID == contestID {
			rows = append(rows, c)
		}
	}
	m.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Comments != rows[j].Comments {
			return rows[i].Comments > rows[j].Comments
		}
		if rows[i].Mentions != rows[j].Mentions {
			return rows[i].Mentions > rows[j].Mentions
		}
		return rows[i].Nick < rows[j].Nick
	})
	if len(rows) > domain.TopParticipantsLimit {
		rows = rows[:domain.TopParticipantsLimit]
	}

	top := make([]domain.TopParticipant, 0, len(rows))
	for _, r := range rows {
		top = append(top, domain.TopParticipant{Nick: r.Nick, Comments: r.Comments})
	}
	return top, nil
}

func (m *MockStatsRepository) Winners(_ context.Context, contestID int64) ([]domain.Winner, error) {
	if m.WinnersErr != nil {
		return nil, m.WinnersErr
	}
	m.mu.RLock()
	var rows []MockWinner
	for _, w := range m.winners {
		if w.ContestID == contestID {
			rows = append(rows, w)
		}
	}
	m.mu.RUnlock()

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].CreatedAt.Before(rows[j].CreatedAt)
	})

	winners := make([]domain.Winner, 0, len(rows))
	for _, r := range rows {
		winners = append(winners, r.Winner)
	}
	return winners, nil
}

// compile-time check that the mock stays in sync with the interface
var _ StatsRepository = (*MockStatsRepository)(nil)
