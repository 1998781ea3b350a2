package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"fraudscreen/internal/screening"
	"fraudscreen/pkg/platform/sentinel"
)

// InMemoryStore keeps reports in process. Reports are lost on restart.
type InMemoryStore struct {
	mu      sync.RWMutex
	reports map[uuid.UUID]*screening.Report
	order   []uuid.UUID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{reports: make(map[uuid.UUID]*screening.Report)}
}

func (s *InMemoryStore) Save(_ context.Context, report *screening.Report) error {
	if report == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.reports[report.ID]; !exists {
		s.order = append(s.order, report.ID)
	}
	copied := *report
	s.reports[report.ID] = &copied
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (*screening.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	report, ok := s.reports[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *report
	return &copied, nil
}

// FlagsByType returns the report's flags of type t in result order.
func (s *InMemoryStore) FlagsByType(_ context.Context, id uuid.UUID, t screening.FlagType) ([]screening.FraudFlag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	report, ok := s.reports[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return report.FlagsOfType(t), nil
}

// ListRecent returns up to limit reports, newest first.
func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]ReportSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ReportSummary, 0, min(limit, len(s.order)))
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, summarize(s.reports[s.order[i]]))
	}
	return out, nil
}
