package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fraudscreen/internal/screening"
	"fraudscreen/pkg/platform/sentinel"
)

func newReport(processedAt time.Time, total int) *screening.Report {
	return &screening.Report{
		ID:          uuid.New(),
		ProcessedAt: processedAt,
		Outcome: screening.Outcome{
			Summary: screening.Summary{Total: total, LowRisk: total},
			Results: []screening.Result{},
		},
	}
}

func TestInMemoryStoreSaveAndFind(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	report := newReport(time.Now(), 3)

	require.NoError(t, s.Save(ctx, report))

	got, err := s.FindByID(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, report.Summary, got.Summary)

	got.Summary.Total = 99
	again, err := s.FindByID(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, again.Summary.Total, "callers must not mutate stored reports")
}

func TestInMemoryStoreNotFound(t *testing.T) {
	_, err := NewInMemoryStore().FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestInMemoryStoreListRecent(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	base := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	var ids []uuid.UUID
	for i := range 4 {
		r := newReport(base.Add(time.Duration(i)*time.Hour), i)
		ids = append(ids, r.ID)
		require.NoError(t, s.Save(ctx, r))
	}

	recent, err := s.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, ids[3], recent[0].ID)
	assert.Equal(t, ids[2], recent[1].ID)
	assert.Equal(t, "2026-03-14T03:00:00Z", recent[0].ProcessedAt)

	all, err := s.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestInMemoryStoreFlagsByType(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	report := newReport(time.Now(), 2)
	report.Results = []screening.Result{
		{Flags: []screening.FraudFlag{{ApplicationID: "001", Type: screening.FlagDuplicateAadhaar, RelatedTo: []string{"002"}}}},
		{Flags: []screening.FraudFlag{{ApplicationID: "002", Type: screening.FlagDuplicateAadhaar, RelatedTo: []string{"001"}}}},
	}
	require.NoError(t, s.Save(ctx, report))

	dups, err := s.FlagsByType(ctx, report.ID, screening.FlagDuplicateAadhaar)
	require.NoError(t, err)
	require.Len(t, dups, 2)
	assert.Equal(t, "001", dups[0].ApplicationID)

	none, err := s.FlagsByType(ctx, report.ID, screening.FlagGPSCluster)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = s.FlagsByType(ctx, uuid.New(), screening.FlagGPSCluster)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
