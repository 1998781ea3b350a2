// Package store archives screened batches so they can be fetched again by id.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"fraudscreen/internal/screening"
)

// Store persists screening reports. FindByID and FlagsByType return
// sentinel.ErrNotFound for unknown ids.
type Store interface {
	Save(ctx context.Context, report *screening.Report) error
	FindByID(ctx context.Context, id uuid.UUID) (*screening.Report, error)
	FlagsByType(ctx context.Context, id uuid.UUID, t screening.FlagType) ([]screening.FraudFlag, error)
	ListRecent(ctx context.Context, limit int) ([]ReportSummary, error)
}

// ReportSummary is the list view of a report, without its results.
type ReportSummary struct {
	ID          uuid.UUID         `json:"id"`
	ProcessedAt string            `json:"processedAt"`
	AuditorID   string            `json:"auditorId,omitempty"`
	Summary     screening.Summary `json:"summary"`
}

func summarize(r *screening.Report) ReportSummary {
	return ReportSummary{
		ID:          r.ID,
		ProcessedAt: r.ProcessedAt.UTC().Format(time.RFC3339),
		AuditorID:   r.AuditorID,
		Summary:     r.Summary,
	}
}
