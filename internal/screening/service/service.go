// Package service runs screening for the transport layers: it applies batch
// limits, consults the outcome cache, archives every report and emits audit
// events.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"fraudscreen/internal/audit"
	"fraudscreen/internal/screening"
	"fraudscreen/internal/screening/cache"
	"fraudscreen/internal/screening/metrics"
	"fraudscreen/internal/screening/store"
	dErrors "fraudscreen/pkg/domain-errors"
	"fraudscreen/pkg/platform/sentinel"
	"fraudscreen/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks ReportStore,OutcomeCache,AuditPublisher

// ReportStore archives screened batches.
type ReportStore interface {
	Save(ctx context.Context, report *screening.Report) error
	FindByID(ctx context.Context, id uuid.UUID) (*screening.Report, error)
	FlagsByType(ctx context.Context, id uuid.UUID, t screening.FlagType) ([]screening.FraudFlag, error)
	ListRecent(ctx context.Context, limit int) ([]store.ReportSummary, error)
}

// OutcomeCache memoizes outcomes by batch digest.
type OutcomeCache interface {
	Get(ctx context.Context, key string) (*screening.Outcome, bool, error)
	Set(ctx context.Context, key string, outcome *screening.Outcome) error
}

// AuditPublisher records who screened what.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Service coordinates a screening request end to end.
type Service struct {
	engine     *screening.Engine
	reports    ReportStore
	cache      OutcomeCache
	auditor    AuditPublisher
	metrics    *metrics.Metrics
	logger     *slog.Logger
	tracer     trace.Tracer
	maxRecords int
	newID      func() uuid.UUID
}

// Option configures a Service.
type Option func(*Service)

func WithCache(c OutcomeCache) Option {
	return func(s *Service) { s.cache = c }
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) { s.auditor = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithMaxRecords caps batch size; 0 means unlimited.
func WithMaxRecords(n int) Option {
	return func(s *Service) { s.maxRecords = n }
}

func WithIDGenerator(fn func() uuid.UUID) Option {
	return func(s *Service) { s.newID = fn }
}

func New(engine *screening.Engine, reports ReportStore, opts ...Option) *Service {
	s := &Service{
		engine:  engine,
		reports: reports,
		logger:  slog.Default(),
		tracer:  otel.Tracer("fraudscreen/screening"),
		newID:   uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Screen runs the detection pipeline over raw and archives the report. A
// failure to archive fails the request; cache and audit failures do not.
func (s *Service) Screen(ctx context.Context, raw []screening.RawRecord) (*screening.Report, error) {
	ctx, span := s.tracer.Start(ctx, "screening.Screen",
		trace.WithAttributes(attribute.Int("screening.records", len(raw))))
	defer span.End()

	if s.maxRecords > 0 && len(raw) > s.maxRecords {
		err := dErrors.New(dErrors.CodePayloadTooLarge,
			fmt.Sprintf("batch of %d records exceeds the limit of %d", len(raw), s.maxRecords))
		span.SetStatus(codes.Error, "batch too large")
		return nil, err
	}

	start := time.Now()
	processedAt := requestcontext.Now(ctx).UTC()
	outcome, cacheHit := s.screen(ctx, raw, processedAt)

	report := &screening.Report{
		ID:          s.newID(),
		ProcessedAt: processedAt,
		AuditorID:   requestcontext.AuditorID(ctx),
		Outcome:     outcome,
	}
	if err := s.reports.Save(ctx, report); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "archive failed")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to archive report")
	}

	s.metrics.ObserveReport(report, start)
	span.SetAttributes(
		attribute.String("screening.report_id", report.ID.String()),
		attribute.Int("screening.high_risk", outcome.Summary.HighRisk),
		attribute.Bool("screening.cache_hit", cacheHit),
	)
	s.emit(ctx, audit.Event{
		Action:     audit.ActionBatchScreened,
		ReportID:   report.ID.String(),
		Total:      outcome.Summary.Total,
		HighRisk:   outcome.Summary.HighRisk,
		MediumRisk: outcome.Summary.MediumRisk,
		LowRisk:    outcome.Summary.LowRisk,
		CacheHit:   cacheHit,
	})
	s.logger.InfoContext(ctx, "batch screened",
		"report_id", report.ID.String(),
		"request_id", requestcontext.RequestID(ctx),
		"total", outcome.Summary.Total,
		"high_risk", outcome.Summary.HighRisk,
		"medium_risk", outcome.Summary.MediumRisk,
		"low_risk", outcome.Summary.LowRisk,
		"cache_hit", cacheHit,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return report, nil
}

// screen returns the cached outcome for raw when there is one, otherwise runs
// the engine and caches the result.
func (s *Service) screen(ctx context.Context, raw []screening.RawRecord, processedAt time.Time) (screening.Outcome, bool) {
	if s.cache == nil {
		return s.engine.Screen(raw, processedAt), false
	}

	key, err := cache.Key(s.engine.Fingerprint(), raw, processedAt)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to derive cache key", "error", err)
		return s.engine.Screen(raw, processedAt), false
	}

	cached, ok, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		s.metrics.ObserveCacheLookup("error")
		s.logger.WarnContext(ctx, "outcome cache lookup failed", "error", err)
	case ok:
		s.metrics.ObserveCacheLookup("hit")
		return *cached, true
	default:
		s.metrics.ObserveCacheLookup("miss")
	}

	outcome := s.engine.Screen(raw, processedAt)
	if err := s.cache.Set(ctx, key, &outcome); err != nil {
		s.logger.WarnContext(ctx, "failed to cache outcome", "error", err)
	}
	return outcome, false
}

// Get returns an archived report.
func (s *Service) Get(ctx context.Context, reportID string) (*screening.Report, error) {
	ctx, span := s.tracer.Start(ctx, "screening.Get")
	defer span.End()

	id, err := uuid.Parse(reportID)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid report id")
	}
	report, err := s.reports.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "report not found")
		}
		span.RecordError(err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load report")
	}

	s.emit(ctx, audit.Event{
		Action:     audit.ActionReportViewed,
		ReportID:   report.ID.String(),
		Total:      report.Summary.Total,
		HighRisk:   report.Summary.HighRisk,
		MediumRisk: report.Summary.MediumRisk,
		LowRisk:    report.Summary.LowRisk,
	})
	return report, nil
}

// Flags returns one report's flags of a single type, in result order.
func (s *Service) Flags(ctx context.Context, reportID, flagType string) ([]screening.FraudFlag, error) {
	ctx, span := s.tracer.Start(ctx, "screening.Flags")
	defer span.End()

	t, err := screening.ParseFlagType(flagType)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(reportID)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid report id")
	}
	flags, err := s.reports.FlagsByType(ctx, id, t)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "report not found")
		}
		span.RecordError(err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load flags")
	}

	s.emit(ctx, audit.Event{Action: audit.ActionReportViewed, ReportID: id.String()})
	return flags, nil
}

// List returns the most recent reports. limit is clamped to [1, 100]; zero
// selects the default page size.
func (s *Service) List(ctx context.Context, limit int) ([]store.ReportSummary, error) {
	switch {
	case limit <= 0:
		limit = defaultListLimit
	case limit > maxListLimit:
		limit = maxListLimit
	}
	list, err := s.reports.ListRecent(ctx, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list reports")
	}
	return list, nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"action", event.Action,
			"report_id", event.ReportID,
			"error", err,
		)
	}
}
