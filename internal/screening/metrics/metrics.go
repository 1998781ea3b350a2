package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"fraudscreen/internal/screening"
)

// Metrics provides observability for batch screening.
type Metrics struct {
	BatchesScreened prometheus.Counter
	RecordsScreened prometheus.Counter
	FlagsRaised     *prometheus.CounterVec
	RiskLevels      *prometheus.CounterVec
	CacheLookups    *prometheus.CounterVec
	ScreenDuration  prometheus.Histogram
	BatchSize       prometheus.Histogram
}

// New registers the screening metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		BatchesScreened: factory.NewCounter(prometheus.CounterOpts{
			Name: "fraudscreen_batches_screened_total",
			Help: "Total number of batches screened",
		}),
		RecordsScreened: factory.NewCounter(prometheus.CounterOpts{
			Name: "fraudscreen_records_screened_total",
			Help: "Total number of application records screened",
		}),
		FlagsRaised: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fraudscreen_flags_raised_total",
			Help: "Fraud flags raised by type",
		}, []string{"type"}),
		RiskLevels: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fraudscreen_records_by_risk_total",
			Help: "Screened records by assigned risk level",
		}, []string{"level"}),
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fraudscreen_outcome_cache_lookups_total",
			Help: "Outcome cache lookups by result (hit, miss, error)",
		}, []string{"result"}),
		ScreenDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "fraudscreen_screen_duration_seconds",
			Help:    "Duration of the detection pipeline per batch",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		}),
		BatchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "fraudscreen_batch_size_records",
			Help:    "Number of records per screened batch",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
	}
}

// ObserveReport records one screened batch. Safe on a nil receiver.
func (m *Metrics) ObserveReport(report *screening.Report, start time.Time) {
	if m == nil || report == nil {
		return
	}
	outcome := report.Outcome
	m.BatchesScreened.Inc()
	m.RecordsScreened.Add(float64(outcome.Summary.Total))
	m.BatchSize.Observe(float64(outcome.Summary.Total))
	m.ScreenDuration.Observe(time.Since(start).Seconds())

	m.RiskLevels.WithLabelValues(string(screening.RiskHigh)).Add(float64(outcome.Summary.HighRisk))
	m.RiskLevels.WithLabelValues(string(screening.RiskMedium)).Add(float64(outcome.Summary.MediumRisk))
	m.RiskLevels.WithLabelValues(string(screening.RiskLow)).Add(float64(outcome.Summary.LowRisk))
	for t, n := range report.FlagCounts() {
		m.FlagsRaised.WithLabelValues(string(t)).Add(float64(n))
	}
}

// ObserveCacheLookup records a cache hit, miss or error. Safe on a nil receiver.
func (m *Metrics) ObserveCacheLookup(result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}
