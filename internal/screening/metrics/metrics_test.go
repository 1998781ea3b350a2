package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"fraudscreen/internal/screening"
)

func TestObserveReport(t *testing.T) {
	m := New(prometheus.NewRegistry())
	report := &screening.Report{Outcome: screening.Outcome{
		Summary: screening.Summary{Total: 3, HighRisk: 1, LowRisk: 2},
		Results: []screening.Result{
			{Flags: []screening.FraudFlag{{Type: screening.FlagDuplicateAadhaar}, {Type: screening.FlagGPSCluster}}},
			{Flags: []screening.FraudFlag{}},
			{Flags: []screening.FraudFlag{{Type: screening.FlagGPSCluster}}},
		},
	}}

	m.ObserveReport(report, time.Now())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.BatchesScreened))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.RecordsScreened))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.FlagsRaised.WithLabelValues("GPS_CLUSTER")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FlagsRaised.WithLabelValues("DUPLICATE_AADHAAR")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RiskLevels.WithLabelValues("High")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RiskLevels.WithLabelValues("Low")))
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveReport(&screening.Report{}, time.Now())
		New(prometheus.NewRegistry()).ObserveReport(nil, time.Now())
		m.ObserveCacheLookup("hit")
	})
}
