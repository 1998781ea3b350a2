package httptransport

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwttoken "fraudscreen/internal/jwt_token"
	"fraudscreen/internal/platform/metrics"
	"fraudscreen/internal/screening"
	"fraudscreen/internal/screening/handler"
	"fraudscreen/internal/screening/service"
	"fraudscreen/internal/screening/store"
	"fraudscreen/pkg/testutil"
)

func newTestRouter(t *testing.T, auth *jwttoken.JWTService) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	svc := service.New(screening.MustNewEngine(screening.DefaultRules()), store.NewInMemoryStore(),
		service.WithLogger(logger))

	cfg := RouterConfig{
		Screening:      handler.New(svc, logger, 1<<20),
		Logger:         logger,
		HTTPMetrics:    metrics.New(reg),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		AllowedOrigins: []string{"https://dashboard.example"},
	}
	if auth != nil {
		cfg.Auth = auth
	}
	return NewRouter(cfg)
}

const clusterBatch = `[
	{"name":"A","lat":"28.6139","long":"77.2090"},
	{"name":"B","lat":"28.6140","long":"77.2091"},
	{"name":"C","lat":"28.6141","long":"77.2092"},
	{"name":"D","lat":"28.6142","long":"77.2093"},
	{"name":"E","lat":"28.6143","long":"77.2094"}
]`

func TestRouter(t *testing.T) {
	testutil.Given(t, "the HTTP router without auth", func(t *testing.T) {
		router := newTestRouter(t, nil)

		testutil.When(t, "posting a batch and fetching it back", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodPost, "/api/analyze", clusterBatch))
			testutil.AssertStatusOK(t, rr)
			reportID := rr.Header().Get(handler.ReportIDHeader)
			require.NotEmpty(t, reportID)
			assert.Contains(t, rr.Body.String(), `"highRisk":5`)

			testutil.Then(t, "the archived report has the same body", func(t *testing.T) {
				again := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/reports/"+reportID))
				testutil.AssertStatusOK(t, again)
				assert.JSONEq(t, rr.Body.String(), again.Body.String())
			})
		})

		testutil.When(t, "calling /health", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/health"))
			testutil.Then(t, "it reports ok", func(t *testing.T) {
				testutil.AssertStatusOK(t, rr)
				testutil.AssertJSONContains(t, rr, "status", "ok")
			})
		})

		testutil.When(t, "scraping /metrics", func(t *testing.T) {
			_ = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/health"))
			rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/metrics"))
			testutil.Then(t, "request counters are exposed", func(t *testing.T) {
				testutil.AssertStatusOK(t, rr)
				assert.Contains(t, rr.Body.String(), "fraudscreen_http_requests_total")
			})
		})

		testutil.When(t, "a browser sends a CORS preflight", func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/api/analyze", nil)
			req.Header.Set("Origin", "https://dashboard.example")
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			rr := testutil.DoRequest(router, req)
			testutil.Then(t, "the dashboard origin is allowed", func(t *testing.T) {
				assert.Equal(t, "https://dashboard.example", rr.Header().Get("Access-Control-Allow-Origin"))
			})
		})
	})

	testutil.Given(t, "the HTTP router with auditor auth", func(t *testing.T) {
		jwt := jwttoken.NewJWTService("router-test-key", "fraudscreen")
		router := newTestRouter(t, jwt)

		testutil.When(t, "posting without a token", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodPost, "/api/analyze", `[]`))
			testutil.Then(t, "it is rejected", func(t *testing.T) {
				testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
			})
		})

		testutil.When(t, "posting with a valid token", func(t *testing.T) {
			token, err := jwt.GenerateAuditorToken("auditor-9", time.Hour)
			require.NoError(t, err)
			req := testutil.NewRequestWithBody(t, http.MethodPost, "/api/analyze", `[]`)
			req.Header.Set("Authorization", "Bearer "+token)
			rr := testutil.DoRequest(router, req)
			testutil.Then(t, "the empty batch is screened", func(t *testing.T) {
				testutil.AssertStatusOK(t, rr)
				assert.JSONEq(t, `{"summary":{"total":0,"highRisk":0,"mediumRisk":0,"lowRisk":0},"results":[]}`,
					strings.TrimSpace(rr.Body.String()))
			})
		})

		testutil.When(t, "probing health without a token", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/health"))
			testutil.Then(t, "health stays public", func(t *testing.T) {
				testutil.AssertStatusOK(t, rr)
			})
		})
	})
}
