package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fraudscreen/pkg/platform/httputil"
	"fraudscreen/pkg/requestcontext"
)

type stubValidator struct {
	auditor string
	err     error
}

func (s stubValidator) ValidateAuditor(string) (string, error) {
	return s.auditor, s.err
}

func TestRequireAuditor(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestcontext.AuditorID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name        string
		header      string
		validator   stubValidator
		wantStatus  int
		wantAuditor string
		wantDesc    string
	}{
		{
			name:        "valid token",
			header:      "Bearer good",
			validator:   stubValidator{auditor: "auditor-1"},
			wantStatus:  http.StatusNoContent,
			wantAuditor: "auditor-1",
		},
		{
			name:       "missing header",
			validator:  stubValidator{auditor: "auditor-1"},
			wantStatus: http.StatusUnauthorized,
			wantDesc:   "Missing or invalid Authorization header",
		},
		{
			name:       "wrong scheme",
			header:     "Basic abc",
			validator:  stubValidator{auditor: "auditor-1"},
			wantStatus: http.StatusUnauthorized,
			wantDesc:   "Missing or invalid Authorization header",
		},
		{
			name:       "rejected token",
			header:     "Bearer bad",
			validator:  stubValidator{err: errors.New("boom")},
			wantStatus: http.StatusUnauthorized,
			wantDesc:   "Invalid or expired token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()

			RequireAuditor(tt.validator, logger)(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantAuditor, seen)
			if tt.wantDesc != "" {
				var body httputil.ErrorResponse
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
				assert.Equal(t, "unauthorized", body.Error)
				assert.Equal(t, tt.wantDesc, body.ErrorDescription)
			}
		})
	}
}
