package testutil

import (
	"net/http"
	"time"

	"fraudscreen/pkg/requestcontext"
)

// WithAuditor attaches an auditor ID the way RequireAuditor would after
// validating a bearer token. Blank IDs are ignored.
func WithAuditor(req *http.Request, auditorID string) *http.Request {
	if auditorID == "" {
		return req
	}
	return req.WithContext(requestcontext.WithAuditorID(req.Context(), auditorID))
}

// AtTime pins the request clock so processedAt and health timestamps are stable.
func AtTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}
