package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	dErrors "fraudscreen/pkg/domain-errors"
	"fraudscreen/pkg/platform/httputil"
	"fraudscreen/pkg/requestcontext"
)

// AuditorValidator validates a bearer token and returns the auditor it was
// issued to.
type AuditorValidator interface {
	ValidateAuditor(tokenString string) (string, error)
}

// RequireAuditor rejects requests without a valid bearer token and stores the
// auditor id in the request context.
func RequireAuditor(validator AuditorValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Missing or invalid Authorization header"))
				return
			}

			auditorID, err := validator.ValidateAuditor(strings.TrimSpace(token))
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Invalid or expired token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithAuditorID(ctx, auditorID)))
		})
	}
}
