package screening

import (
	"time"

	"github.com/google/uuid"
)

// Report is one screened batch as archived by the service. The HTTP response
// body is only the Outcome; the id travels in a header.
type Report struct {
	ID          uuid.UUID `json:"id"`
	ProcessedAt time.Time `json:"processedAt"`
	AuditorID   string    `json:"auditorId,omitempty"`
	Outcome
}

// FlagCounts tallies the report's flags per type.
func (r *Report) FlagCounts() map[FlagType]int {
	counts := make(map[FlagType]int, len(FlagTypes))
	for _, res := range r.Results {
		for _, f := range res.Flags {
			counts[f.Type]++
		}
	}
	return counts
}

// FlagsOfType returns every flag of type t in result order.
func (r *Report) FlagsOfType(t FlagType) []FraudFlag {
	out := []FraudFlag{}
	for _, res := range r.Results {
		for _, f := range res.Flags {
			if f.Type == t {
				out = append(out, f)
			}
		}
	}
	return out
}
