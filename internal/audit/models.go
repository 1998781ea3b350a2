package audit

import "time"

// Action names an audited operation.
type Action string

const (
	ActionBatchScreened Action = "batch_screened"
	ActionReportViewed  Action = "report_viewed"
)

// Event is emitted when an auditor screens a batch or opens an archived
// report. It carries counts only, never applicant data.
type Event struct {
	Action    Action    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	ReportID  string    `json:"report_id"`
	AuditorID string    `json:"auditor_id,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	ClientIP  string    `json:"client_ip,omitempty"`
	// Client is a short browser/OS description derived from the User-Agent.
	Client     string `json:"client,omitempty"`
	Total      int    `json:"total"`
	HighRisk   int    `json:"high_risk"`
	MediumRisk int    `json:"medium_risk"`
	LowRisk    int    `json:"low_risk"`
	CacheHit   bool   `json:"cache_hit,omitempty"`
}
