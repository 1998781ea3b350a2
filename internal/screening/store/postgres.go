package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"fraudscreen/internal/screening"
	"fraudscreen/pkg/platform/sentinel"
	"fraudscreen/pkg/platform/tx"
)

const schema = `
CREATE TABLE IF NOT EXISTS screening_reports (
	id           UUID PRIMARY KEY,
	processed_at TIMESTAMPTZ NOT NULL,
	auditor_id   TEXT NOT NULL DEFAULT '',
	total        INTEGER NOT NULL,
	high_risk    INTEGER NOT NULL,
	medium_risk  INTEGER NOT NULL,
	low_risk     INTEGER NOT NULL,
	results      JSON NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_screening_reports_processed_at ON screening_reports (processed_at DESC);

CREATE TABLE IF NOT EXISTS screening_flags (
	report_id      UUID NOT NULL REFERENCES screening_reports (id) ON DELETE CASCADE,
	position       INTEGER NOT NULL,
	application_id TEXT NOT NULL,
	flag_type      TEXT NOT NULL,
	related_to     TEXT[] NOT NULL,
	confidence     INTEGER NOT NULL,
	description    TEXT NOT NULL,
	PRIMARY KEY (report_id, position)
);
CREATE INDEX IF NOT EXISTS idx_screening_flags_type ON screening_flags (report_id, flag_type);
`

// PostgresStore archives reports in PostgreSQL. Results are kept as JSON, not
// JSONB, so originalData keeps its column order and a report reads back as it
// was returned. Flags are also stored one per row for querying by type.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed report store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the report tables when missing.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate screening tables: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Save writes the report and its flags in one transaction. If ctx already
// carries a transaction, Save joins it instead.
func (s *PostgresStore) Save(ctx context.Context, report *screening.Report) error {
	if report == nil {
		return fmt.Errorf("report is required")
	}
	return tx.Run(ctx, s.db, func(ctx context.Context, sqlTx *sql.Tx) error {
		return s.save(ctx, sqlTx, report)
	})
}

func (s *PostgresStore) save(ctx context.Context, db execer, report *screening.Report) error {
	results, err := json.Marshal(report.Results)
	if err != nil {
		return fmt.Errorf("encode report results: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO screening_reports (id, processed_at, auditor_id, total, high_risk, medium_risk, low_risk, results)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, report.ID, report.ProcessedAt, report.AuditorID,
		report.Summary.Total, report.Summary.HighRisk, report.Summary.MediumRisk, report.Summary.LowRisk,
		results)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}

	position := 0
	for _, res := range report.Results {
		for _, f := range res.Flags {
			_, err := db.ExecContext(ctx, `
				INSERT INTO screening_flags (report_id, position, application_id, flag_type, related_to, confidence, description)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, report.ID, position, f.ApplicationID, string(f.Type), pq.Array(f.RelatedTo), f.Confidence, f.Description)
			if err != nil {
				return fmt.Errorf("insert flag: %w", err)
			}
			position++
		}
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*screening.Report, error) {
	var (
		report  = &screening.Report{ID: id}
		results []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT processed_at, auditor_id, total, high_risk, medium_risk, low_risk, results
		FROM screening_reports WHERE id = $1
	`, id).Scan(&report.ProcessedAt, &report.AuditorID,
		&report.Summary.Total, &report.Summary.HighRisk, &report.Summary.MediumRisk, &report.Summary.LowRisk,
		&results)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find report: %w", err)
	}
	if err := json.Unmarshal(results, &report.Results); err != nil {
		return nil, fmt.Errorf("decode report results: %w", err)
	}
	return report, nil
}

// FlagsByType reads one report's flags of type t from the flag table.
func (s *PostgresStore) FlagsByType(ctx context.Context, id uuid.UUID, t screening.FlagType) ([]screening.FraudFlag, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM screening_reports WHERE id = $1)`, id,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check report: %w", err)
	}
	if !exists {
		return nil, sentinel.ErrNotFound
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT application_id, related_to, confidence, description
		FROM screening_flags
		WHERE report_id = $1 AND flag_type = $2
		ORDER BY position
	`, id, string(t))
	if err != nil {
		return nil, fmt.Errorf("query flags: %w", err)
	}
	defer rows.Close()

	flags := []screening.FraudFlag{}
	for rows.Next() {
		f := screening.FraudFlag{Type: t}
		var related []string
		if err := rows.Scan(&f.ApplicationID, pq.Array(&related), &f.Confidence, &f.Description); err != nil {
			return nil, fmt.Errorf("scan flag: %w", err)
		}
		if related == nil {
			related = []string{}
		}
		f.RelatedTo = related
		flags = append(flags, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate flags: %w", err)
	}
	return flags, nil
}

func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]ReportSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, processed_at, auditor_id, total, high_risk, medium_risk, low_risk
		FROM screening_reports
		ORDER BY processed_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	out := []ReportSummary{}
	for rows.Next() {
		var r screening.Report
		if err := rows.Scan(&r.ID, &r.ProcessedAt, &r.AuditorID,
			&r.Summary.Total, &r.Summary.HighRisk, &r.Summary.MediumRisk, &r.Summary.LowRisk); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		out = append(out, summarize(&r))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return out, nil
}
