package screening

import (
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"golang.org/x/crypto/blake2b"
)

// Engine runs the detection pipeline over one batch at a time. It holds no
// per-batch state, so one Engine can serve concurrent batches.
//
// This is pure domain logic - no I/O, no side effects.
type Engine struct {
	rules       Rules
	aliases     Aliases
	cluster     *clusterDetector
	fingerprint string
}

// Option customizes an Engine.
type Option func(*Engine)

// WithAliases replaces the column alias tables.
func WithAliases(a Aliases) Option {
	return func(e *Engine) {
		e.aliases = a.clone()
	}
}

// NewEngine validates rules and builds an Engine around a private copy of them.
func NewEngine(rules Rules, opts ...Option) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		rules:   rules,
		aliases: DefaultAliases(),
		cluster: newClusterDetector(rules.Cluster),
	}
	for _, opt := range opts {
		opt(e)
	}
	fp, err := fingerprint(e.rules, e.aliases)
	if err != nil {
		return nil, err
	}
	e.fingerprint = fp
	return e, nil
}

// fingerprint digests everything configurable that can change an outcome.
func fingerprint(rules Rules, aliases Aliases) (string, error) {
	data, err := json.Marshal(struct {
		Rules   Rules
		Aliases Aliases
	}{rules, aliases})
	if err != nil {
		return "", err
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:16]), nil
}

// MustNewEngine is NewEngine for rules known to be valid.
func MustNewEngine(rules Rules, opts ...Option) *Engine {
	e, err := NewEngine(rules, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

var defaultEngine = MustNewEngine(DefaultRules())

// Fingerprint identifies the engine's rules and aliases. Two engines with the
// same fingerprint produce the same outcome for the same batch and date.
func (e *Engine) Fingerprint() string {
	return e.fingerprint
}

// Rules returns a copy of the engine's rules.
func (e *Engine) Rules() Rules {
	return e.rules
}

// Normalize maps raw records onto ApplicationRecords, assigning ids in input
// order. processedAt supplies the default application date.
func (e *Engine) Normalize(raw []RawRecord, processedAt time.Time) []ApplicationRecord {
	records := make([]ApplicationRecord, len(raw))
	for i, r := range raw {
		records[i] = normalizeRecord(r, i, e.aliases, processedAt)
	}
	return records
}

// Detect returns every flag raised for records. Output order is fixed:
// insufficient data in record order, then aadhaar, bank and phone duplicates
// group by group, then gps clusters in record order.
func (e *Engine) Detect(records []ApplicationRecord) []FraudFlag {
	checks := e.rules.Duplicates.checks()
	duplicates := make([][]FraudFlag, len(checks))
	var clusters []FraudFlag

	var wg sync.WaitGroup
	for i, check := range checks {
		wg.Go(func() { duplicates[i] = detectDuplicates(records, check) })
	}
	wg.Go(func() { clusters = e.cluster.detect(records) })
	missing := detectMissing(records, e.rules.Missing)
	wg.Wait()

	flags := make([]FraudFlag, 0, len(missing)+len(clusters))
	flags = append(flags, missing...)
	for _, d := range duplicates {
		flags = append(flags, d...)
	}
	return append(flags, clusters...)
}

// Classify attaches each record's flags and risk level and summarizes the batch.
func (e *Engine) Classify(records []ApplicationRecord, flags []FraudFlag) ([]Result, Summary) {
	return Classify(records, flags)
}

// Screen runs the full pipeline: normalize, detect, classify.
func (e *Engine) Screen(raw []RawRecord, processedAt time.Time) Outcome {
	records := e.Normalize(raw, processedAt)
	results, summary := e.Classify(records, e.Detect(records))
	return Outcome{Summary: summary, Results: results}
}

// Detect runs detection with the default rules.
func Detect(records []ApplicationRecord) []FraudFlag {
	return defaultEngine.Detect(records)
}

// Classify attaches flags to their records, classifies each record and
// summarizes the batch. Flags keep the order they were detected in.
func Classify(records []ApplicationRecord, flags []FraudFlag) ([]Result, Summary) {
	byID := make(map[string][]FraudFlag, len(records))
	for _, f := range flags {
		byID[f.ApplicationID] = append(byID[f.ApplicationID], f)
	}

	results := make([]Result, len(records))
	for i, rec := range records {
		recordFlags := byID[rec.ID]
		if recordFlags == nil {
			recordFlags = []FraudFlag{}
		}
		level, _ := ClassifyFlags(recordFlags)
		results[i] = Result{
			ApplicationRecord: rec,
			RiskLevel:         level,
			Flags:             recordFlags,
		}
	}
	return results, Aggregate(results)
}
