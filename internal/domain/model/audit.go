package model

import "time"

// RunMode distinguishes live execution from dry-run previews.
type RunMode string

const (
	// RunModeLive executes mutating statements.
	RunModeLive RunMode = "live"
	// RunModeDryRun computes and logs intended actions without mutating.
	RunModeDryRun RunMode = "dry-run"
)

// Outcome is the terminal result of one job.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// JobState tracks a job through the engine's fixed-order state machine.
type JobState string

const (
	JobStatePending             JobState = "pending"
	JobStateRuleEvaluated       JobState = "rule_evaluated"
	JobStateDumpCompleted       JobState = "dump_completed"
	JobStateDumpSkipped         JobState = "dump_skipped"
	JobStateDeleted             JobState = "deleted"
	JobStateDeleteSkippedDryRun JobState = "delete_skipped_dry_run"
	JobStateRecorded            JobState = "recorded"
)

// ForeignKeyRef describes one foreign key constraint attached to a table,
// surfaced in audit records when check_foreign_keys is set.
type ForeignKeyRef struct {
	Constraint       string `json:"constraint"`
	Table            string `json:"table"`
	Column           string `json:"column"`
	ReferencedTable  string `json:"referenced_table"`
	ReferencedColumn string `json:"referenced_column"`
}

// AuditRecord is one append-only entry per job per run. Never mutated after
// the engine hands it to the audit recorder.
type AuditRecord struct {
	RunID     string    `json:"run_id"`
	Job       string    `json:"job"`
	Table     string    `json:"table"`
	Timestamp time.Time `json:"timestamp"`
	Mode      RunMode   `json:"mode"`
	State     JobState  `json:"state"`

	MatchedCount int64 `json:"matched_count"`
	DumpedCount  int64 `json:"dumped_count"`
	DeletedCount int64 `json:"deleted_count"`

	DumpLocation string          `json:"dump_location,omitempty"`
	Statement    string          `json:"statement,omitempty"`
	ForeignKeys  []ForeignKeyRef `json:"foreign_keys,omitempty"`

	Outcome Outcome `json:"outcome"`
	Error   string  `json:"error,omitempty"`
}

// RunSummary aggregates per-job outcomes for one invocation.
type RunSummary struct {
	RunID     string
	Mode      RunMode
	StartedAt time.Time
	Elapsed   time.Duration

	Total     int
	Succeeded int
	Failed    int
	// Skipped counts jobs never started because the run was cancelled at a
	// job boundary.
	Skipped int

	Records []AuditRecord
}

// OK reports whether every started job succeeded and none were skipped.
func (s RunSummary) OK() bool {
	return s.Failed == 0 && s.Skipped == 0
}
