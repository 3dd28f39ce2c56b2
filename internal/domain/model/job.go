package model

import (
	"time"
)

// RuleKind identifies a retention rule variant.
type RuleKind string

const (
	// RuleKindAge matches rows whose timestamp column is older than a duration.
	RuleKindAge RuleKind = "age"
	// RuleKindPredicate matches rows satisfying an operator-supplied SQL fragment.
	RuleKindPredicate RuleKind = "predicate"
	// RuleKindTruncate removes every row via TRUNCATE. Requires the
	// allow-full-table override on the job.
	RuleKindTruncate RuleKind = "truncate"
)

// Valid reports whether the rule kind is a known variant.
func (k RuleKind) Valid() bool {
	switch k {
	case RuleKindAge, RuleKindPredicate, RuleKindTruncate:
		return true
	}
	return false
}

// RetentionRule is a closed tagged variant describing which rows of a table
// are eligible for deletion. Only the fields for the active Kind are set.
type RetentionRule struct {
	Kind RuleKind

	// Age rule fields.
	Column    string
	OlderThan time.Duration

	// Predicate rule fields. The fragment is trusted operator input and is
	// rendered verbatim into the WHERE clause.
	Predicate string
}

// DumpDestination identifies where dump artifacts are persisted.
type DumpDestination string

const (
	// DumpDestinationLocal writes artifacts to the local filesystem.
	DumpDestinationLocal DumpDestination = "local"
	// DumpDestinationS3 uploads artifacts to an S3 bucket.
	DumpDestinationS3 DumpDestination = "s3"
)

// Valid reports whether the destination is a known variant.
func (d DumpDestination) Valid() bool {
	return d == DumpDestinationLocal || d == DumpDestinationS3
}

// DumpPolicy describes whether and where matched rows are dumped before
// deletion. Destination-specific fields follow the active Destination kind.
type DumpPolicy struct {
	Enabled     bool
	Destination DumpDestination

	// Local destination fields.
	Path      string
	Overwrite bool

	// S3 destination fields.
	Bucket string
	Prefix string
}

// TableJob is one configured cleanup job. Immutable once loaded.
type TableJob struct {
	// Name identifies the job in audit records. Defaults to the table name.
	Name   string
	Schema string
	Table  string

	Rule RetentionRule
	Dump DumpPolicy

	// Order is an execution order hint; lower runs first.
	Order int

	// AllowFullTable permits rules that match every row unconditionally.
	AllowFullTable bool

	// CheckForeignKeys logs foreign key constraints on the table into the
	// audit record before deletion.
	CheckForeignKeys bool
}
