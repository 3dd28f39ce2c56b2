package model

// ExecutionPlan holds the concrete statements derived from a TableJob's
// retention rule for one run. The SELECT, COUNT, and DELETE statements share
// the Where fragment verbatim: what is dumped is exactly what is deleted.
// Plans are ephemeral and recomputed per run, never persisted.
type ExecutionPlan struct {
	// Where is the shared filter fragment, without the WHERE keyword.
	// Empty only for truncate plans.
	Where string
	// Args are bind parameters referenced by Where ($1, $2, ...).
	Args []any

	SelectSQL string
	CountSQL  string
	DeleteSQL string

	// Truncate marks a plan whose delete statement is a TRUNCATE; the
	// database reports zero affected rows for it, so the engine substitutes
	// the matched count.
	Truncate bool
}

// RowSet is a materialized result of an ExecutionPlan's SELECT, handed to the
// dump encoder.
type RowSet struct {
	Columns []string
	Rows    [][]any
}

// Len returns the number of materialized rows.
func (rs *RowSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Rows)
}

// DumpArtifact is the serialized row set produced before deletion. It is
// owned transiently by the execution engine, handed to exactly one storage
// sink, and then discarded.
type DumpArtifact struct {
	Job      string
	Table    string
	FileName string
	// Data holds the gzip-compressed SQL dump.
	Data []byte
	// RowCount is the number of rows serialized into Data.
	RowCount int64
}
