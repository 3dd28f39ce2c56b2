package audit

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsweep/dbsweep/internal/domain/model"
)

func testSlog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func record(job string, outcome model.Outcome) model.AuditRecord {
	return model.AuditRecord{
		RunID:        "run-1",
		Job:          job,
		Table:        job,
		Timestamp:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Mode:         model.RunModeLive,
		State:        model.JobStateRecorded,
		MatchedCount: 3,
		DeletedCount: 3,
		Outcome:      outcome,
	}
}

func readLines(t *testing.T, path string) []model.AuditRecord {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var out []model.AuditRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec model.AuditRecord
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		out = append(out, rec)
	}
	require.NoError(t, scanner.Err())
	return out
}

func TestLogger_FlushWritesJSONLinesInOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	logger, err := NewLogger(Config{Sink: path})
	require.NoError(t, err)
	defer logger.Close()

	logger.Record(record("sessions", model.OutcomeSuccess))
	logger.Record(record("request_logs", model.OutcomeFailure))
	require.NoError(t, logger.Flush())

	lines := readLines(t, path)
	require.Len(t, lines, 2)
	assert.Equal(t, "sessions", lines[0].Job)
	assert.Equal(t, model.OutcomeSuccess, lines[0].Outcome)
	assert.Equal(t, "request_logs", lines[1].Job)
	assert.Equal(t, model.OutcomeFailure, lines[1].Outcome)
	assert.Equal(t, "run-1", lines[0].RunID)
}

func TestLogger_FlushIsIncremental(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	logger, err := NewLogger(Config{Sink: path})
	require.NoError(t, err)
	defer logger.Close()

	logger.Record(record("a", model.OutcomeSuccess))
	require.NoError(t, logger.Flush())
	logger.Record(record("b", model.OutcomeSuccess))
	require.NoError(t, logger.Flush())
	// Flushing with nothing pending writes nothing new.
	require.NoError(t, logger.Flush())

	lines := readLines(t, path)
	require.Len(t, lines, 2)
	assert.Equal(t, "a", lines[0].Job)
	assert.Equal(t, "b", lines[1].Job)
}

func TestLogger_AppendsToExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"job":"earlier"}`+"\n"), 0o640))

	logger, err := NewLogger(Config{Sink: path})
	require.NoError(t, err)
	defer logger.Close()

	logger.Record(record("later", model.OutcomeSuccess))
	require.NoError(t, logger.Flush())

	lines := readLines(t, path)
	require.Len(t, lines, 2)
	assert.Equal(t, "earlier", lines[0].Job)
	assert.Equal(t, "later", lines[1].Job)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("sink unavailable") }

func TestLogger_WriteFailuresAreCounted(t *testing.T) {
	logger := &Logger{w: failingWriter{}, logger: testSlog()}
	logger.Record(record("a", model.OutcomeSuccess))
	logger.Record(record("b", model.OutcomeSuccess))

	err := logger.Flush()
	require.Error(t, err)
	assert.Equal(t, 2, logger.Failures())
}

func TestLogger_RecordsReturnsCopy(t *testing.T) {
	logger, err := NewLogger(Config{Sink: SinkStdout})
	require.NoError(t, err)

	logger.Record(record("a", model.OutcomeSuccess))
	got := logger.Records()
	require.Len(t, got, 1)

	got[0].Job = "mutated"
	assert.Equal(t, "a", logger.Records()[0].Job)
}

func TestNewLogger_BadSinkPath(t *testing.T) {
	_, err := NewLogger(Config{Sink: filepath.Join(t.TempDir(), "missing", "audit.jsonl")})
	assert.Error(t, err)
}
