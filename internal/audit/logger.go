// Package audit buffers append-only records of every sweep decision and
// flushes them as JSON lines to a configured sink.
package audit

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/dbsweep/dbsweep/internal/core"
	"github.com/dbsweep/dbsweep/internal/domain/model"
)

// SinkStdout selects the process stdout as the audit sink.
const SinkStdout = "stdout"

// Config describes where audit records are written.
type Config struct {
	// Sink is "stdout" or a file path opened in append mode.
	Sink   string
	Logger *slog.Logger
}

// Logger accumulates audit records in order of job processing and writes
// them as one JSON object per line on Flush. Record never fails the run:
// serialization and write failures are counted and reported through the
// fallback logger instead.
type Logger struct {
	mu      sync.Mutex
	records []model.AuditRecord
	flushed int

	w      io.Writer
	closer io.Closer
	logger *slog.Logger

	failures int
}

var _ core.AuditRecorder = (*Logger)(nil)

// NewLogger opens the configured sink. File sinks are opened append-only and
// created if missing.
func NewLogger(cfg Config) (*Logger, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	l := &Logger{logger: logger}

	if cfg.Sink == "" || cfg.Sink == SinkStdout {
		l.w = os.Stdout
		return l, nil
	}

	f, err := os.OpenFile(cfg.Sink, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return nil, fmt.Errorf("open audit sink %s: %w", cfg.Sink, err)
	}
	l.w = f
	l.closer = f
	return l, nil
}

// Record appends one record to the buffer. It never returns an error.
func (l *Logger) Record(rec model.AuditRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, rec)
}

// Flush writes all buffered records that have not been written yet, in the
// order they were recorded. On return without error, the records are durable
// in the sink. Individual record serialization failures are skipped and
// counted rather than blocking the remaining records.
func (l *Logger) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var errs []error
	for ; l.flushed < len(l.records); l.flushed++ {
		line, err := json.Marshal(l.records[l.flushed])
		if err != nil {
			l.failures++
			l.logger.Error("audit record serialization failed",
				"job", l.records[l.flushed].Job, "error", err)
			continue
		}
		if _, err := l.w.Write(append(line, '\n')); err != nil {
			l.failures++
			errs = append(errs, fmt.Errorf("write audit record: %w", err))
		}
	}

	if f, ok := l.w.(*os.File); ok && f != os.Stdout {
		if err := f.Sync(); err != nil {
			errs = append(errs, fmt.Errorf("sync audit sink: %w", err))
		}
	}

	return errors.Join(errs...)
}

// Failures reports how many records could not be serialized or written.
func (l *Logger) Failures() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.failures
}

// Records returns a copy of everything recorded so far, in order.
func (l *Logger) Records() []model.AuditRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.AuditRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Close flushes pending records and releases the file sink, if any.
func (l *Logger) Close() error {
	flushErr := l.Flush()
	if l.closer != nil {
		if err := l.closer.Close(); err != nil {
			return errors.Join(flushErr, fmt.Errorf("close audit sink: %w", err))
		}
	}
	return flushErr
}
