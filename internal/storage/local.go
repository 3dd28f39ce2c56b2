// Package storage provides the dump artifact sinks: local filesystem and S3.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dbsweep/dbsweep/internal/domain/model"
)

// ErrArtifactExists is returned when a local dump target already exists and
// the policy does not allow overwriting.
var ErrArtifactExists = errors.New("dump artifact already exists")

// LocalSink writes dump artifacts beneath a base directory.
type LocalSink struct {
	baseDir   string
	overwrite bool
	logger    *slog.Logger
}

// NewLocalSink creates a sink rooted at baseDir. Parent directories are
// created on demand. Unless overwrite is set, an existing target path fails
// the store instead of being silently replaced.
func NewLocalSink(baseDir string, overwrite bool, logger *slog.Logger) *LocalSink {
	return &LocalSink{
		baseDir:   baseDir,
		overwrite: overwrite,
		logger:    logger,
	}
}

// Store writes the artifact bytes to <baseDir>/<filename>. The bytes are
// fully written and synced to a temporary file which is then renamed into
// place, so a successful return never reflects a partial write.
func (s *LocalSink) Store(ctx context.Context, artifact model.DumpArtifact) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.baseDir, 0o750); err != nil {
		return "", fmt.Errorf("create dump directory %s: %w", s.baseDir, err)
	}

	target := filepath.Join(s.baseDir, artifact.FileName)
	if !s.overwrite {
		if _, err := os.Lstat(target); err == nil {
			return "", fmt.Errorf("%w: %s", ErrArtifactExists, target)
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("stat dump target %s: %w", target, err)
		}
	}

	if err := writeAtomic(target, artifact.Data); err != nil {
		return "", err
	}

	if s.logger != nil {
		s.logger.Info("dump written",
			"path", target, "bytes", len(artifact.Data), "rows", artifact.RowCount)
	}
	return target, nil
}

func writeAtomic(target string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".tmp*")
	if err != nil {
		return fmt.Errorf("create temp dump file: %w", err)
	}
	tmpName := tmp.Name()

	cleanup := func(cause error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return cause
	}

	if _, err := tmp.Write(data); err != nil {
		return cleanup(fmt.Errorf("write dump file: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(fmt.Errorf("sync dump file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close dump file: %w", err)
	}

	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("finalize dump file %s: %w", target, err)
	}
	return nil
}
