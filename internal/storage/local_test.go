package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsweep/dbsweep/internal/domain/model"
)

func testArtifact(name string) model.DumpArtifact {
	return model.DumpArtifact{
		Job:      "sessions",
		Table:    "sessions",
		FileName: name,
		Data:     []byte("-- dump contents\n"),
		RowCount: 3,
	}
}

func TestLocalSink_Store(t *testing.T) {
	dir := t.TempDir()
	sink := NewLocalSink(dir, false, nil)

	location, err := sink.Store(context.Background(), testArtifact("sessions_20240102_030405.sql.gz"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sessions_20240102_030405.sql.gz"), location)

	data, err := os.ReadFile(location)
	require.NoError(t, err)
	assert.Equal(t, []byte("-- dump contents\n"), data)

	// No temp file debris left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLocalSink_CreatesBaseDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "dumps")
	sink := NewLocalSink(dir, false, nil)

	location, err := sink.Store(context.Background(), testArtifact("a.sql.gz"))
	require.NoError(t, err)

	_, err = os.Stat(location)
	assert.NoError(t, err)
}

func TestLocalSink_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	sink := NewLocalSink(dir, false, nil)
	artifact := testArtifact("a.sql.gz")

	_, err := sink.Store(context.Background(), artifact)
	require.NoError(t, err)

	_, err = sink.Store(context.Background(), artifact)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrArtifactExists)
}

func TestLocalSink_OverwriteAllowed(t *testing.T) {
	dir := t.TempDir()
	sink := NewLocalSink(dir, true, nil)
	artifact := testArtifact("a.sql.gz")

	_, err := sink.Store(context.Background(), artifact)
	require.NoError(t, err)

	artifact.Data = []byte("second\n")
	location, err := sink.Store(context.Background(), artifact)
	require.NoError(t, err)

	data, err := os.ReadFile(location)
	require.NoError(t, err)
	assert.Equal(t, []byte("second\n"), data)
}

func TestLocalSink_BasePathIsFile(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "dumps")
	require.NoError(t, os.WriteFile(base, []byte("not a directory"), 0o640))

	sink := NewLocalSink(base, false, nil)
	_, err := sink.Store(context.Background(), testArtifact("a.sql.gz"))
	assert.Error(t, err)
}

func TestLocalSink_CancelledContext(t *testing.T) {
	sink := NewLocalSink(t.TempDir(), false, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sink.Store(ctx, testArtifact("a.sql.gz"))
	assert.ErrorIs(t, err, context.Canceled)
}
