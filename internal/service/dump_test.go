package service

import (
	"bytes"
	"compress/gzip"
	"io"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsweep/dbsweep/internal/domain/model"
)

func gunzip(t *testing.T, data []byte) string {
	t.Helper()
	zr, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	out, err := io.ReadAll(zr)
	require.NoError(t, err)
	require.NoError(t, zr.Close())
	return string(out)
}

func TestEncodeArtifact(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC)
	job := model.TableJob{Name: "sessions", Table: "sessions"}
	rows := &model.RowSet{
		Columns: []string{"id", "user", "active", "created_at", "note"},
		Rows: [][]any{
			{int64(1), "alice", true, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), nil},
			{int64(2), "bob's", false, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), []byte("x")},
		},
	}

	artifact, err := EncodeArtifact(job, rows, now)
	require.NoError(t, err)

	assert.Equal(t, "sessions", artifact.Job)
	assert.Equal(t, "sessions_20240301_123045.sql.gz", artifact.FileName)
	assert.Equal(t, int64(2), artifact.RowCount)

	sql := gunzip(t, artifact.Data)
	assert.Contains(t, sql, "-- dbsweep dump of sessions (2 rows)")
	assert.Contains(t, sql,
		`INSERT INTO "sessions" ("id", "user", "active", "created_at", "note") VALUES (1, 'alice', TRUE, '2024-01-02T03:04:05Z', NULL);`)
	// Embedded quotes are doubled.
	assert.Contains(t, sql, `'bob''s'`)
	assert.Contains(t, sql, "FALSE")
}

// Binary columns are hex-encoded so the dump stays valid SQL regardless of
// the bytes involved.
func TestEncodeArtifact_BinaryColumns(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	job := model.TableJob{Name: "blobs", Table: "blobs"}
	rows := &model.RowSet{
		Columns: []string{"id", "payload"},
		Rows: [][]any{
			{int64(1), []byte{0x00, 0x27, 0x80, 0xff}},
		},
	}

	artifact, err := EncodeArtifact(job, rows, now)
	require.NoError(t, err)

	sql := gunzip(t, artifact.Data)
	assert.True(t, utf8.ValidString(sql), "dump must not carry raw binary bytes")
	assert.Contains(t, sql, `INSERT INTO "blobs" ("id", "payload") VALUES (1, '\x002780ff');`)
	assert.NotContains(t, sql, "\x00")
}

func TestEncodeArtifact_SchemaQualified(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	job := model.TableJob{Name: "archive", Schema: "app", Table: "events"}
	rows := &model.RowSet{Columns: []string{"id"}, Rows: [][]any{{int64(7)}}}

	artifact, err := EncodeArtifact(job, rows, now)
	require.NoError(t, err)

	assert.Equal(t, "app_events_20240301_000000.sql.gz", artifact.FileName)
	sql := gunzip(t, artifact.Data)
	assert.Contains(t, sql, `INSERT INTO "app"."events" ("id") VALUES (7);`)
}

func TestEncodeArtifact_EmptyRowSet(t *testing.T) {
	job := model.TableJob{Name: "sessions", Table: "sessions"}
	artifact, err := EncodeArtifact(job, &model.RowSet{Columns: []string{"id"}}, time.Now())
	require.NoError(t, err)

	assert.Equal(t, int64(0), artifact.RowCount)
	sql := gunzip(t, artifact.Data)
	assert.NotContains(t, sql, "INSERT INTO")
}

func TestRenderValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, "NULL"},
		{true, "TRUE"},
		{false, "FALSE"},
		{int64(-5), "-5"},
		{float64(1.5), "1.5"},
		{"it's", "'it''s'"},
		{[]byte("raw"), `'\x726177'`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, renderValue(tt.in))
	}
}
