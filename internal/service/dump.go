package service

import (
	"bytes"
	"compress/gzip"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dbsweep/dbsweep/internal/domain/model"
	apperrors "github.com/dbsweep/dbsweep/internal/errors"
)

// dumpTimestampLayout matches the artifact naming of the original
// maintenance tooling: <table>_<YYYYMMDD_HHMMSS>.sql.gz.
const dumpTimestampLayout = "20060102_150405"

// EncodeArtifact serializes a row set into a gzip-compressed SQL dump of
// INSERT statements. The artifact is self-contained: replaying it restores
// exactly the rows that the paired DELETE removed.
func EncodeArtifact(job model.TableJob, rows *model.RowSet, now time.Time) (model.DumpArtifact, error) {
	target := job.Table
	if job.Schema != "" {
		target = job.Schema + "." + job.Table
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)

	header := fmt.Sprintf("-- dbsweep dump of %s (%d rows) at %s\n",
		target, rows.Len(), now.UTC().Format(time.RFC3339))
	if _, err := zw.Write([]byte(header)); err != nil {
		return model.DumpArtifact{}, apperrors.Wrapf(err, apperrors.ErrCodeDump, "write dump header")
	}

	insertPrefix := buildInsertPrefix(job, rows.Columns)
	for _, row := range rows.Rows {
		stmt := insertPrefix + renderValues(row) + ";\n"
		if _, err := zw.Write([]byte(stmt)); err != nil {
			return model.DumpArtifact{}, apperrors.Wrapf(err, apperrors.ErrCodeDump, "write dump row")
		}
	}

	if err := zw.Close(); err != nil {
		return model.DumpArtifact{}, apperrors.Wrapf(err, apperrors.ErrCodeDump, "finalize dump")
	}

	name := strings.ReplaceAll(target, ".", "_") + "_" + now.UTC().Format(dumpTimestampLayout) + ".sql.gz"
	return model.DumpArtifact{
		Job:      job.Name,
		Table:    job.Table,
		FileName: name,
		Data:     buf.Bytes(),
		RowCount: int64(rows.Len()),
	}, nil
}

func buildInsertPrefix(job model.TableJob, columns []string) string {
	target := quoteIdent(job.Table)
	if job.Schema != "" {
		target = quoteIdent(job.Schema) + "." + target
	}

	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdent(c)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES ", target, strings.Join(quoted, ", "))
}

func renderValues(row []any) string {
	parts := make([]string, len(row))
	for i, v := range row {
		parts[i] = renderValue(v)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// renderValue renders one scanned database value as a SQL literal.
func renderValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case time.Time:
		return quoteLiteral(val.UTC().Format(time.RFC3339Nano))
	case []byte:
		// Binary values must survive the round trip byte for byte; a raw
		// string literal breaks on NUL and non-UTF-8 bytes.
		return "'\\x" + hex.EncodeToString(val) + "'"
	case string:
		return quoteLiteral(val)
	default:
		return quoteLiteral(fmt.Sprintf("%v", val))
	}
}

// quoteLiteral single-quotes a string literal, doubling embedded quotes.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
