package service

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dbsweep/dbsweep/internal/domain/model"
	apperrors "github.com/dbsweep/dbsweep/internal/errors"
)

// identPattern restricts table, schema, and column names to plain SQL
// identifiers so they can be safely double-quoted.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdent reports whether s can be used as a quoted SQL identifier.
func ValidIdent(s string) bool {
	return identPattern.MatchString(s)
}

// quoteIdent double-quotes a validated identifier.
func quoteIdent(s string) string {
	return `"` + s + `"`
}

// Fragments that reduce to one of these match every row unconditionally.
var trivialPredicates = map[string]struct{}{
	"":     {},
	"true": {},
	"1=1":  {},
}

// isUnboundedPredicate reports whether the fragment places no restriction on
// the rows it matches. Parentheses and whitespace are ignored.
func isUnboundedPredicate(fragment string) bool {
	s := strings.ToLower(fragment)
	s = strings.NewReplacer(" ", "", "\t", "", "\n", "", "(", "", ")", "").Replace(s)
	_, ok := trivialPredicates[s]
	return ok
}

// BuildPlan translates a job's retention rule into the concrete SELECT,
// COUNT, and DELETE statements for this run. The three statements share one
// WHERE fragment verbatim; that identity is what guarantees the dumped rows
// are exactly the deleted rows.
//
// Rules that match the whole table (truncate, or an unbounded predicate)
// fail with an unsafe-rule error unless the job sets allow_full_table.
func BuildPlan(job model.TableJob, now time.Time) (model.ExecutionPlan, error) {
	target, err := tableIdent(job)
	if err != nil {
		return model.ExecutionPlan{}, err
	}

	switch job.Rule.Kind {
	case model.RuleKindAge:
		return buildAgePlan(job, target, now)
	case model.RuleKindPredicate:
		return buildPredicatePlan(job, target)
	case model.RuleKindTruncate:
		return buildTruncatePlan(job, target)
	default:
		// Unknown kinds are rejected at config load; reaching here is a bug.
		return model.ExecutionPlan{}, apperrors.Internalf("unknown rule kind %q for job %q", job.Rule.Kind, job.Name)
	}
}

func tableIdent(job model.TableJob) (string, error) {
	if !ValidIdent(job.Table) {
		return "", apperrors.Configurationf("job %q: invalid table identifier %q", job.Name, job.Table)
	}
	if job.Schema == "" {
		return quoteIdent(job.Table), nil
	}
	if !ValidIdent(job.Schema) {
		return "", apperrors.Configurationf("job %q: invalid schema identifier %q", job.Name, job.Schema)
	}
	return quoteIdent(job.Schema) + "." + quoteIdent(job.Table), nil
}

func buildAgePlan(job model.TableJob, target string, now time.Time) (model.ExecutionPlan, error) {
	if !ValidIdent(job.Rule.Column) {
		return model.ExecutionPlan{}, apperrors.Configurationf(
			"job %q: invalid column identifier %q", job.Name, job.Rule.Column)
	}
	if job.Rule.OlderThan <= 0 {
		return model.ExecutionPlan{}, apperrors.Configurationf(
			"job %q: age rule requires a positive older_than duration", job.Name)
	}

	where := fmt.Sprintf("%s < $1", quoteIdent(job.Rule.Column))
	cutoff := now.Add(-job.Rule.OlderThan).UTC()
	return planForWhere(target, where, []any{cutoff}), nil
}

func buildPredicatePlan(job model.TableJob, target string) (model.ExecutionPlan, error) {
	fragment := strings.TrimSpace(job.Rule.Predicate)
	if isUnboundedPredicate(fragment) && !job.AllowFullTable {
		return model.ExecutionPlan{}, apperrors.UnsafeRulef(
			"job %q: predicate matches all rows of %s; set allow_full_table to proceed", job.Name, target)
	}
	if fragment == "" {
		// Even with the override an empty fragment is not renderable SQL.
		fragment = "true"
	}

	where := "(" + fragment + ")"
	return planForWhere(target, where, nil), nil
}

func buildTruncatePlan(job model.TableJob, target string) (model.ExecutionPlan, error) {
	if !job.AllowFullTable {
		return model.ExecutionPlan{}, apperrors.UnsafeRulef(
			"job %q: truncate removes every row of %s; set allow_full_table to proceed", job.Name, target)
	}

	return model.ExecutionPlan{
		SelectSQL: fmt.Sprintf("SELECT * FROM %s", target),
		CountSQL:  fmt.Sprintf("SELECT COUNT(*) FROM %s", target),
		DeleteSQL: fmt.Sprintf("TRUNCATE TABLE %s", target),
		Truncate:  true,
	}, nil
}

func planForWhere(target, where string, args []any) model.ExecutionPlan {
	return model.ExecutionPlan{
		Where:     where,
		Args:      args,
		SelectSQL: fmt.Sprintf("SELECT * FROM %s WHERE %s", target, where),
		CountSQL:  fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", target, where),
		DeleteSQL: fmt.Sprintf("DELETE FROM %s WHERE %s", target, where),
	}
}
