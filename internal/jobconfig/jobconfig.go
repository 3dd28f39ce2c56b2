// Package jobconfig loads the declarative sweep document: the YAML file
// describing which tables to clean, under which retention rules, and where
// to dump matched rows before deletion.
package jobconfig

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dbsweep/dbsweep/internal/domain/model"
	apperrors "github.com/dbsweep/dbsweep/internal/errors"
	"github.com/dbsweep/dbsweep/internal/service"
)

// DefaultPath is used when --config is not provided.
const DefaultPath = "sweep.yml"

type document struct {
	Jobs []jobDocument `yaml:"jobs"`
}

type jobDocument struct {
	Name             string       `yaml:"name"`
	Table            string       `yaml:"table"`
	Schema           string       `yaml:"schema"`
	Order            int          `yaml:"order"`
	AllowFullTable   bool         `yaml:"allow_full_table"`
	CheckForeignKeys bool         `yaml:"check_foreign_keys"`
	Rule             ruleDocument `yaml:"rule"`
	Dump             dumpDocument `yaml:"dump"`
}

type ruleDocument struct {
	Kind      string `yaml:"kind"`
	Column    string `yaml:"column"`
	OlderThan string `yaml:"older_than"`
	Predicate string `yaml:"predicate"`
}

type dumpDocument struct {
	Enabled     bool   `yaml:"enabled"`
	Destination string `yaml:"destination"`
	Path        string `yaml:"path"`
	Overwrite   bool   `yaml:"overwrite"`
	Bucket      string `yaml:"bucket"`
	Prefix      string `yaml:"prefix"`
}

// Load reads and validates the sweep document at path. Every validation
// problem is a configuration error: the run aborts before touching the
// database. Unsafe rules (matching all rows without the override) are also
// rejected here, so a misconfigured document cannot empty a table by
// accident at execution time.
func Load(path string) ([]model.TableJob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeConfiguration, "read config file %q", path)
	}
	return Parse(data)
}

// Parse validates a sweep document held in memory.
func Parse(data []byte) ([]model.TableJob, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeConfiguration, "parse sweep document")
	}

	if len(doc.Jobs) == 0 {
		return nil, apperrors.Configuration("sweep document defines no jobs")
	}

	jobs := make([]model.TableJob, 0, len(doc.Jobs))
	seen := make(map[string]struct{}, len(doc.Jobs))
	for i, jd := range doc.Jobs {
		job, err := buildJob(i, jd)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[job.Name]; dup {
			return nil, apperrors.Configurationf("duplicate job name %q", job.Name)
		}
		seen[job.Name] = struct{}{}
		jobs = append(jobs, job)
	}

	// Validate each rule end to end by planning it once. This is the
	// fail-fast check: column and duration mistakes surface at load time,
	// not mid-run.
	now := time.Now()
	for _, job := range jobs {
		if _, err := service.BuildPlan(job, now); err != nil {
			return nil, err
		}
	}

	return jobs, nil
}

func buildJob(index int, jd jobDocument) (model.TableJob, error) {
	if jd.Table == "" {
		return model.TableJob{}, apperrors.Configurationf("job #%d: table is required", index+1)
	}
	if !service.ValidIdent(jd.Table) {
		return model.TableJob{}, apperrors.Configurationf("job #%d: invalid table identifier %q", index+1, jd.Table)
	}
	if jd.Schema != "" && !service.ValidIdent(jd.Schema) {
		return model.TableJob{}, apperrors.Configurationf("job #%d: invalid schema identifier %q", index+1, jd.Schema)
	}

	name := jd.Name
	if name == "" {
		name = jd.Table
	}

	rule, err := buildRule(name, jd)
	if err != nil {
		return model.TableJob{}, err
	}

	dump, err := buildDumpPolicy(name, jd.Dump)
	if err != nil {
		return model.TableJob{}, err
	}

	return model.TableJob{
		Name:             name,
		Schema:           jd.Schema,
		Table:            jd.Table,
		Rule:             rule,
		Dump:             dump,
		Order:            jd.Order,
		AllowFullTable:   jd.AllowFullTable,
		CheckForeignKeys: jd.CheckForeignKeys,
	}, nil
}

func buildRule(job string, jd jobDocument) (model.RetentionRule, error) {
	rd := jd.Rule
	kind := model.RuleKind(rd.Kind)
	if rd.Kind == "" {
		return model.RetentionRule{}, apperrors.ConfigurationField("rule.kind",
			fmt.Sprintf("job %q: retention rule is required", job))
	}
	if !kind.Valid() {
		return model.RetentionRule{}, apperrors.ConfigurationField("rule.kind",
			fmt.Sprintf("job %q: unknown rule kind %q (expected age, predicate, or truncate)", job, rd.Kind))
	}

	switch kind {
	case model.RuleKindAge:
		if rd.Column == "" {
			return model.RetentionRule{}, apperrors.ConfigurationField("rule.column",
				fmt.Sprintf("job %q: age rule requires a column", job))
		}
		if !service.ValidIdent(rd.Column) {
			return model.RetentionRule{}, apperrors.ConfigurationField("rule.column",
				fmt.Sprintf("job %q: invalid column identifier %q", job, rd.Column))
		}
		if rd.OlderThan == "" {
			return model.RetentionRule{}, apperrors.ConfigurationField("rule.older_than",
				fmt.Sprintf("job %q: age rule requires older_than", job))
		}
		olderThan, err := time.ParseDuration(rd.OlderThan)
		if err != nil {
			return model.RetentionRule{}, apperrors.ConfigurationField("rule.older_than",
				fmt.Sprintf("job %q: invalid older_than %q: %v", job, rd.OlderThan, err))
		}
		if olderThan <= 0 {
			return model.RetentionRule{}, apperrors.ConfigurationField("rule.older_than",
				fmt.Sprintf("job %q: older_than must be positive", job))
		}
		return model.RetentionRule{Kind: kind, Column: rd.Column, OlderThan: olderThan}, nil

	case model.RuleKindPredicate:
		if rd.Predicate == "" && !jd.AllowFullTable {
			return model.RetentionRule{}, apperrors.ConfigurationField("rule.predicate",
				fmt.Sprintf("job %q: predicate rule requires a predicate", job))
		}
		return model.RetentionRule{Kind: kind, Predicate: rd.Predicate}, nil

	case model.RuleKindTruncate:
		return model.RetentionRule{Kind: kind}, nil
	}

	return model.RetentionRule{}, apperrors.Internalf("unhandled rule kind %q", kind)
}

func buildDumpPolicy(job string, dd dumpDocument) (model.DumpPolicy, error) {
	if !dd.Enabled {
		return model.DumpPolicy{}, nil
	}

	dest := model.DumpDestination(dd.Destination)
	if dd.Destination == "" {
		dest = model.DumpDestinationLocal
	}
	if !dest.Valid() {
		return model.DumpPolicy{}, apperrors.ConfigurationField("dump.destination",
			fmt.Sprintf("job %q: unknown dump destination %q (expected local or s3)", job, dd.Destination))
	}

	policy := model.DumpPolicy{
		Enabled:     true,
		Destination: dest,
		Overwrite:   dd.Overwrite,
		Prefix:      dd.Prefix,
	}

	switch dest {
	case model.DumpDestinationLocal:
		if dd.Path == "" {
			return model.DumpPolicy{}, apperrors.ConfigurationField("dump.path",
				fmt.Sprintf("job %q: local dump requires a path", job))
		}
		policy.Path = dd.Path
	case model.DumpDestinationS3:
		// Bucket may come from the environment default; validated at wiring.
		policy.Bucket = dd.Bucket
	}

	return policy, nil
}
