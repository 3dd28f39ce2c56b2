// Command dbsweep runs one configuration-driven maintenance pass: for every
// table job in the sweep document it evaluates the retention rule, optionally
// dumps the matching rows, deletes them, and appends an audit record. With
// --dry-run no mutating SQL is sent.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/dbsweep/dbsweep/internal/adapters/sweeper"
	"github.com/dbsweep/dbsweep/internal/bootstrap"
	"github.com/dbsweep/dbsweep/internal/domain/model"
	"github.com/dbsweep/dbsweep/internal/jobconfig"
	"github.com/dbsweep/dbsweep/internal/observability/statsd"
	"github.com/dbsweep/dbsweep/internal/util"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		dryRun      = flag.Bool("dry-run", false, "compute and log intended actions without mutating the database")
		dumpPreview = flag.Bool("dump-preview", false, "perform dump uploads even in dry-run mode")
		configPath  = flag.String("config", jobconfig.DefaultPath, "path to the sweep document")
	)
	flag.Parse()

	logger := bootstrap.InitLogger()

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.Error("load config", "error", err)
		return 2
	}

	jobs, err := jobconfig.Load(*configPath)
	if err != nil {
		logger.Error("load sweep document", "path", *configPath, "error", err)
		return 2
	}

	db, err := bootstrap.ConnectDB(cfg.Postgres, logger)
	if err != nil {
		logger.Error("connect database", "error", err)
		return 1
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("close database", "error", closeErr)
		}
	}()

	metrics, err := statsd.NewClient(statsd.Config{
		Enabled: cfg.Observability.IsMetricsEnabled(),
		Address: cfg.Observability.StatsdAddress,
		Prefix:  cfg.Observability.MetricsPrefix,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("connect statsd", "error", err)
		return 1
	}
	defer func() {
		if closeErr := metrics.Close(); closeErr != nil {
			logger.Error("close statsd", "error", closeErr)
		}
	}()

	// Cancellation stops the run at the next job boundary; a job that has
	// started its dump-then-delete sequence always completes it.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner, err := sweeper.NewRunner(ctx, sweeper.RunnerOptions{
		DB:          db,
		Config:      cfg,
		Jobs:        jobs,
		Logger:      logger,
		DryRun:      *dryRun,
		DumpPreview: *dumpPreview,
		Metrics:     metrics,
	})
	if err != nil {
		logger.Error("wire sweep runner", "error", err)
		return 1
	}
	defer func() {
		if closeErr := runner.Close(); closeErr != nil {
			logger.Error("close audit sink", "error", closeErr)
		}
	}()

	summary := runner.Run(ctx)

	logger.Info("sweep run finished",
		"run_id", summary.RunID,
		"mode", string(summary.Mode),
		"total", summary.Total,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
		"elapsed", summary.Elapsed,
	)
	printSummary(os.Stderr, summary)

	if summary.OK() {
		return 0
	}
	return 1
}

// printSummary writes a human-readable per-job table to w, alongside the
// structured audit stream.
func printSummary(w *os.File, summary model.RunSummary) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "JOB\tTABLE\tMATCHED\tDUMPED\tDELETED\tOUTCOME\tERROR\n")
	for _, rec := range summary.Records {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
			rec.Job, rec.Table, rec.MatchedCount, rec.DumpedCount, rec.DeletedCount,
			rec.Outcome, rec.Error)
	}
	fmt.Fprintf(tw, "\n%d/%d jobs succeeded (%s mode, %s)\n",
		summary.Succeeded, summary.Total, summary.Mode, util.FormatElapsed(summary.Elapsed))
	_ = tw.Flush()
}
