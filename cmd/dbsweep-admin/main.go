// Command dbsweep-admin bundles maintenance helpers for operating dbsweep:
// validating a sweep document offline and seeding a development database with
// the demo tables the example document references.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/dbsweep/dbsweep/config"
	"github.com/dbsweep/dbsweep/internal/bootstrap"
	"github.com/dbsweep/dbsweep/internal/devseed"
	"github.com/dbsweep/dbsweep/internal/jobconfig"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
}

func main() {
	logger := bootstrap.InitLogger()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmdName)
		printUsage()
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"validate": {
			name:        "validate",
			description: "Validate a sweep document and print the resolved jobs",
			run:         runValidate,
		},
		"db-seed": {
			name:        "db-seed",
			description: "Create and populate the demo tables used by the example sweep document",
			run:         runDBSeed,
		},
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: dbsweep-admin <command> [flags]")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "commands:")

	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(os.Stderr, 0, 4, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(tw, "  %s\t%s\n", name, cmds[name].description)
	}
	_ = tw.Flush()
}

func runValidate(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	configPath := fs.String("config", jobconfig.DefaultPath, "path to the sweep document")
	if err := fs.Parse(args); err != nil {
		return err
	}

	jobs, err := jobconfig.Load(*configPath)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "JOB\tTABLE\tRULE\tDUMP\n")
	for _, job := range jobs {
		dump := "-"
		if job.Dump.Enabled {
			dump = string(job.Dump.Destination)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", job.Name, job.Table, job.Rule.Kind, dump)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	ctx.Logger.Info("sweep document is valid", "path", *configPath, "jobs", len(jobs))
	return nil
}

func runDBSeed(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("db-seed", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := bootstrap.ConnectDB(ctx.Config.Postgres, ctx.Logger)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			ctx.Logger.Error("close database", "error", closeErr)
		}
	}()

	return devseed.Run(ctx.Ctx, db, ctx.Logger)
}
