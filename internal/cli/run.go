// Package cli — run.go implements the "cargoci run" command, the full
// check pipeline.
package cli

import (
	"context"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ctfhacker/cargoci/internal/cargo"
	"github.com/ctfhacker/cargoci/internal/history"
	"github.com/ctfhacker/cargoci/internal/model"
	"github.com/ctfhacker/cargoci/internal/pipeline"
	"github.com/ctfhacker/cargoci/internal/report"
)

// runFlags holds the flag values for the run command.
type runFlags struct {
	strictFmt bool   // --strict-fmt: format drift fails the run
	noRecord  bool   // --no-record: skip the history store
	dbPath    string // --db: history database override
}

// newRunCommand creates the "run" cobra command.
func newRunCommand() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full check pipeline: format, lint, build",
		Long: `Run all three checks against the Cargo workspace, in order:

  1. cargo fmt --all -- --check          (advisory: never fails the run)
  2. cargo clippy --all-features --all-targets -- -D warnings -D clippy::pedantic
                                         (failure exits with code 1)
  3. cargo build --all-targets --verbose (its exit code is the run's)

With --strict-fmt, formatting drift stops the run and the formatter's
own exit code is propagated instead of being ignored.`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runChecks(cmd.Context(), flags)
		},
	}

	cmd.Flags().BoolVar(&flags.strictFmt, "strict-fmt", false, "Treat formatting drift as a failure")
	cmd.Flags().BoolVar(&flags.noRecord, "no-record", false, "Do not record this run in the history store")
	cmd.Flags().StringVar(&flags.dbPath, "db", "", "History database path (default: user cache directory)")

	return cmd
}

// runChecks resolves the workspace, executes the pipeline, records the
// run, prints the report, and translates the run's exit code into an
// error for Execute.
func runChecks(ctx context.Context, flags *runFlags) error {
	ws, err := cargo.Find(ctx, workDir)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(pipeline.NewExecutor(), stepTimeout)
	run := runner.Run(ctx, ws.Root, pipeline.Checks(flags.strictFmt))

	// Recording is best-effort: a broken history store must never change
	// the run's outcome.
	if !flags.noRecord {
		if recErr := recordRun(ctx, flags.dbPath, run); recErr != nil {
			log.WithError(recErr).Warn("could not record run in history")
		}
	}

	printRun(run)
	return runError(run)
}

// recordRun stores a completed run in the history database.
func recordRun(ctx context.Context, dbPath string, run *model.Run) error {
	path := dbPath
	if path == "" {
		var err error
		path, err = history.DefaultPath()
		if err != nil {
			return err
		}
	}

	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	return store.Record(ctx, run)
}

// printRun renders the run report in the selected output format.
func printRun(run *model.Run) {
	switch {
	case jsonOutput:
		if err := report.JSON(os.Stdout, run); err != nil {
			log.WithError(err).Error("rendering JSON report")
		}
	case yamlOutput:
		if err := report.YAML(os.Stdout, run); err != nil {
			log.WithError(err).Error("rendering YAML report")
		}
	default:
		report.Text(os.Stdout, run)
	}
}

// runError converts a finished run into the error Execute turns into the
// process exit code. A passing run returns nil.
func runError(run *model.Run) error {
	if run.Passed() {
		return nil
	}
	return model.NewCLIError(model.ExitCode(run.ExitCode), failureMessage(run))
}

// failureMessage names the step that stopped the run.
func failureMessage(run *model.Run) string {
	failed := run.FailedStep()
	if failed == nil {
		return "run failed"
	}
	switch failed.Kind {
	case model.StepFormat:
		return "formatting check failed"
	case model.StepLint:
		return "lint check failed"
	case model.StepBuild:
		return "build failed"
	default:
		return "run failed"
	}
}
