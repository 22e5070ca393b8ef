// Package cli — steps.go implements the single-step commands: "cargoci
// fmt", "cargoci lint" and "cargoci build".
//
// Single-step runs always propagate the tool's real exit code. The full
// pipeline's hardcoded exit 1 on lint failure exists only for
// compatibility with automation built around the original CI script;
// running one check in isolation has no such constraint.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ctfhacker/cargoci/internal/cargo"
	"github.com/ctfhacker/cargoci/internal/model"
	"github.com/ctfhacker/cargoci/internal/pipeline"
)

// newFmtCommand creates the "fmt" cobra command.
func newFmtCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fmt",
		Short: "Run only the formatting check",
		Long: `Run cargo fmt in check mode across the whole workspace. No files are
modified. Unlike the full pipeline, formatting drift here exits with
the formatter's own exit code.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSingle(cmd.Context(), model.StepFormat)
		},
	}
}

// newLintCommand creates the "lint" cobra command.
func newLintCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lint",
		Short: "Run only the clippy check",
		Long: `Run cargo clippy with all features and all targets, denying both
generic warnings and the pedantic lint category. Unlike the full
pipeline, a failure here exits with clippy's own exit code.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSingle(cmd.Context(), model.StepLint)
		},
	}
}

// newBuildCommand creates the "build" cobra command.
func newBuildCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Run only the build step",
		Long:  `Run cargo build for all targets with verbose output.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSingle(cmd.Context(), model.StepBuild)
		},
	}
}

// runSingle executes one check on its own. Single-step runs are not
// recorded in the history store — history tracks full pipeline runs.
func runSingle(ctx context.Context, kind model.StepKind) error {
	ws, err := cargo.Find(ctx, workDir)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(pipeline.NewExecutor(), stepTimeout)
	run := runner.Run(ctx, ws.Root, pipeline.Single(kind))

	printRun(run)
	return runError(run)
}
