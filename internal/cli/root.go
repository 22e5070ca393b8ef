// Package cli implements the cobra-based CLI commands for cargoci.
//
// Each subcommand (run, fmt, lint, build, history) is defined in its own
// file within this package. This file defines the root command that serves
// as the parent for all subcommands and handles global flags.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ctfhacker/cargoci/internal/model"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// workDir is the directory the workspace lookup starts from.
	// The checks themselves always run at the resolved workspace root.
	workDir string

	// jsonOutput switches the run report to JSON.
	jsonOutput bool

	// yamlOutput switches the run report to YAML.
	yamlOutput bool

	// verbose enables debug-level logging of every command the tool runs.
	verbose bool

	// stepTimeout bounds each individual check. Zero disables the bound.
	stepTimeout time.Duration
)

// Version, Commit and Date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
// This is the entry point for the entire CLI application.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cargoci",
		Short: "Sequential CI checks for Cargo workspaces",
		Long: `cargoci runs the standard CI checks for a Cargo workspace in a fixed
order: formatting check, clippy with warnings and pedantic lints denied,
then a verbose build of all targets.

The formatting check is advisory — it is reported but never fails the
run. A clippy failure stops the run with exit code 1. The build's exit
code becomes the run's exit code.`,

		// SilenceUsage prevents cobra from printing usage on every error.
		// We handle error output ourselves for cleaner UX.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// We format errors ourselves (text or JSON based on --json flag).
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging()
		},
	}

	// PersistentFlags are inherited by all subcommands.
	rootCmd.PersistentFlags().StringVarP(&workDir, "dir", "C", ".", "Directory to resolve the Cargo workspace from")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&yamlOutput, "yaml", false, "Output in YAML format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().DurationVar(&stepTimeout, "timeout", 10*time.Minute, "Per-step timeout (0 disables)")
	rootCmd.MarkFlagsMutuallyExclusive("json", "yaml")

	// Register subcommands. Each subcommand is defined in its own file
	// (run.go, steps.go, history.go) and returns a *cobra.Command.
	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newFmtCommand())
	rootCmd.AddCommand(newLintCommand())
	rootCmd.AddCommand(newBuildCommand())
	rootCmd.AddCommand(newHistoryCommand())

	return rootCmd
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// It inspects errors returned by cobra commands and translates them
// into appropriate OS exit codes. CLIError types carry their own
// exit codes; other errors default to exit code 1.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		if cliErr, ok := err.(*model.CLIError); ok {
			printError(cliErr.Message, cliErr.Err)
			os.Exit(int(cliErr.Code))
		}

		printError(err.Error(), nil)
		os.Exit(int(model.ExitGeneralError))
	}
}

// configureLogging sets up logrus for the whole process. Debug level
// exposes every subprocess invocation and per-step timing; the default
// warn level keeps the tool quiet so the checks' own output dominates.
func configureLogging() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		// Errors go to stderr even in JSON mode; stdout is reserved for
		// successful command output.
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		if underlying != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", message)
		}
	}
}
