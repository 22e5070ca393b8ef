package model

import (
	"fmt"
	"strings"
	"time"
)

// StepKind identifies one of the three checks in the pipeline.
// The pipeline always runs them in declaration order:
//
//	Format → Lint → Build
type StepKind string

const (
	// StepFormat is the rustfmt check. It verifies formatting without
	// modifying files and is advisory by default: a failure is reported
	// but does not stop the run.
	StepFormat StepKind = "format"

	// StepLint is the clippy check with warnings and pedantic lints
	// promoted to hard errors. A failure stops the run.
	StepLint StepKind = "lint"

	// StepBuild compiles every target in the workspace. It is always the
	// last step, and its exit code becomes the run's exit code.
	StepBuild StepKind = "build"
)

// String returns the string representation of StepKind.
// This method satisfies the fmt.Stringer interface, enabling
// human-readable output in CLI commands and logging.
func (k StepKind) String() string {
	return string(k)
}

// IsValid checks whether the StepKind value is one of the
// predefined valid kinds.
func (k StepKind) IsValid() bool {
	switch k {
	case StepFormat, StepLint, StepBuild:
		return true
	default:
		return false
	}
}

// ParseStepKind converts a string to a StepKind.
// Returns an error if the string does not match any valid kind.
func ParseStepKind(s string) (StepKind, error) {
	kind := StepKind(strings.ToLower(s))
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid step kind: %q (valid: format, lint, build)", s)
	}
	return kind, nil
}

// StepStatus represents the outcome of a single pipeline step.
type StepStatus string

const (
	// StatusPassed indicates the step's command exited with code 0.
	StatusPassed StepStatus = "passed"

	// StatusFailed indicates the step's command exited non-zero.
	// Whether a failed step stops the run depends on its FailurePolicy.
	StatusFailed StepStatus = "failed"

	// StatusSkipped indicates the step never ran because an earlier
	// step stopped the run.
	StatusSkipped StepStatus = "skipped"
)

// String returns the string representation of StepStatus.
func (s StepStatus) String() string {
	return string(s)
}

// IsValid checks whether the StepStatus value is one of the
// predefined valid statuses.
func (s StepStatus) IsValid() bool {
	switch s {
	case StatusPassed, StatusFailed, StatusSkipped:
		return true
	default:
		return false
	}
}

// ParseStepStatus converts a string to a StepStatus.
// Returns an error if the string does not match any valid status.
func ParseStepStatus(s string) (StepStatus, error) {
	status := StepStatus(strings.ToLower(s))
	if !status.IsValid() {
		return "", fmt.Errorf("invalid step status: %q (valid: passed, failed, skipped)", s)
	}
	return status, nil
}

// FailurePolicy determines what a non-zero exit from a step does to the
// rest of the run. The three policies correspond to the three behaviors
// of the original CI script:
//
//   - the format check has no failure guard (advisory),
//   - the lint check aborts with a fixed exit 1 (fail-fixed),
//   - the build is the last command, so its code is the script's (propagate).
type FailurePolicy string

const (
	// PolicyAdvisory reports the failure and continues. The step's exit
	// code never contributes to the run's exit code.
	PolicyAdvisory FailurePolicy = "advisory"

	// PolicyFailFixed stops the run with exit code 1, regardless of the
	// exit code the underlying tool returned.
	PolicyFailFixed FailurePolicy = "fail-fixed"

	// PolicyPropagate stops the run with the underlying tool's own
	// exit code.
	PolicyPropagate FailurePolicy = "propagate"
)

// String returns the string representation of FailurePolicy.
func (p FailurePolicy) String() string {
	return string(p)
}

// IsValid checks whether the FailurePolicy value is one of the
// predefined valid policies.
func (p FailurePolicy) IsValid() bool {
	switch p {
	case PolicyAdvisory, PolicyFailFixed, PolicyPropagate:
		return true
	default:
		return false
	}
}

// FixedFailureCode is the exit code substituted by PolicyFailFixed.
// The original script hardcodes `exit 1` after the lint step; keeping
// the literal value preserves compatibility with automation that checks
// for it.
const FixedFailureCode = 1

// StepResult records the outcome of one executed (or skipped) step.
type StepResult struct {
	// Kind identifies which check this result belongs to.
	Kind StepKind `json:"kind"`

	// Argv is the full command line that was (or would have been) run,
	// including the program name.
	Argv []string `json:"argv"`

	// Status is the step outcome: passed, failed, or skipped.
	Status StepStatus `json:"status"`

	// ExitCode is the exit code of the step's command.
	// Zero for passed and skipped steps.
	ExitCode int `json:"exitCode"`

	// Duration is how long the command ran. Zero for skipped steps.
	Duration time.Duration `json:"duration"`
}

// Command returns the step's command line as a single shell-style string.
// Used for logging and the history store.
func (r *StepResult) Command() string {
	return strings.Join(r.Argv, " ")
}

// Run is the record of one full pipeline execution. This is the primary
// aggregate entity in the domain: the report renderers and the history
// store both consume it.
type Run struct {
	// ID is a UUID assigned when the run starts. It keys the run in the
	// history store and appears in verbose logs.
	ID string `json:"id"`

	// WorkspacePath is the absolute path to the Cargo workspace root the
	// checks ran against.
	WorkspacePath string `json:"workspacePath"`

	// StartedAt is the UTC timestamp when the first step started.
	StartedAt time.Time `json:"startedAt"`

	// Steps holds one result per pipeline step, in execution order.
	// Steps that never ran appear with StatusSkipped.
	Steps []StepResult `json:"steps"`

	// Duration is the wall-clock time of the whole run.
	Duration time.Duration `json:"duration"`

	// ExitCode is the exit code the process reports for this run.
	// Zero unless a non-advisory step failed.
	ExitCode int `json:"exitCode"`
}

// Passed reports whether the run as a whole succeeded. An advisory step
// may have failed even when Passed returns true.
func (r *Run) Passed() bool {
	return r.ExitCode == 0
}

// FailedStep returns the last failed step of the run, or nil if no step
// failed. When the run stopped early, the last failed step is the one
// that stopped it (advisory failures earlier in the run do not stop it).
func (r *Run) FailedStep() *StepResult {
	for i := len(r.Steps) - 1; i >= 0; i-- {
		if r.Steps[i].Status == StatusFailed {
			return &r.Steps[i]
		}
	}
	return nil
}

// ExitCode defines standard CLI exit codes. These codes allow scripts and
// CI systems to programmatically determine the outcome of a command.
//
// Note that a failed build is not in this list: the build step's own exit
// code is propagated as-is, whatever cargo returned.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitLintFailure indicates the lint step failed. It shares the
	// value 1 with ExitGeneralError on purpose — see FixedFailureCode.
	ExitLintFailure ExitCode = FixedFailureCode

	// ExitCargoNotFound indicates the cargo binary is not on PATH.
	ExitCargoNotFound ExitCode = 2

	// ExitWorkspaceNotFound indicates no Cargo workspace was found at or
	// above the working directory.
	ExitWorkspaceNotFound ExitCode = 3

	// ExitHistoryError indicates the run history store could not be
	// opened or read.
	ExitHistoryError ExitCode = 4
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
