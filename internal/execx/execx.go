// Package execx runs external commands and normalizes their exit codes.
//
// Every check in the pipeline is a subprocess (cargo fmt, cargo clippy,
// cargo build), so this package is the single place where exit codes are
// extracted from exec errors. Callers get a Result with a plain integer
// code instead of having to unwrap *exec.ExitError themselves.
package execx

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// TimeoutCode is the exit code reported when a command is killed because
// its context deadline expired. Matches the convention of coreutils
// timeout(1).
const TimeoutCode = 124

// Result holds the outcome of a finished command.
type Result struct {
	// Code is the command's exit code: 0 on success, the process's own
	// code on failure, TimeoutCode if the deadline expired, or 1 when
	// the command could not be started at all.
	Code int

	// Err is the error returned by exec, if any. For a plain non-zero
	// exit this is an *exec.ExitError; for a missing binary it is the
	// LookPath error.
	Err error
}

// Run executes a command in dir with stdin, stdout and stderr inherited
// from the current process. The check tools stream their own progress and
// diagnostics, so their output goes straight to the terminal.
func Run(ctx context.Context, dir, name string, args ...string) Result {
	log.Debugf("+ %s", strings.Join(append([]string{name}, args...), " "))

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	return Result{Code: exitCode(ctx, err), Err: err}
}

// Capture executes a command in dir and returns its stdout as a string.
// Stderr is discarded into the error (exec.ExitError.Stderr) rather than
// shown; this is for small plumbing commands like `cargo locate-project`.
func Capture(ctx context.Context, dir, name string, args ...string) (string, Result) {
	log.Debugf("+ %s", strings.Join(append([]string{name}, args...), " "))

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	out, err := cmd.Output()
	return string(out), Result{Code: exitCode(ctx, err), Err: err}
}

// WithTimeout returns a context that cancels after d. A non-positive d
// means no timeout.
func WithTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// exitCode maps an exec error to an integer exit code.
//
// The deadline check comes first: a process killed by the context
// deadline still surfaces as an *exec.ExitError, but with the signal
// code -1 rather than anything meaningful.
func exitCode(ctx context.Context, err error) int {
	if err == nil {
		return 0
	}
	if ctx.Err() == context.DeadlineExceeded {
		return TimeoutCode
	}
	if ee, ok := err.(*exec.ExitError); ok {
		return ee.ExitCode()
	}
	return 1
}
