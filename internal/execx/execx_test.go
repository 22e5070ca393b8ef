package execx

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRun_ExitCodes verifies that the real exit code of a subprocess is
// surfaced unchanged. The build step relies on this: cargo's own code
// becomes the run's code.
func TestRun_ExitCodes(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		code int
	}{
		{"success", []string{"sh", "-c", "exit 0"}, 0},
		{"failure", []string{"sh", "-c", "exit 1"}, 1},
		{"arbitrary code", []string{"sh", "-c", "exit 42"}, 42},
		{"cargo-style code", []string{"sh", "-c", "exit 101"}, 101},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Run(context.Background(), t.TempDir(), tt.argv[0], tt.argv[1:]...)
			assert.Equal(t, tt.code, res.Code)
		})
	}
}

// TestRun_MissingBinary verifies that an unstartable command reports
// code 1 with a non-nil error, not a panic or a zero code.
func TestRun_MissingBinary(t *testing.T) {
	res := Run(context.Background(), t.TempDir(), "definitely-not-a-real-binary-xyz")
	assert.Equal(t, 1, res.Code)
	assert.Error(t, res.Err)
}

// TestRun_Timeout verifies the coreutils-style 124 code when the context
// deadline kills the command.
func TestRun_Timeout(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	res := Run(ctx, t.TempDir(), "sleep", "5")
	assert.Equal(t, TimeoutCode, res.Code)
}

// TestCapture verifies stdout capture for plumbing commands.
func TestCapture(t *testing.T) {
	out, res := Capture(context.Background(), t.TempDir(), "sh", "-c", "echo hello")
	require.Zero(t, res.Code)
	assert.Equal(t, "hello\n", out)
}

// TestCapture_Failure verifies the exit code survives output capture.
func TestCapture_Failure(t *testing.T) {
	_, res := Capture(context.Background(), t.TempDir(), "sh", "-c", "exit 7")
	assert.Equal(t, 7, res.Code)
	assert.Error(t, res.Err)
}

// TestWithTimeout_NonPositive verifies that a zero timeout means "no
// deadline" rather than an immediately-cancelled context.
func TestWithTimeout_NonPositive(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), 0)
	defer cancel()

	_, hasDeadline := ctx.Deadline()
	assert.False(t, hasDeadline)
}
