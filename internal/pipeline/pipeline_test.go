package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctfhacker/cargoci/internal/model"
)

// runWith executes the default check pipeline against a fake executor
// and returns the completed run.
func runWith(t *testing.T, fake *FakeExecutor, strictFmt bool) *model.Run {
	t.Helper()
	runner := NewRunner(fake, 0)
	run := runner.Run(context.Background(), "/ws", Checks(strictFmt))
	require.Len(t, run.Steps, 3, "every pipeline step must appear in the run record")
	return run
}

// TestRun_AllPass: when every tool succeeds the run exits 0 and all steps
// are recorded as passed.
func TestRun_AllPass(t *testing.T) {
	fake := NewFakeExecutor()
	run := runWith(t, fake, false)

	assert.Equal(t, 0, run.ExitCode)
	assert.True(t, run.Passed())
	for _, step := range run.Steps {
		assert.Equal(t, model.StatusPassed, step.Status)
	}
}

// TestRun_Ordering: steps always execute as format, then lint, then build —
// never reordered, never skipped on success.
func TestRun_Ordering(t *testing.T) {
	fake := NewFakeExecutor()
	runWith(t, fake, false)

	assert.Equal(t, []string{"fmt", "clippy", "build"}, fake.ExecutedSubcommands())
}

// TestRun_FormatFailureIsAdvisory: a failing format check is recorded but
// does not stop the run or affect its exit code.
func TestRun_FormatFailureIsAdvisory(t *testing.T) {
	fake := NewFakeExecutor().FailWith(model.StepFormat, 1)
	run := runWith(t, fake, false)

	// All three tools still ran.
	assert.Equal(t, []string{"fmt", "clippy", "build"}, fake.ExecutedSubcommands())

	// The failure is visible in the record but invisible in the exit code.
	assert.Equal(t, model.StatusFailed, run.Steps[0].Status)
	assert.Equal(t, 0, run.ExitCode)
	assert.True(t, run.Passed())
}

// TestRun_LintFailureExitsOne: any non-zero clippy exit stops the run with
// exactly 1, regardless of the code clippy actually returned.
func TestRun_LintFailureExitsOne(t *testing.T) {
	for _, clippyCode := range []int{1, 2, 101, 255} {
		fake := NewFakeExecutor().FailWith(model.StepLint, clippyCode)
		run := runWith(t, fake, false)

		assert.Equal(t, 1, run.ExitCode,
			"clippy exit %d must surface as run exit 1", clippyCode)

		// The real code is still recorded for the report and history.
		assert.Equal(t, clippyCode, run.Steps[1].ExitCode)

		// The build never ran.
		assert.Equal(t, []string{"fmt", "clippy"}, fake.ExecutedSubcommands())
		assert.Equal(t, model.StatusSkipped, run.Steps[2].Status)
	}
}

// TestRun_BuildFailurePropagates: the build step's exit code becomes the
// run's exit code unchanged.
func TestRun_BuildFailurePropagates(t *testing.T) {
	for _, buildCode := range []int{1, 42, 101} {
		fake := NewFakeExecutor().FailWith(model.StepBuild, buildCode)
		run := runWith(t, fake, false)

		assert.Equal(t, buildCode, run.ExitCode)
		assert.Equal(t, model.StatusFailed, run.Steps[2].Status)
	}
}

// TestRun_FormatFailureThenBuildFailure: the advisory format failure does
// not mask the build's code.
func TestRun_FormatFailureThenBuildFailure(t *testing.T) {
	fake := NewFakeExecutor().
		FailWith(model.StepFormat, 1).
		FailWith(model.StepBuild, 42)
	run := runWith(t, fake, false)

	assert.Equal(t, 42, run.ExitCode)
}

// TestRun_StrictFmt: with strict formatting the format check stops the run
// and propagates the formatter's real exit code.
func TestRun_StrictFmt(t *testing.T) {
	fake := NewFakeExecutor().FailWith(model.StepFormat, 3)
	run := runWith(t, fake, true)

	assert.Equal(t, 3, run.ExitCode)
	assert.Equal(t, []string{"fmt"}, fake.ExecutedSubcommands())
	assert.Equal(t, model.StatusSkipped, run.Steps[1].Status)
	assert.Equal(t, model.StatusSkipped, run.Steps[2].Status)
}

// TestRun_RecordShape: the run carries an ID, the workspace path, and a
// result for every configured step even when the run stops early.
func TestRun_RecordShape(t *testing.T) {
	fake := NewFakeExecutor().FailWith(model.StepLint, 101)
	runner := NewRunner(fake, 0)

	run := runner.Run(context.Background(), "/some/workspace", Checks(false))

	assert.NotEmpty(t, run.ID)
	assert.Equal(t, "/some/workspace", run.WorkspacePath)
	assert.False(t, run.StartedAt.IsZero())
	require.Len(t, run.Steps, 3)

	// Every executed command ran in the workspace directory.
	for _, dir := range fake.Dirs {
		assert.Equal(t, "/some/workspace", dir)
	}
}

// TestChecks_Policies pins the default policy assignment: this is the
// contract the whole tool exists to enforce.
func TestChecks_Policies(t *testing.T) {
	steps := Checks(false)
	require.Len(t, steps, 3)

	assert.Equal(t, model.StepFormat, steps[0].Kind)
	assert.Equal(t, model.PolicyAdvisory, steps[0].Policy)

	assert.Equal(t, model.StepLint, steps[1].Kind)
	assert.Equal(t, model.PolicyFailFixed, steps[1].Policy)

	assert.Equal(t, model.StepBuild, steps[2].Kind)
	assert.Equal(t, model.PolicyPropagate, steps[2].Policy)
}

// TestChecks_StrictFmtPolicy: strict mode only changes the format step.
func TestChecks_StrictFmtPolicy(t *testing.T) {
	steps := Checks(true)
	require.Len(t, steps, 3)

	assert.Equal(t, model.PolicyPropagate, steps[0].Policy)
	assert.Equal(t, model.PolicyFailFixed, steps[1].Policy)
	assert.Equal(t, model.PolicyPropagate, steps[2].Policy)
}

// TestSingle: single-step pipelines always propagate the tool's own code.
func TestSingle(t *testing.T) {
	for _, kind := range []model.StepKind{model.StepFormat, model.StepLint, model.StepBuild} {
		steps := Single(kind)
		require.Len(t, steps, 1)
		assert.Equal(t, kind, steps[0].Kind)
		assert.Equal(t, model.PolicyPropagate, steps[0].Policy)
		assert.NotEmpty(t, steps[0].Argv)
	}
}

// TestSingle_LintPropagatesRealCode: unlike the full run, a standalone
// lint run surfaces clippy's real exit code.
func TestSingle_LintPropagatesRealCode(t *testing.T) {
	fake := NewFakeExecutor().FailWith(model.StepLint, 101)
	runner := NewRunner(fake, 0)

	run := runner.Run(context.Background(), "/ws", Single(model.StepLint))

	assert.Equal(t, 101, run.ExitCode)
}
