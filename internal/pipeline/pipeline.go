package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/ctfhacker/cargoci/internal/execx"
	"github.com/ctfhacker/cargoci/internal/model"
)

// Executor runs a command line in a directory and reports its exit code.
// The production implementation shells out via execx; tests use
// FakeExecutor.
type Executor interface {
	Run(ctx context.Context, dir string, argv []string) execx.Result
}

// execExecutor is the production Executor backed by os/exec. Child
// processes inherit stdout and stderr so cargo's diagnostics stream
// straight to the terminal.
type execExecutor struct{}

// NewExecutor returns the production Executor.
func NewExecutor() Executor {
	return execExecutor{}
}

func (execExecutor) Run(ctx context.Context, dir string, argv []string) execx.Result {
	return execx.Run(ctx, dir, argv[0], argv[1:]...)
}

// Step is one entry in the pipeline: a check to run and what its failure
// does to the rest of the run.
type Step struct {
	// Kind identifies the check for results and logging.
	Kind model.StepKind

	// Argv is the full command line, including the program name.
	Argv []string

	// Policy decides whether a non-zero exit is advisory, stops the run
	// with the fixed code, or stops the run with the tool's own code.
	Policy model.FailurePolicy
}

// Runner executes steps sequentially. It is stateless between runs.
type Runner struct {
	exec    Executor
	timeout time.Duration
}

// NewRunner creates a Runner. A non-positive timeout disables the
// per-step deadline.
func NewRunner(exec Executor, timeout time.Duration) *Runner {
	return &Runner{exec: exec, timeout: timeout}
}

// Run executes the steps in order against dir and returns the completed
// run record.
//
// Failure handling per policy:
//   - PolicyAdvisory: the failure is recorded, the run continues, and the
//     run's exit code is unaffected.
//   - PolicyFailFixed: the run stops with model.FixedFailureCode (1),
//     whatever the tool actually returned.
//   - PolicyPropagate: the run stops with the tool's own exit code.
//
// Steps after a stopping failure are recorded with StatusSkipped so the
// report and the history store show the full shape of the pipeline.
func (r *Runner) Run(ctx context.Context, dir string, steps []Step) *model.Run {
	run := &model.Run{
		ID:            uuid.NewString(),
		WorkspacePath: dir,
		StartedAt:     time.Now().UTC(),
	}
	runLog := log.WithField("run", run.ID)
	runLog.WithField("workspace", dir).Debug("starting pipeline")

	stopped := false
	for _, step := range steps {
		if stopped {
			run.Steps = append(run.Steps, model.StepResult{
				Kind:   step.Kind,
				Argv:   step.Argv,
				Status: model.StatusSkipped,
			})
			continue
		}

		result := r.runStep(ctx, dir, step, runLog)
		run.Steps = append(run.Steps, result)

		if result.Status != model.StatusFailed {
			continue
		}

		switch step.Policy {
		case model.PolicyAdvisory:
			runLog.WithFields(log.Fields{
				"step": step.Kind,
				"code": result.ExitCode,
			}).Warn("advisory step failed, continuing")
		case model.PolicyFailFixed:
			run.ExitCode = model.FixedFailureCode
			stopped = true
		case model.PolicyPropagate:
			run.ExitCode = result.ExitCode
			stopped = true
		}
	}

	run.Duration = time.Since(run.StartedAt)
	runLog.WithFields(log.Fields{
		"exitCode": run.ExitCode,
		"duration": run.Duration,
	}).Debug("pipeline finished")
	return run
}

// runStep executes a single step with the per-step timeout applied.
func (r *Runner) runStep(ctx context.Context, dir string, step Step, runLog *log.Entry) model.StepResult {
	stepCtx, cancel := execx.WithTimeout(ctx, r.timeout)
	defer cancel()

	runLog.WithField("step", step.Kind).Debug("running step")

	started := time.Now()
	res := r.exec.Run(stepCtx, dir, step.Argv)
	elapsed := time.Since(started)

	status := model.StatusPassed
	if res.Code != 0 {
		status = model.StatusFailed
	}

	runLog.WithFields(log.Fields{
		"step":     step.Kind,
		"status":   status,
		"code":     res.Code,
		"duration": elapsed,
	}).Debug("step finished")

	return model.StepResult{
		Kind:     step.Kind,
		Argv:     step.Argv,
		Status:   status,
		ExitCode: res.Code,
		Duration: elapsed,
	}
}
