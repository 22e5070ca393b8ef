package pipeline

import (
	"context"
	"sync"

	"github.com/ctfhacker/cargoci/internal/execx"
	"github.com/ctfhacker/cargoci/internal/model"
)

// FakeExecutor is a test double for Executor. It doesn't start any
// processes, just records calls and returns configured exit codes.
type FakeExecutor struct {
	mu sync.Mutex

	// codes maps a step kind to the exit code its command returns.
	// Unconfigured kinds succeed with 0.
	codes map[model.StepKind]int

	// Calls records the argv of every executed command, in order.
	Calls [][]string

	// Dirs records the working directory of every executed command.
	Dirs []string
}

// NewFakeExecutor creates a FakeExecutor where every command succeeds.
func NewFakeExecutor() *FakeExecutor {
	return &FakeExecutor{codes: make(map[model.StepKind]int)}
}

// FailWith configures the exit code returned for the given step kind.
func (f *FakeExecutor) FailWith(kind model.StepKind, code int) *FakeExecutor {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codes[kind] = code
	return f
}

// Run implements Executor. The step kind is recovered from the cargo
// subcommand in argv, which is how the production commands are shaped.
func (f *FakeExecutor) Run(_ context.Context, dir string, argv []string) execx.Result {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls = append(f.Calls, argv)
	f.Dirs = append(f.Dirs, dir)

	return execx.Result{Code: f.codes[kindOf(argv)]}
}

// ExecutedSubcommands returns the cargo subcommand of each executed
// command, in order. Convenient for asserting step ordering.
func (f *FakeExecutor) ExecutedSubcommands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	subs := make([]string, 0, len(f.Calls))
	for _, argv := range f.Calls {
		if len(argv) > 1 {
			subs = append(subs, argv[1])
		}
	}
	return subs
}

// kindOf maps a cargo command line to the step kind it implements.
func kindOf(argv []string) model.StepKind {
	if len(argv) < 2 {
		return ""
	}
	switch argv[1] {
	case "fmt":
		return model.StepFormat
	case "clippy":
		return model.StepLint
	case "build":
		return model.StepBuild
	default:
		return ""
	}
}
