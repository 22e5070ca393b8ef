package pipeline

import (
	"github.com/ctfhacker/cargoci/internal/cargo"
	"github.com/ctfhacker/cargoci/internal/model"
)

// Checks returns the standard check pipeline: format, lint, build.
//
// The default policies reproduce the original CI script exactly: the
// format check is advisory, the lint check stops the run with a fixed
// exit 1, and the build's exit code is the run's exit code. strictFmt
// opts into treating format drift as a real failure, propagating the
// formatter's own exit code.
func Checks(strictFmt bool) []Step {
	fmtPolicy := model.PolicyAdvisory
	if strictFmt {
		fmtPolicy = model.PolicyPropagate
	}

	return []Step{
		{Kind: model.StepFormat, Argv: cargo.FmtCheck(), Policy: fmtPolicy},
		{Kind: model.StepLint, Argv: cargo.Clippy(), Policy: model.PolicyFailFixed},
		{Kind: model.StepBuild, Argv: cargo.Build(), Policy: model.PolicyPropagate},
	}
}

// Single returns a one-step pipeline for running a check on its own.
// Single-step runs always propagate the tool's real exit code; the
// fixed-code quirk only exists for compatibility with the full run.
func Single(kind model.StepKind) []Step {
	var argv []string
	switch kind {
	case model.StepFormat:
		argv = cargo.FmtCheck()
	case model.StepLint:
		argv = cargo.Clippy()
	case model.StepBuild:
		argv = cargo.Build()
	}

	return []Step{{Kind: kind, Argv: argv, Policy: model.PolicyPropagate}}
}
