// Package pipeline executes the check steps in a fixed order and applies
// each step's failure policy.
//
// The state machine is strict: Format → Lint → Build, never reordered and
// never parallel. Only a non-advisory failure stops the run; the format
// check's failure is recorded but the run continues, matching the original
// CI script where the fmt line had no exit guard.
//
// Commands are run through the Executor interface so tests can substitute
// a fake and exercise the exit-code semantics deterministically.
package pipeline
