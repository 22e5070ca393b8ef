// Package model defines the domain types and value objects for the
// cargoci CLI.
//
// This package contains pure data structures with no external dependencies.
// A Run and its StepResults are transient records of a single pipeline
// execution — the optional history store persists them, but nothing in
// this package touches disk.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
