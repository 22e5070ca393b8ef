package cargo

// Bin is the cargo program name, resolved via PATH.
const Bin = "cargo"

// FmtCheck returns the command line for the formatting check.
//
// `--check` makes rustfmt report drift without rewriting files; `--all`
// covers every workspace member, not just the package in the current
// directory.
func FmtCheck() []string {
	return []string{Bin, "fmt", "--all", "--", "--check"}
}

// Clippy returns the command line for the lint check.
//
// `--all-features --all-targets` lints every buildable unit with all
// optional features enabled. The two `-D` flags after `--` promote both
// generic warnings and the pedantic lint category to hard errors, so any
// diagnostic at all fails the step.
func Clippy() []string {
	return []string{
		Bin, "clippy",
		"--all-features",
		"--all-targets",
		"--",
		"-D", "warnings",
		"-D", "clippy::pedantic",
	}
}

// Build returns the command line for the build step.
//
// `--all-targets` compiles binaries, libraries, tests, benches and
// examples; `--verbose` makes cargo print the rustc invocations, which
// is what CI logs want when a build breaks.
func Build() []string {
	return []string{Bin, "build", "--all-targets", "--verbose"}
}
