// Package cargo is the Cargo CLI integration layer.
//
// It resolves the workspace the checks run against and builds the exact
// command lines for each check. We shell out to `cargo` rather than link
// any Rust tooling: fmt, clippy and build are only available as CLI
// surfaces, and the whole point of the tool is to run them exactly the
// way a developer would.
//
// The command constructors in commands.go are the single source of truth
// for the check invocations. In particular, the clippy invocation always
// carries `-D warnings -D clippy::pedantic`; no flag or configuration
// removes them.
package cargo
