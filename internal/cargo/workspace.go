package cargo

import (
	"context"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ctfhacker/cargoci/internal/execx"
	"github.com/ctfhacker/cargoci/internal/model"
)

// Workspace describes the Cargo workspace the checks run against.
type Workspace struct {
	// Root is the absolute path to the workspace root directory.
	// All check commands run with this as their working directory.
	Root string

	// ManifestPath is the absolute path to the workspace's Cargo.toml,
	// as reported by `cargo locate-project`.
	ManifestPath string
}

// Find resolves the Cargo workspace containing dir.
//
// It first verifies that cargo is on PATH at all — a missing toolchain
// gets its own distinguished exit code so CI configs can tell "tool not
// installed" apart from "checks failed". Then it asks cargo itself:
//
//	cargo locate-project --workspace --message-format plain
//
// which prints the path to the workspace Cargo.toml, resolving member
// crates to their enclosing workspace the same way every cargo
// subcommand does.
func Find(ctx context.Context, dir string) (*Workspace, error) {
	if _, err := exec.LookPath(Bin); err != nil {
		return nil, model.WrapCLIError(model.ExitCargoNotFound, "cargo not found on PATH", err)
	}

	out, res := execx.Capture(ctx, dir, Bin, "locate-project", "--workspace", "--message-format", "plain")
	if res.Code != 0 {
		return nil, model.WrapCLIError(model.ExitWorkspaceNotFound, "not inside a Cargo workspace", res.Err)
	}

	manifest := strings.TrimSpace(out)
	if manifest == "" {
		return nil, model.NewCLIError(model.ExitWorkspaceNotFound, "cargo locate-project returned no manifest path")
	}

	return &Workspace{
		Root:         filepath.Dir(manifest),
		ManifestPath: manifest,
	}, nil
}
