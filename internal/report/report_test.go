package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ctfhacker/cargoci/internal/model"
)

// passingRun is a run where formatting drifted but everything else passed —
// the run counts as green.
func passingRun() *model.Run {
	return &model.Run{
		ID:            "abc-123",
		WorkspacePath: "/home/user/project",
		StartedAt:     time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC),
		Duration:      90 * time.Second,
		ExitCode:      0,
		Steps: []model.StepResult{
			{Kind: model.StepFormat, Argv: []string{"cargo", "fmt", "--all", "--", "--check"}, Status: model.StatusFailed, ExitCode: 1, Duration: 2 * time.Second},
			{Kind: model.StepLint, Argv: []string{"cargo", "clippy"}, Status: model.StatusPassed, Duration: 40 * time.Second},
			{Kind: model.StepBuild, Argv: []string{"cargo", "build"}, Status: model.StatusPassed, Duration: 48 * time.Second},
		},
	}
}

// failingRun is a run stopped by the lint step.
func failingRun() *model.Run {
	return &model.Run{
		ID:            "def-456",
		WorkspacePath: "/home/user/project",
		StartedAt:     time.Date(2026, 8, 26, 11, 0, 0, 0, time.UTC),
		Duration:      42 * time.Second,
		ExitCode:      1,
		Steps: []model.StepResult{
			{Kind: model.StepFormat, Argv: []string{"cargo", "fmt"}, Status: model.StatusPassed, Duration: 2 * time.Second},
			{Kind: model.StepLint, Argv: []string{"cargo", "clippy"}, Status: model.StatusFailed, ExitCode: 101, Duration: 40 * time.Second},
			{Kind: model.StepBuild, Argv: []string{"cargo", "build"}, Status: model.StatusSkipped},
		},
	}
}

// TestText_PassingRun verifies the green-run rendering, including the
// advisory note for the failed format check.
func TestText_PassingRun(t *testing.T) {
	var buf bytes.Buffer
	Text(&buf, passingRun())
	out := buf.String()

	assert.Contains(t, out, "Run abc-123 in /home/user/project")
	assert.Contains(t, out, "Result: PASS (exit 0)")
	assert.Contains(t, out, "advisory")
	assert.Contains(t, out, "format")
}

// TestText_FailingRun verifies the failure rendering: the FAIL line shows
// the run's exit code (the fixed 1, not clippy's 101) and the skipped
// build appears without an exit code.
func TestText_FailingRun(t *testing.T) {
	var buf bytes.Buffer
	Text(&buf, failingRun())
	out := buf.String()

	assert.Contains(t, out, "Result: FAIL (exit 1)")
	assert.NotContains(t, out, "advisory")

	// The skipped step is listed by status only.
	var buildLine string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "build") {
			buildLine = line
		}
	}
	require.NotEmpty(t, buildLine)
	assert.Contains(t, buildLine, "skipped")
	assert.NotContains(t, buildLine, "exit")
}

// TestJSON verifies the machine-readable rendering round-trips and keeps
// the real per-step exit codes alongside the run's substituted one.
func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, failingRun()))

	var decoded struct {
		ID       string `json:"id"`
		Passed   bool   `json:"passed"`
		ExitCode int    `json:"exitCode"`
		Steps    []struct {
			Kind     string `json:"kind"`
			Status   string `json:"status"`
			ExitCode int    `json:"exitCode"`
		} `json:"steps"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "def-456", decoded.ID)
	assert.False(t, decoded.Passed)
	assert.Equal(t, 1, decoded.ExitCode)
	require.Len(t, decoded.Steps, 3)
	assert.Equal(t, "lint", decoded.Steps[1].Kind)
	assert.Equal(t, 101, decoded.Steps[1].ExitCode, "the step keeps clippy's real code")
}

// TestYAML verifies the YAML rendering parses and carries the same fields.
func TestYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, YAML(&buf, passingRun()))

	var decoded struct {
		ID     string `yaml:"id"`
		Passed bool   `yaml:"passed"`
		Steps  []struct {
			Kind   string `yaml:"kind"`
			Status string `yaml:"status"`
		} `yaml:"steps"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "abc-123", decoded.ID)
	assert.True(t, decoded.Passed)
	require.Len(t, decoded.Steps, 3)
	assert.Equal(t, "format", decoded.Steps[0].Kind)
	assert.Equal(t, "failed", decoded.Steps[0].Status)
}

// TestTextList verifies the one-line-per-run history rendering.
func TestTextList(t *testing.T) {
	var buf bytes.Buffer
	TextList(&buf, []model.Run{*failingRun(), *passingRun()})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "FAIL")
	assert.Contains(t, lines[1], "PASS")
	assert.Contains(t, lines[0], "/home/user/project")
}

// TestJSONList verifies list rendering produces a JSON array.
func TestJSONList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONList(&buf, []model.Run{*passingRun()}))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "abc-123", decoded[0]["id"])
}
