package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var harnessScenarios = filepath.Join("..", "harness", "testdata", "scenarios")

func TestTestCommandMissingArgs(t *testing.T) {
	_, _, err := execute(NewTestCommand(testOptions("text")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	_, _, err := execute(NewTestCommand(testOptions("text")), "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommandEmptyScenariosDir(t *testing.T) {
	out, _, err := execute(NewTestCommand(testOptions("text")), t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")
}

func TestTestCommandEmptyScenariosDirJSON(t *testing.T) {
	out, _, err := execute(NewTestCommand(testOptions("json")), t.TempDir())
	require.NoError(t, err)

	var result TestResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 0, result.Total)
}

func TestTestCommand_HarnessScenarios(t *testing.T) {
	out, _, err := execute(NewTestCommand(testOptions("text")), harnessScenarios)
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ upload_recreate_toggle (golden)")
	assert.Contains(t, out, "✓ rate_limit\n")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTestCommand_Filter(t *testing.T) {
	out, _, err := execute(NewTestCommand(testOptions("json")), harnessScenarios, "--filter", "rate_*")
	require.NoError(t, err)

	var result TestResult
	decodeResponse(t, out, &result)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 2, result.Passed)
}

func TestTestCommand_UpdateWritesGolden(t *testing.T) {
	golden := t.TempDir()
	_, _, err := execute(NewTestCommand(testOptions("text")), harnessScenarios,
		"--filter", "sanitize_recheck", "--golden", golden, "--update")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(golden, "sanitize_recheck.golden"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"scenario": "sanitize_recheck"`)

	// A second run compares against what was written.
	out, _, err := execute(NewTestCommand(testOptions("text")), harnessScenarios,
		"--filter", "sanitize_recheck", "--golden", golden)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ sanitize_recheck (golden)")
}

func TestTestCommand_GoldenMismatch(t *testing.T) {
	golden := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(golden, "sanitize_recheck.golden"), []byte("{}\n"), 0644))

	out, _, err := execute(NewTestCommand(testOptions("text")), harnessScenarios,
		"--filter", "sanitize_recheck", "--golden", golden)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "snapshot does not match golden file")
}

func TestTestCommand_FailingScenario(t *testing.T) {
	dir := t.TempDir()
	scenarios := filepath.Join(dir, "scenarios")
	require.NoError(t, os.MkdirAll(scenarios, 0755))
	content := `
name: wrong_version
description: expects the wrong version
flow:
  - action: recreate
    expect:
      case: Success
      result:
        version: 9
assertions:
  - type: final_state
    expect:
      version: 2
`
	require.NoError(t, os.WriteFile(filepath.Join(scenarios, "wrong.yaml"), []byte(content), 0644))

	out, _, err := execute(NewTestCommand(testOptions("json")), scenarios)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var result TestResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
	require.Len(t, result.Scenarios, 1)
	assert.False(t, result.Scenarios[0].Pass)
	assert.Contains(t, result.Scenarios[0].Errors[0], `result field "version" = 2, want 9`)
}

func TestTestCommand_LoadErrorFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("name: [unclosed"), 0644))

	out, _, err := execute(NewTestCommand(testOptions("text")), dir)
	require.Error(t, err)
	assert.Contains(t, out, "✗ broken.yaml")
	assert.Contains(t, out, "failed to load scenario")
}
