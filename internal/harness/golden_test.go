package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_UploadRecreateToggle(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "upload_recreate_toggle.yaml"))
	require.NoError(t, err)

	// To regenerate:
	//   go test ./internal/harness -run TestRunWithGolden -update
	result, err := RunWithGolden(t, scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRunWithGolden_RejectedUploadKeepsPreview(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "rejects_two_small_categories.yaml"))
	require.NoError(t, err)

	result, err := RunWithGolden(t, scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestMarshalSnapshot_Format(t *testing.T) {
	result := NewResult()
	result.addInvocation(ActionSetHeader, map[string]any{"title": "<b>"}, 1)
	result.addCompletion(ActionSetHeader, CaseSuccess, map[string]any{"title": "&lt;b&gt;"}, 2)
	result.State = map[string]any{"version": 1, "preview": true}

	data, err := MarshalSnapshot("format", result)
	require.NoError(t, err)

	want := `{
  "scenario": "format",
  "trace": [
    {
      "seq": 1,
      "type": "invocation",
      "action": "set_header",
      "args": {
        "title": "<b>"
      }
    },
    {
      "seq": 2,
      "type": "completion",
      "action": "set_header",
      "case": "Success",
      "result": {
        "title": "&lt;b&gt;"
      }
    }
  ],
  "state": {
    "preview": true,
    "version": 1
  }
}
`
	assert.Equal(t, want, string(data))
}

func TestRun_Deterministic(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "upload_recreate_toggle.yaml"))
	require.NoError(t, err)

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	a, err := MarshalSnapshot(scenario.Name, first)
	require.NoError(t, err)
	b, err := MarshalSnapshot(scenario.Name, second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}
