package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bingo/internal/config"
	"github.com/roach88/bingo/internal/logging"
)

// testOptions returns root options with defaults and a silent logger, so
// tests never read .env or the environment.
func testOptions(format string) *RootOptions {
	return &RootOptions{
		Format: format,
		Config: config.Default(),
		Logger: logging.Discard(),
	}
}

// writeCatalog writes a catalog with one category per size to dir/name.
// Categories are named c0, c1, ... and prompts are unique.
func writeCatalog(t *testing.T, dir, name string, sizes ...int) string {
	t.Helper()
	var parts []string
	for i, n := range sizes {
		ps := make([]string, n)
		for j := range ps {
			ps[j] = fmt.Sprintf("category %d prompt %d", i, j)
		}
		data, err := json.Marshal(ps)
		require.NoError(t, err)
		parts = append(parts, fmt.Sprintf("%q: %s", fmt.Sprintf("c%d", i), data))
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("{"+strings.Join(parts, ", ")+"}"), 0644))
	return path
}

// execute runs cmd with args and returns stdout, stderr and the error.
func execute(cmd *cobra.Command, args ...string) (string, string, error) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// decodeResponse parses a JSON envelope, decoding data into v.
func decodeResponse(t *testing.T, out string, v any) CLIResponse {
	t.Helper()
	var raw struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
		Error  *CLIError       `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &raw), out)
	if v != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, v))
	}
	return CLIResponse{Status: raw.Status, Error: raw.Error}
}
