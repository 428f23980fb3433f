package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/entrada/internal/testutil"
)

func testRootOptions(format string) *RootOptions {
	return &RootOptions{Format: format, logger: testutil.DiscardLogger()}
}

// execute runs cmd with stdin and args and returns what it wrote to stdout.
func execute(cmd *cobra.Command, stdin string, args ...string) (string, error) {
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// decodeResponse unmarshals a CLIResponse whose data has type T.
func decodeResponse[T any](t *testing.T, out string) (string, T, *CLIError) {
	t.Helper()
	var resp struct {
		Status string    `json:"status"`
		Data   T         `json:"data"`
		Error  *CLIError `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "output: %s", out)
	return resp.Status, resp.Data, resp.Error
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// isolateConfig keeps config.Load away from the developer's files.
func isolateConfig(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ENTRADA_CONFIG", "")
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

const (
	editItem1   = `{"type":"edit","item":{"id":"item-1","name":"Zed"}}`
	overlayItem = `{"type":"add_overlay","overlay":{"type":"editing_item","item":{"id":"item-0","name":"Item 0"},"position":{"x":1,"y":2}}}`
)
