package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const testScript = `package scripts

name: "e1m1"
tics: 50
damage: [
	{tic: 5, amount: 10, source: "imp"},
	{tic: 20, amount: 3},
	{tic: 40, amount: 21},
]
`

func writeTestScript(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "e1m1.cue")
	require.NoError(t, os.WriteFile(path, []byte(testScript), 0o644))
	return path
}

// execute runs cmd with args and returns combined stdout and stderr.
func execute(cmd *cobra.Command, args ...string) (*bytes.Buffer, *bytes.Buffer, error) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out, errOut, err
}

// clearEnv keeps the host environment out of command tests.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DOOMHOST_DB", "DOOMHOST_SCRIPT", "DOOMHOST_TIC_RATE"} {
		if old, ok := os.LookupEnv(key); ok {
			require.NoError(t, os.Unsetenv(key))
			t.Cleanup(func() { os.Setenv(key, old) })
		}
	}
}
