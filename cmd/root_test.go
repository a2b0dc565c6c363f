package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/km-arc/go-scopes/framework/container"
)

// run executes the root command with args and returns what it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SCOPES_ENV", "testing")
	t.Setenv("SCOPES_LOG_LEVEL", "error")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		scopesFormat = "table"
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestDemo(t *testing.T) {
	out, err := run(t, "demo")
	require.NoError(t, err)

	assert.Contains(t, out, "*app.Networker")
	assert.Contains(t, out, "*app.NetworkerSecond")
	assert.Contains(t, out, "https://api.local/v2/ping")
	assert.Contains(t, out, "https://api.local/profiles/42")
}

func TestScopes_JSON(t *testing.T) {
	out, err := run(t, "scopes", "--format", "json", "network", "usecase")
	require.NoError(t, err)

	var snaps []container.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snaps))
	require.Len(t, snaps, 2)
	assert.Equal(t, "network", snaps[0].Name)
	assert.Equal(t, []string{"network"}, snaps[1].Children)
}

func TestScopes_YAML(t *testing.T) {
	out, err := run(t, "scopes", "-f", "yaml")
	require.NoError(t, err)

	var snaps []container.Snapshot
	require.NoError(t, yaml.Unmarshal([]byte(out), &snaps))
	assert.Len(t, snaps, 5)
}

func TestScopes_Table(t *testing.T) {
	out, err := run(t, "scopes", "account")
	require.NoError(t, err)

	assert.Contains(t, out, "account")
	assert.Contains(t, out, "usecase, framework")
}

func TestScopes_Errors(t *testing.T) {
	_, err := run(t, "scopes", "missing")
	assert.ErrorContains(t, err, `scope "missing" is not declared`)

	_, err = run(t, "scopes", "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")
}
