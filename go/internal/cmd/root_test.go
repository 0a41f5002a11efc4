package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeRoot(t *testing.T, args ...string) (*rootOptions, error) {
	t.Helper()
	opts := &rootOptions{}
	cmd := newRootCmd(opts)
	cmd.AddCommand(&cobra.Command{
		Use:  "noop",
		RunE: func(*cobra.Command, []string) error { return nil },
	})
	cmd.SetArgs(append([]string{"noop"}, args...))
	return opts, cmd.Execute()
}

func TestRoot_EnvNamesMatchConfig(t *testing.T) {
	t.Setenv("TOURNAMENT_PLAYER_ID", "k3x9")
	t.Setenv("TOURNAMENT_FOLLOW_STAGE", "false")

	opts, err := executeRoot(t)
	require.NoError(t, err)
	assert.Equal(t, "k3x9", opts.cfg.Player.Identifier)
	assert.False(t, opts.cfg.Player.FollowStage)
}

func TestRoot_UnprefixedFlagNamesAreNotEnv(t *testing.T) {
	t.Setenv("TOURNAMENT_PLAYER", "stale")
	t.Setenv("TOURNAMENT_FOLLOW", "false")

	opts, err := executeRoot(t)
	require.NoError(t, err)
	assert.Empty(t, opts.cfg.Player.Identifier)
	assert.True(t, opts.cfg.Player.FollowStage)
}

func TestRoot_FlagsOverrideBadFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tournament.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend:\n  source: mars\n"), 0o600))

	_, err := executeRoot(t, "--config", path)
	assert.EqualError(t, err, `unknown backend source "mars"`)

	opts, err := executeRoot(t, "--config", path, "--base-url", "http://10.0.0.2:8000/api/")
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.2:8000/api/", opts.cfg.APIBaseURL())

	opts, err = executeRoot(t, "--config", path, "--source", "heroku")
	require.NoError(t, err)
	assert.Equal(t, "heroku", opts.cfg.Backend.Source)
}
