package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tournament.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Backend.Source)
	assert.Equal(t, "http://localhost:8000/api/", cfg.APIBaseURL())
	assert.Equal(t, 10*time.Second, cfg.Poller.Interval)
	assert.Equal(t, 5*time.Second, cfg.Poller.FetchTimeout)
	assert.True(t, cfg.Player.FollowStage)
	assert.Equal(t, ":8081", cfg.Gateway.Addr)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
backend:
  source: heroku
player:
  identifier: 7f3c
  follow_stage: false
poller:
  interval: 3s
gateway:
  addr: ":9000"
notify:
  nats_url: nats://localhost:4222
  subject_prefix: bday
log:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://bday2025-daa089d5c915.herokuapp.com/api/", cfg.APIBaseURL())
	assert.Equal(t, "7f3c", cfg.Player.Identifier)
	assert.False(t, cfg.Player.FollowStage)
	assert.Equal(t, 3*time.Second, cfg.Poller.Interval)
	assert.Equal(t, 5*time.Second, cfg.Poller.FetchTimeout, "unset fields keep their defaults")
	assert.Equal(t, ":9000", cfg.Gateway.Addr)
	assert.Equal(t, "bday", cfg.Notify.SubjectPrefix)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "player:\n  identifier: from-file\n")
	t.Setenv("TOURNAMENT_PLAYER_ID", "from-env")
	t.Setenv("TOURNAMENT_BASE_URL", "http://10.0.0.2:8000/api/")
	t.Setenv("TOURNAMENT_POLL_INTERVAL", "2s")
	t.Setenv("TOURNAMENT_FOLLOW_STAGE", "false")
	t.Setenv("GATEWAY_PORT", "9100")
	t.Setenv("TOURNAMENT_FETCH_TIMEOUT", "not-a-duration")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Player.Identifier)
	assert.Equal(t, "http://10.0.0.2:8000/api/", cfg.APIBaseURL())
	assert.Equal(t, 2*time.Second, cfg.Poller.Interval)
	assert.Equal(t, 5*time.Second, cfg.Poller.FetchTimeout)
	assert.False(t, cfg.Player.FollowStage)
	assert.Equal(t, ":9100", cfg.Gateway.Addr)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")

	_, err = Load(writeConfig(t, "backend: [oops"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")

}

func TestValidate(t *testing.T) {
	// a bad source in the file is not fatal until validation
	cfg, err := Load(writeConfig(t, "backend:\n  source: mars\n"))
	require.NoError(t, err)
	assert.EqualError(t, cfg.Validate(), `unknown backend source "mars"`)

	cfg.Backend.BaseURL = "http://10.0.0.2:8000/api/"
	assert.NoError(t, cfg.Validate(), "an explicit base URL replaces the source")

	cfg.Backend.BaseURL = ""
	cfg.Backend.Source = "heroku"
	assert.NoError(t, cfg.Validate())

	cfg, err = Load(writeConfig(t, "log:\n  level: loud\n"))
	require.NoError(t, err)
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")

	cfg = Default()
	cfg.Poller.Interval = -time.Second
	assert.EqualError(t, cfg.Validate(), "poller durations must not be negative")
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, lvl)

	lvl, err = ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, lvl)
}
