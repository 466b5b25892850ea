package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnviron_Defaults(t *testing.T) {
	cfg, err := Environ()
	require.NoError(t, err)

	assert.Equal(t, "heroku", cfg.HerokuBin)
	assert.Equal(t, "git", cfg.GitBin)
	assert.Equal(t, 2*time.Minute, cfg.CommandTimeout)
	assert.Equal(t, uint64(3), cfg.MaxRetries)
	assert.Empty(t, cfg.PushBranch, "the checked-out branch is pushed by default")
	assert.Equal(t, DefaultBuildpackURL, cfg.BuildpackURL)
	assert.Equal(t, 3, cfg.WebConcurrency)
	assert.False(t, cfg.Debug)
}

func TestEnviron_Overrides(t *testing.T) {
	t.Setenv("RAILSKIT_HEROKU_BIN", "/usr/local/bin/heroku")
	t.Setenv("RAILSKIT_COMMAND_TIMEOUT", "30s")
	t.Setenv("RAILSKIT_MAX_RETRIES", "0")
	t.Setenv("RAILSKIT_PUSH_BRANCH", "main")
	t.Setenv("RAILSKIT_DEBUG", "true")

	cfg, err := Environ()
	require.NoError(t, err)

	assert.Equal(t, "/usr/local/bin/heroku", cfg.HerokuBin)
	assert.Equal(t, 30*time.Second, cfg.CommandTimeout)
	assert.Equal(t, uint64(0), cfg.MaxRetries)
	assert.Equal(t, "main", cfg.PushBranch)
	assert.True(t, cfg.Debug)
}

func TestEnviron_InvalidValue(t *testing.T) {
	t.Setenv("RAILSKIT_COMMAND_TIMEOUT", "soon")

	cfg, err := Environ()
	assert.Error(t, err)
	// Defaults are still applied so callers can report and continue.
	assert.Equal(t, "heroku", cfg.HerokuBin)
}

func TestConfig_String(t *testing.T) {
	cfg, err := Environ()
	require.NoError(t, err)
	assert.Contains(t, cfg.String(), "herokubin: heroku")
}

func TestLoadAnswers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answers.jsonc")
	content := `{
  // shared by the whole team
  "teamName": "Acme Co",
  "databaseUsername": "postgres", /* local default */
  "databasePrefix": "widgets",
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	answers, err := LoadAnswers(path)
	require.NoError(t, err)
	assert.Equal(t, "Acme Co", answers.TeamName)
	assert.Equal(t, "postgres", answers.DatabaseUsername)
	assert.Equal(t, "widgets", answers.DatabasePrefix)
	assert.Empty(t, answers.SoftwareName)
}

func TestLoadAnswers_EmptyPath(t *testing.T) {
	answers, err := LoadAnswers("")
	require.NoError(t, err)
	assert.Equal(t, &Answers{}, answers)
}

func TestLoadAnswers_Errors(t *testing.T) {
	_, err := LoadAnswers(filepath.Join(t.TempDir(), "missing.jsonc"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(`{"teamName": `), 0o644))
	_, err = LoadAnswers(path)
	assert.Error(t, err)
}
