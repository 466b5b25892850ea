package vcs

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/railskit/internal/model"
)

// setupProject creates a temporary directory holding a minimal generated
// project and an initialized repository with a local identity, so that
// `git commit` works in CI environments without a global Git configuration.
func setupProject(t *testing.T) (*Git, string) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Procfile"), []byte("web: bundle exec unicorn\n"), 0o644))

	g := New(dir, "")
	require.NoError(t, g.Init(context.Background()))
	runTestGit(t, dir, "config", "user.email", "test@example.com")
	runTestGit(t, dir, "config", "user.name", "Test User")
	return g, dir
}

// runTestGit is a test helper that runs a git command in the specified
// directory and fails the test immediately on a non-zero exit status.
func runTestGit(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v failed: %s", args, string(output))
	return string(output)
}

func TestInit(t *testing.T) {
	g, dir := setupProject(t)

	_, err := os.Stat(filepath.Join(dir, ".git"))
	assert.NoError(t, err)

	// Reinitializing an existing repository is harmless.
	assert.NoError(t, g.Init(context.Background()))
}

func TestAddAllAndCommit(t *testing.T) {
	ctx := context.Background()
	g, dir := setupProject(t)

	require.NoError(t, g.AddAll(ctx))
	require.NoError(t, g.Commit(ctx, "Genesis."))

	log := runTestGit(t, dir, "log", "--format=%s")
	assert.Equal(t, "Genesis.", strings.TrimSpace(log))

	// Tracked modifications are picked up by the -a flag.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Procfile"), []byte("web: changed\n"), 0o644))
	require.NoError(t, g.Commit(ctx, "Heroku as asset host on staging environment."))

	log = runTestGit(t, dir, "log", "--format=%s")
	assert.Equal(t, []string{"Heroku as asset host on staging environment.", "Genesis."},
		strings.Split(strings.TrimSpace(log), "\n"))
}

// TestCommit_NothingToCommit verifies failures carry the git exit code
// and the stderr/stdout diagnostic.
func TestCommit_NothingToCommit(t *testing.T) {
	ctx := context.Background()
	g, _ := setupProject(t)
	require.NoError(t, g.AddAll(ctx))
	require.NoError(t, g.Commit(ctx, "Genesis."))

	err := g.Commit(ctx, "again")
	require.Error(t, err)
	assert.Equal(t, model.ExitGitError, model.ExitCodeOf(err))
	assert.Contains(t, err.Error(), "git commit -a -m again failed")
}

func TestHasRemote(t *testing.T) {
	ctx := context.Background()
	g, dir := setupProject(t)

	assert.False(t, g.HasRemote(ctx, "staging"))
	runTestGit(t, dir, "remote", "add", "staging", "https://git.heroku.com/acme-staging.git")
	assert.True(t, g.HasRemote(ctx, "staging"))
	assert.False(t, g.HasRemote(ctx, "production"))
}

// TestPush pushes to a local bare repository registered as a remote,
// which is how the platform CLI registers its git endpoint.
func TestPush(t *testing.T) {
	ctx := context.Background()
	g, dir := setupProject(t)
	require.NoError(t, g.AddAll(ctx))
	require.NoError(t, g.Commit(ctx, "Genesis."))

	bare := filepath.Join(t.TempDir(), "acme-staging.git")
	runTestGit(t, filepath.Dir(bare), "init", "--bare", bare)
	runTestGit(t, dir, "remote", "add", "staging", bare)

	branch, err := g.CurrentBranch(ctx)
	require.NoError(t, err)

	require.NoError(t, g.Push(ctx, "staging", branch))

	remoteLog := runTestGit(t, bare, "log", "--format=%s", branch)
	assert.Equal(t, "Genesis.", strings.TrimSpace(remoteLog))
}

func TestPush_UnknownRemote(t *testing.T) {
	ctx := context.Background()
	g, _ := setupProject(t)
	require.NoError(t, g.AddAll(ctx))
	require.NoError(t, g.Commit(ctx, "Genesis."))

	err := g.Push(ctx, "production", "master")
	require.Error(t, err)
	assert.Equal(t, model.ExitGitError, model.ExitCodeOf(err))
}

// TestPush_MainDefaultBranch covers repositories whose first branch is
// main rather than master.
func TestPush_MainDefaultBranch(t *testing.T) {
	globalConfig := filepath.Join(t.TempDir(), "gitconfig")
	require.NoError(t, os.WriteFile(globalConfig, []byte("[init]\n\tdefaultBranch = main\n"), 0o644))
	t.Setenv("GIT_CONFIG_GLOBAL", globalConfig)

	ctx := context.Background()
	g, dir := setupProject(t)
	require.NoError(t, g.AddAll(ctx))
	require.NoError(t, g.Commit(ctx, "Genesis."))

	bare := filepath.Join(t.TempDir(), "acme-staging.git")
	runTestGit(t, filepath.Dir(bare), "init", "--bare", bare)
	runTestGit(t, dir, "remote", "add", "staging", bare)

	branch, err := g.CurrentBranch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "main", branch)

	require.NoError(t, g.Push(ctx, "staging", branch))
	remoteLog := runTestGit(t, bare, "log", "--format=%s", "main")
	assert.Equal(t, "Genesis.", strings.TrimSpace(remoteLog))

	err = g.Push(ctx, "staging", "master")
	require.Error(t, err)
	assert.Equal(t, model.ExitGitError, model.ExitCodeOf(err))
}

func TestMissingBinary(t *testing.T) {
	g := New(t.TempDir(), "git-does-not-exist")
	err := g.Init(context.Background())
	require.Error(t, err)
	assert.Equal(t, model.ExitGitError, model.ExitCodeOf(err))
}
