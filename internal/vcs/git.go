package vcs

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/shinji-kodama/railskit/internal/model"
)

// DefaultBinary is the git executable looked up on PATH.
const DefaultBinary = "git"

// Git runs git commands against a single working directory.
type Git struct {
	// dir is the project root; it is passed to git via -C.
	dir string

	// bin is the git executable name or path.
	bin string
}

// New creates a Git wrapper for the repository at dir. An empty bin
// means DefaultBinary.
func New(dir, bin string) *Git {
	if bin == "" {
		bin = DefaultBinary
	}
	return &Git{dir: dir, bin: bin}
}

// Dir returns the working directory the wrapper operates on.
func (g *Git) Dir() string {
	return g.dir
}

// Init creates an empty repository, or reinitializes an existing one,
// which git treats as a safe no-op.
func (g *Git) Init(ctx context.Context) error {
	_, err := g.run(ctx, "init")
	return err
}

// AddAll stages every change in the working tree (`git add .`).
func (g *Git) AddAll(ctx context.Context) error {
	_, err := g.run(ctx, "add", ".")
	return err
}

// Commit records staged and tracked changes with the given message
// (`git commit -am <message>`).
func (g *Git) Commit(ctx context.Context, message string) error {
	_, err := g.run(ctx, "commit", "-a", "-m", message)
	return err
}

// Push pushes branch to the named remote.
func (g *Git) Push(ctx context.Context, remote, branch string) error {
	_, err := g.run(ctx, "push", remote, branch)
	return err
}

// HasRemote reports whether a remote with the given name is configured.
// `git remote get-url` exits non-zero for unknown remotes; we only care
// about the exit code.
func (g *Git) HasRemote(ctx context.Context, name string) bool {
	_, err := g.run(ctx, "remote", "get-url", name)
	return err == nil
}

// CurrentBranch returns the short name of the checked-out branch, or
// "HEAD" when detached.
func (g *Git) CurrentBranch(ctx context.Context) (string, error) {
	output, err := g.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(output), nil
}

// run executes a git command with the given arguments in the wrapper's
// directory.
//
// It captures both stdout and stderr. On success it returns stdout. On
// failure it returns a model.CLIError with ExitGitError whose message
// includes the trimmed stderr for diagnostics.
func (g *Git) run(ctx context.Context, args ...string) (string, error) {
	fullArgs := append([]string{"-C", g.dir}, args...)

	// #nosec G204 - args are constructed internally, not from a shell string
	cmd := exec.CommandContext(ctx, g.bin, fullArgs...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		message := fmt.Sprintf("git %s failed", strings.Join(args, " "))
		if stderrStr != "" {
			message = fmt.Sprintf("%s: %s", message, stderrStr)
		}
		return "", model.WrapCLIError(model.ExitGitError, message, err)
	}

	return stdout.String(), nil
}
