package bootstrap

import (
	"context"

	"github.com/shinji-kodama/railskit/internal/heroku"
)

// RemotePlatform is the subset of the Heroku CLI a bootstrap needs.
// *heroku.CLI implements it.
type RemotePlatform interface {
	CreateApp(ctx context.Context, name, remote string) error
	Domain(ctx context.Context, remote string) (string, error)
	SetConfig(ctx context.Context, app string, vars ...heroku.ConfigVar) error
	AddAddon(ctx context.Context, app, plan string) error
	RunCommand(ctx context.Context, app, command string) error
}

// VersionControl is the subset of git a bootstrap needs. *vcs.Git
// implements it.
type VersionControl interface {
	AddAll(ctx context.Context) error
	Commit(ctx context.Context, message string) error
	Push(ctx context.Context, remote, branch string) error
	HasRemote(ctx context.Context, name string) bool
	CurrentBranch(ctx context.Context) (string, error)
}

// FileMutator edits the application's environment files.
// *mutate.Mutator implements it.
type FileMutator interface {
	AppendBlock(path, text string) error
	InjectAfterMarker(path, marker, text string) error
}
