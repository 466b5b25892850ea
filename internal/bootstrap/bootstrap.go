package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/shinji-kodama/railskit/internal/config"
	"github.com/shinji-kodama/railskit/internal/heroku"
	"github.com/shinji-kodama/railskit/internal/model"
	"github.com/shinji-kodama/railskit/internal/ui"
)

// ErrAlreadyBootstrapped is returned when the repository already has a
// git remote named after the environment. Re-running would duplicate the
// appended configuration blocks and try to create the application twice.
var ErrAlreadyBootstrapped = errors.New("environment already bootstrapped")

const defaultWebConcurrency = 3

// Report records what a bootstrap run did for one environment.
type Report struct {
	Environment    model.Environment      `json:"environment"`
	RepositoryName string                 `json:"repositoryName"`
	Hostname       string                 `json:"hostname,omitempty"`
	States         []model.BootstrapState `json:"states"`
	Addons         []string               `json:"addons,omitempty"`
	Commits        []string               `json:"commits,omitempty"`
}

// State returns the last state the run reached.
func (r *Report) State() model.BootstrapState {
	if len(r.States) == 0 {
		return model.StateNotStarted
	}
	return r.States[len(r.States)-1]
}

// Bootstrapper drives the bootstrap sequence for one application.
type Bootstrapper struct {
	platform RemotePlatform
	vcs      VersionControl
	files    FileMutator

	console        *ui.Console
	log            logrus.FieldLogger
	buildpackURL   string
	webConcurrency int
	// pushBranch is the local branch pushed to the remote. Empty means
	// the checked-out branch.
	pushBranch string
}

// Option is a functional option for Bootstrapper configuration.
type Option func(*Bootstrapper)

// WithConsole sets where operator-facing progress is printed.
func WithConsole(con *ui.Console) Option {
	return func(b *Bootstrapper) { b.console = con }
}

// WithLogger sets the structured logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(b *Bootstrapper) { b.log = l }
}

// WithBuildpackURL overrides the source-build hook set on every app.
func WithBuildpackURL(url string) Option {
	return func(b *Bootstrapper) {
		if url != "" {
			b.buildpackURL = url
		}
	}
}

// WithWebConcurrency sets the WEB_CONCURRENCY config var.
func WithWebConcurrency(n int) Option {
	return func(b *Bootstrapper) {
		if n > 0 {
			b.webConcurrency = n
		}
	}
}

// WithPushBranch sets the local branch pushed to the remote. An empty
// branch pushes whatever branch is checked out.
func WithPushBranch(branch string) Option {
	return func(b *Bootstrapper) { b.pushBranch = branch }
}

// New creates a Bootstrapper.
func New(platform RemotePlatform, vcs VersionControl, files FileMutator, opts ...Option) *Bootstrapper {
	b := &Bootstrapper{
		platform:       platform,
		vcs:            vcs,
		files:          files,
		console:        ui.New(nil),
		log:            logrus.StandardLogger(),
		buildpackURL:   config.DefaultBuildpackURL,
		webConcurrency: defaultWebConcurrency,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run bootstraps the environment described by opts and then pushes it or
// skips the push. The returned report is non-nil even on failure and
// shows how far the run got.
func (b *Bootstrapper) Run(ctx context.Context, opts model.ProvisioningOptions) (*Report, error) {
	report, err := b.Bootstrap(ctx, opts)
	if err != nil {
		return report, err
	}
	return report, b.Push(ctx, opts, report)
}

// Bootstrap creates and configures the remote application, stopping at
// ASSET_HOST_COMMITTED.
func (b *Bootstrapper) Bootstrap(ctx context.Context, opts model.ProvisioningOptions) (*Report, error) {
	env := opts.Environment
	report := &Report{
		Environment:    env,
		RepositoryName: opts.RepositoryName,
		States:         []model.BootstrapState{model.StateNotStarted},
	}

	if !env.IsValid() {
		return report, model.NewCLIError(model.ExitInvalidInput, fmt.Sprintf("invalid environment %s", env))
	}
	if problems := model.ValidateRepositoryName(opts.RepositoryName); len(problems) > 0 {
		return report, model.WrapCLIError(model.ExitInvalidInput,
			fmt.Sprintf("invalid repository name %q", opts.RepositoryName), errors.Join(problems...))
	}
	if b.vcs.HasRemote(ctx, env.String()) {
		return report, model.WrapCLIError(model.ExitInvalidInput,
			fmt.Sprintf("a git remote named %q already exists", env), ErrAlreadyBootstrapped)
	}
	b.advance(report, model.StateNameValidated)

	app := opts.RepositoryName

	err := b.step(report, model.StateCreated, func() error {
		return b.platform.CreateApp(ctx, app, env.String())
	})
	if err != nil {
		return report, err
	}

	err = b.step(report, model.StateConfigured, func() error {
		domain, err := b.platform.Domain(ctx, env.String())
		if err != nil {
			return err
		}
		report.Hostname = domain

		if err := b.platform.SetConfig(ctx, app,
			heroku.ConfigVar{Key: "APP_HOSTNAME", Value: domain},
			heroku.ConfigVar{Key: "WEB_CONCURRENCY", Value: strconv.Itoa(b.webConcurrency)},
			heroku.ConfigVar{Key: "RAILS_ENV", Value: env.String()},
			heroku.ConfigVar{Key: "RACK_ENV", Value: env.String()},
		); err != nil {
			return err
		}
		return b.platform.SetConfig(ctx, app, heroku.ConfigVar{Key: "BUILDPACK_URL", Value: b.buildpackURL})
	})
	if err != nil {
		return report, err
	}

	if opts.EnableFreeAddons {
		err = b.step(report, model.StateAddonsProvisioned, func() error {
			if err := b.platform.SetConfig(ctx, app,
				heroku.ConfigVar{Key: "NEW_RELIC_APP_NAME", Value: report.Hostname}); err != nil {
				return err
			}
			for _, plan := range freeAddons {
				if err := b.addAddon(ctx, report, plan); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return report, err
		}
	}

	if opts.WantsEmail() {
		err = b.step(report, model.StateMailConfigured, func() error {
			return b.configureMail(ctx, report)
		})
		if err != nil {
			return report, err
		}
	}

	if opts.WantsDNS() {
		err = b.step(report, model.StateDNSConfigured, func() error {
			return b.addAddon(ctx, report, dnsAddon)
		})
		if err != nil {
			return report, err
		}
	}

	err = b.step(report, model.StateWakeupSet, func() error {
		return b.platform.SetConfig(ctx, app, heroku.ConfigVar{Key: "HEROKU_WAKEUP", Value: wakeupFlag(env)})
	})
	if err != nil {
		return report, err
	}

	err = b.step(report, model.StateAssetHostCommitted, func() error {
		if err := b.files.InjectAfterMarker(env.ConfigFile(), assetHostMarker, assetHostSettings(report.Hostname)); err != nil {
			return model.WrapCLIError(model.ExitFileMutationFailed, "failed to set the asset host", err)
		}
		return b.commit(ctx, report, assetHostCommitMessage(env))
	})
	if err != nil {
		return report, err
	}

	return report, nil
}

// Push pushes the repository to the environment's remote and migrates
// the database when opts asks for it. Otherwise the run ends as SKIPPED.
func (b *Bootstrapper) Push(ctx context.Context, opts model.ProvisioningOptions, report *Report) error {
	if !opts.ShouldPush {
		b.advance(report, model.StateSkipped)
		return nil
	}

	return b.step(report, model.StatePushed, func() error {
		branch := b.pushBranch
		if branch == "" {
			var err error
			if branch, err = b.vcs.CurrentBranch(ctx); err != nil {
				return err
			}
		}
		b.log.WithField("branch", branch).Debug("pushing branch")
		if err := b.vcs.Push(ctx, opts.Environment.String(), branch); err != nil {
			return err
		}
		return b.platform.RunCommand(ctx, opts.RepositoryName, migrateCommand)
	})
}

// configureMail provisions the environment's mail relay and appends the
// matching SMTP settings to its configuration file.
func (b *Bootstrapper) configureMail(ctx context.Context, report *Report) error {
	var plan, settings, provider string
	switch report.Environment {
	case model.Staging:
		b.console.Warn("Adding Mailtrap since its a staging environment")
		plan, settings, provider = mailtrapAddon, mailtrapSettings, "Mailtrap"
	case model.Production:
		b.console.Warn("Adding Sendgrid")
		plan, settings, provider = sendgridAddon, sendgridSettings, "Sendgrid"
	default:
		return fmt.Errorf("no mail relay for environment %s", report.Environment)
	}

	if err := b.addAddon(ctx, report, plan); err != nil {
		return err
	}
	path := report.Environment.ConfigFile()
	if err := b.files.AppendBlock(path, settings); err != nil {
		return model.WrapCLIError(model.ExitFileMutationFailed,
			fmt.Sprintf("failed to write the %s settings", provider), err)
	}
	return b.commit(ctx, report, fmt.Sprintf("%s configuration for %s.", provider, report.Environment))
}

func (b *Bootstrapper) addAddon(ctx context.Context, report *Report, plan string) error {
	if err := b.platform.AddAddon(ctx, report.RepositoryName, plan); err != nil {
		return err
	}
	report.Addons = append(report.Addons, plan)
	return nil
}

func (b *Bootstrapper) commit(ctx context.Context, report *Report, message string) error {
	if err := b.vcs.AddAll(ctx); err != nil {
		return err
	}
	if err := b.vcs.Commit(ctx, message); err != nil {
		return err
	}
	report.Commits = append(report.Commits, message)
	return nil
}

// step runs fn and records state when it succeeds. A failure is wrapped
// in a StepError naming state.
func (b *Bootstrapper) step(report *Report, state model.BootstrapState, fn func() error) error {
	if err := fn(); err != nil {
		b.log.WithFields(logrus.Fields{
			"environment": report.Environment,
			"step":        state,
		}).WithError(err).Debug("bootstrap step failed")
		return &model.StepError{Environment: report.Environment, Step: state, Err: err}
	}
	b.advance(report, state)
	return nil
}

func (b *Bootstrapper) advance(report *Report, state model.BootstrapState) {
	report.States = append(report.States, state)
	b.console.Step("%s %s", report.Environment, state)
	b.log.WithFields(logrus.Fields{
		"environment": report.Environment,
		"step":        state,
	}).Debug("bootstrap step completed")
}
