// Package orchestrator runs the whole provisioning flow for a freshly
// generated Rails application: questions, deployment files, the initial
// commit and the bootstrap of each requested Heroku environment.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/shinji-kodama/railskit/internal/bootstrap"
	"github.com/shinji-kodama/railskit/internal/config"
	"github.com/shinji-kodama/railskit/internal/model"
	"github.com/shinji-kodama/railskit/internal/mutate"
	"github.com/shinji-kodama/railskit/internal/prerequisites"
	"github.com/shinji-kodama/railskit/internal/prompt"
	"github.com/shinji-kodama/railskit/internal/scaffold"
	"github.com/shinji-kodama/railskit/internal/ui"
)

// Commit messages of the flow, in the order they are created.
const (
	GenesisCommit    = "Genesis."
	StagingCommit    = "Creating staging environment."
	LocalFilesCommit = "Ignoring database.yml and Procfile-dev, leaving default commited."
)

const (
	stagingQuestion    = "Bootstrap a staging environment on Heroku"
	productionQuestion = "Bootstrap a production environment on Heroku"
)

// VersionControl is the git surface the flow needs. *vcs.Git implements it.
type VersionControl interface {
	bootstrap.VersionControl
	Init(ctx context.Context) error
}

// Answers holds everything the operator was asked.
type Answers struct {
	TeamName     string                      `json:"teamName"`
	SoftwareName string                      `json:"softwareName"`
	Database     scaffold.DatabaseConfig     `json:"-"`
	Environments []model.ProvisioningOptions `json:"environments"`
}

// Summary reports the outcome of a run.
type Summary struct {
	Directory string              `json:"directory"`
	Answers   Answers             `json:"answers"`
	Reports   []*bootstrap.Report `json:"reports"`
	Commits   []string            `json:"commits"`
}

// Orchestrator wires the prompt, scaffold, git and bootstrap steps.
type Orchestrator struct {
	prompter     prompt.Prompter
	files        *mutate.Mutator
	vcs          VersionControl
	bootstrapper *bootstrap.Bootstrapper

	tools    []prerequisites.Tool
	defaults *config.Answers
	console  *ui.Console
	log      logrus.FieldLogger
}

// Option is a functional option for Orchestrator configuration.
type Option func(*Orchestrator)

// WithTools sets the external tools checked before anything happens.
func WithTools(tools []prerequisites.Tool) Option {
	return func(o *Orchestrator) { o.tools = tools }
}

// WithDefaults pre-fills the question fallbacks.
func WithDefaults(answers *config.Answers) Option {
	return func(o *Orchestrator) {
		if answers != nil {
			o.defaults = answers
		}
	}
}

// WithConsole sets where operator-facing progress is printed.
func WithConsole(con *ui.Console) Option {
	return func(o *Orchestrator) { o.console = con }
}

// WithLogger sets the structured logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *Orchestrator) { o.log = l }
}

// New creates an Orchestrator working on the project files behind files.
func New(p prompt.Prompter, files *mutate.Mutator, vcs VersionControl, b *bootstrap.Bootstrapper, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		prompter:     p,
		files:        files,
		vcs:          vcs,
		bootstrapper: b,
		tools:        prerequisites.DefaultTools("git", "heroku"),
		defaults:     &config.Answers{},
		console:      ui.New(nil),
		log:          logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes the flow top to bottom. The summary is returned even on
// failure and shows what was done before the error.
func (o *Orchestrator) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{Directory: o.files.Root()}

	if err := prerequisites.Check(o.tools).Error(); err != nil {
		return summary, err
	}
	if err := o.checkRailsApplication(); err != nil {
		return summary, err
	}

	answers, err := o.Ask(ctx)
	if err != nil {
		return summary, err
	}
	summary.Answers = answers

	for _, opts := range answers.Environments {
		if o.vcs.HasRemote(ctx, opts.Environment.String()) {
			return summary, model.WrapCLIError(model.ExitInvalidInput,
				fmt.Sprintf("a git remote named %q already exists", opts.Environment), bootstrap.ErrAlreadyBootstrapped)
		}
	}

	if err := o.writeDeploymentFiles(answers.Database); err != nil {
		return summary, err
	}

	if err := o.vcs.Init(ctx); err != nil {
		return summary, err
	}
	if err := o.commit(ctx, summary, GenesisCommit); err != nil {
		return summary, err
	}

	for _, opts := range answers.Environments {
		if err := o.prepare(ctx, summary, answers.Database, opts.Environment); err != nil {
			return summary, err
		}

		o.log.WithField("environment", opts.Environment).Info("bootstrapping environment")
		report, err := o.bootstrapper.Run(ctx, opts)
		if report != nil {
			summary.Reports = append(summary.Reports, report)
			summary.Commits = append(summary.Commits, report.Commits...)
		}
		if err != nil {
			return summary, err
		}
	}

	if err := scaffold.AppendGitignore(o.files, scaffold.LocalOnlyIgnoreBlock); err != nil {
		return summary, err
	}
	if err := o.commit(ctx, summary, LocalFilesCommit); err != nil {
		return summary, err
	}

	return summary, nil
}

// Ask collects every answer of the flow. Environments lists the options
// of the requested environments, staging first.
func (o *Orchestrator) Ask(ctx context.Context) (Answers, error) {
	var answers Answers
	var err error

	if answers.TeamName, err = o.prompter.AskText(ctx, "Team name", o.defaults.TeamName); err != nil {
		return answers, err
	}
	if answers.SoftwareName, err = o.prompter.AskText(ctx, "Software name", o.defaults.SoftwareName); err != nil {
		return answers, err
	}
	if answers.Database.Prefix, err = o.prompter.AskText(ctx, "What is your database prefix", o.defaults.DatabasePrefix); err != nil {
		return answers, err
	}
	if answers.Database.Username, err = o.prompter.AskText(ctx, "What is your database username", o.defaults.DatabaseUsername); err != nil {
		return answers, err
	}
	if answers.Database.Password, err = o.prompter.AskText(ctx, "What is your database password", o.defaults.DatabasePassword); err != nil {
		return answers, err
	}

	for _, env := range model.Environments() {
		var question string
		switch env {
		case model.Staging:
			question = stagingQuestion
		case model.Production:
			question = productionQuestion
		}

		wanted, err := o.prompter.AskYesNo(ctx, question)
		if err != nil {
			return answers, err
		}
		if !wanted {
			continue
		}

		opts, err := o.bootstrapper.CollectOptions(ctx, o.prompter, env, answers.TeamName, answers.SoftwareName)
		if err != nil {
			return answers, err
		}
		answers.Environments = append(answers.Environments, opts)
	}

	return answers, nil
}

// checkRailsApplication refuses directories without the production
// environment file, which both environments are built from. Nothing has
// been asked or written at this point.
func (o *Orchestrator) checkRailsApplication() error {
	path := model.Production.ConfigFile()
	if o.files.Exists(path) {
		return nil
	}
	return model.NewCLIError(model.ExitInvalidInput,
		fmt.Sprintf("%s is not a Rails application: %s not found", o.files.Root(), path))
}

// writeDeploymentFiles writes the files committed with the first commit.
func (o *Orchestrator) writeDeploymentFiles(db scaffold.DatabaseConfig) error {
	o.console.Step("writing deployment files")

	if err := scaffold.WriteProcfiles(o.files); err != nil {
		return err
	}
	if err := scaffold.WriteDotEnv(o.files); err != nil {
		return err
	}
	if err := scaffold.ResetDatabaseYAML(o.files, db); err != nil {
		return err
	}
	return scaffold.AppendGitignore(o.files, scaffold.BaseIgnoreBlock)
}

// prepare creates the files an environment needs locally before it can
// be bootstrapped. Production ships with every Rails application.
func (o *Orchestrator) prepare(ctx context.Context, summary *Summary, db scaffold.DatabaseConfig, env model.Environment) error {
	switch env {
	case model.Staging:
		if err := scaffold.CreateStagingEnvironment(o.files); err != nil {
			return err
		}
		if err := scaffold.AppendDatabaseStanza(o.files, db, env); err != nil {
			return err
		}
		return o.commit(ctx, summary, StagingCommit)
	case model.Production:
		return nil
	}
	return fmt.Errorf("unknown environment %s", env)
}

func (o *Orchestrator) commit(ctx context.Context, summary *Summary, message string) error {
	if err := o.vcs.AddAll(ctx); err != nil {
		return err
	}
	if err := o.vcs.Commit(ctx, message); err != nil {
		return err
	}
	summary.Commits = append(summary.Commits, message)
	return nil
}
