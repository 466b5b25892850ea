// Package cli: bootstrap.go implements the "railskit bootstrap" command.
//
// The bootstrap command runs the whole provisioning flow in a Rails
// application directory: prerequisite check, questions, deployment files,
// initial commit and the Heroku bootstrap of each requested environment.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/railskit/internal/bootstrap"
	"github.com/shinji-kodama/railskit/internal/config"
	"github.com/shinji-kodama/railskit/internal/heroku"
	"github.com/shinji-kodama/railskit/internal/model"
	"github.com/shinji-kodama/railskit/internal/mutate"
	"github.com/shinji-kodama/railskit/internal/orchestrator"
	"github.com/shinji-kodama/railskit/internal/prerequisites"
	"github.com/shinji-kodama/railskit/internal/prompt"
	"github.com/shinji-kodama/railskit/internal/ui"
	"github.com/shinji-kodama/railskit/internal/vcs"
)

// bootstrapFlags holds the flag values for the bootstrap command.
type bootstrapFlags struct {
	// dir is the Rails application directory. Defaults to the current
	// directory.
	dir string

	// defaults is an optional JSONC file pre-filling question fallbacks.
	defaults string
}

// NewBootstrapCommand creates the "bootstrap" cobra command.
func NewBootstrapCommand() *cobra.Command {
	flags := &bootstrapFlags{}

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Prepare a Rails application and provision it on Heroku",
		Long: `Prepare a freshly generated Rails application and provision it on Heroku.

The command asks for the team and software names, the database settings
and which environments to bootstrap, then:
  1. writes Procfile, Procfile-dev, .env, config/database.yml and .gitignore
  2. initializes git and commits "Genesis."
  3. creates, configures and optionally pushes staging and production

It refuses to run when a git remote named after a requested environment
already exists.

Examples:
  railskit bootstrap
  railskit bootstrap --dir ./widgets --defaults ~/.railskit.jsonc
  railskit bootstrap --json > summary.json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runBootstrap(cmd.Context(), flags, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&flags.dir, "dir", ".", "Rails application directory")
	cmd.Flags().StringVar(&flags.defaults, "defaults", "", "JSONC file with default answers")

	return cmd
}

// runBootstrap wires the concrete git, heroku and file implementations
// into the orchestrator and runs it.
func runBootstrap(ctx context.Context, flags *bootstrapFlags, stdout io.Writer) error {
	dir, err := filepath.Abs(flags.dir)
	if err != nil {
		return model.WrapCLIError(model.ExitInvalidInput, "failed to resolve directory", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return model.NewCLIError(model.ExitInvalidInput, fmt.Sprintf("%s is not a directory", dir))
	}

	answers, err := config.LoadAnswers(flags.defaults)
	if err != nil {
		return model.WrapCLIError(model.ExitInvalidInput, "invalid --defaults file", err)
	}

	// In JSON mode stdout carries the summary only, so the operator
	// dialogue moves to stderr.
	dialogue := os.Stdout
	if IsJSONOutput() {
		dialogue = os.Stderr
	}
	con := ui.New(dialogue)
	log := logrus.StandardLogger()

	VerboseLog("Bootstrapping %s", dir)

	platform := heroku.New(
		heroku.WithBinary(settings.HerokuBin),
		heroku.WithTimeout(settings.CommandTimeout),
		heroku.WithMaxRetries(settings.MaxRetries),
		heroku.WithLogger(log),
		heroku.WithConsole(con),
	)
	git := vcs.New(dir, settings.GitBin)
	files := mutate.New(dir)

	b := bootstrap.New(platform, git, files,
		bootstrap.WithConsole(con),
		bootstrap.WithLogger(log),
		bootstrap.WithBuildpackURL(settings.BuildpackURL),
		bootstrap.WithWebConcurrency(settings.WebConcurrency),
		bootstrap.WithPushBranch(settings.PushBranch),
	)

	o := orchestrator.New(prompt.New(os.Stdin, dialogue), files, git, b,
		orchestrator.WithTools(prerequisites.DefaultTools(settings.GitBin, settings.HerokuBin)),
		orchestrator.WithDefaults(answers),
		orchestrator.WithConsole(con),
		orchestrator.WithLogger(log),
	)

	summary, err := o.Run(ctx)
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		return printJSON(stdout, summary)
	}
	printSummaryText(stdout, summary)
	return nil
}

// printSummaryText outputs the result of a bootstrap as a text table.
//
// The table format is:
//
//	ENVIRONMENT  APPLICATION               HOSTNAME                            STATE
//	staging      acme-co-widgets-staging   acme-co-widgets-staging.herokuapp…  pushed
func printSummaryText(w io.Writer, summary *orchestrator.Summary) {
	fmt.Fprintf(w, "Bootstrapped %s (%d commits)\n", summary.Directory, len(summary.Commits))

	if len(summary.Reports) == 0 {
		fmt.Fprintln(w, "No Heroku environments were requested.")
		return
	}

	fmt.Fprintf(w, "%-12s %-32s %-44s %s\n", "ENVIRONMENT", "APPLICATION", "HOSTNAME", "STATE")
	for _, report := range summary.Reports {
		fmt.Fprintf(w, "%-12s %-32s %-44s %s\n",
			report.Environment,
			report.RepositoryName,
			report.Hostname,
			report.State(),
		)
	}
}
