// Package cli: name.go implements the "railskit name" command.
//
// The name command previews the Heroku application names bootstrap would
// propose for a team and software name, along with any naming rule the
// proposal breaks. It touches neither git nor Heroku.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/railskit/internal/model"
	"github.com/shinji-kodama/railskit/internal/naming"
)

// nameFlags holds the flag values for the name command.
type nameFlags struct {
	// env limits the preview to one environment. Empty means all.
	env string
}

// NamePreview is the proposed application name for one environment.
type NamePreview struct {
	Environment model.Environment `json:"environment"`
	Name        string            `json:"name"`
	Valid       bool              `json:"valid"`
	Problems    []string          `json:"problems,omitempty"`
}

// NewNameCommand creates the "name" cobra command.
func NewNameCommand() *cobra.Command {
	flags := &nameFlags{}

	cmd := &cobra.Command{
		Use:   "name <team> <software>",
		Short: "Preview the Heroku application names for a project",
		Long: `Preview the Heroku application names bootstrap proposes.

Names are transliterated to ASCII, lower-cased and dash-separated, and a
team name starting with a digit is prefixed with "r". A valid name starts
with a letter, holds only lowercase letters, digits and dashes and is at
most 30 characters long.

Examples:
  railskit name "Acme Co" Widgets
  railskit name "Acme Co" Widgets --env production --json`,

		Args: cobra.ExactArgs(2),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runName(flags, args[0], args[1], cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&flags.env, "env", "", "Only preview one environment: staging or production")

	return cmd
}

func runName(flags *nameFlags, team, software string, w io.Writer) error {
	envs := model.Environments()
	if flags.env != "" {
		env, err := model.ParseEnvironment(flags.env)
		if err != nil {
			return model.WrapCLIError(model.ExitInvalidInput, "invalid --env", err)
		}
		envs = []model.Environment{env}
	}

	previews := PreviewNames(team, software, envs...)

	if IsJSONOutput() {
		return printJSON(w, previews)
	}

	for _, preview := range previews {
		fmt.Fprintf(w, "%-12s %s\n", preview.Environment, preview.Name)
		for _, problem := range preview.Problems {
			fmt.Fprintf(w, "%-12s   warning: %s\n", "", problem)
		}
	}
	return nil
}

// PreviewNames composes and validates the application name of each
// environment.
func PreviewNames(team, software string, envs ...model.Environment) []NamePreview {
	previews := make([]NamePreview, 0, len(envs))
	for _, env := range envs {
		name := naming.ComposeRepositoryName(team, software, env)
		preview := NamePreview{Environment: env, Name: name, Valid: true}
		for _, problem := range model.ValidateRepositoryName(name) {
			preview.Valid = false
			preview.Problems = append(preview.Problems, problem.Error())
		}
		previews = append(previews, preview)
	}
	return previews
}
