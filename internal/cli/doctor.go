// Package cli: doctor.go implements the "railskit doctor" command.
//
// The doctor command reports whether the external tools railskit drives
// (git and the Heroku CLI) are installed, where, and in which version.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/railskit/internal/prerequisites"
)

// NewDoctorCommand creates the "doctor" cobra command.
func NewDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that git and the Heroku CLI are installed",
		Long: `Check that the external tools used by bootstrap are installed.

Binary names honour RAILSKIT_GIT_BIN and RAILSKIT_HEROKU_BIN. The command
exits with code 3 when a required tool is missing.

Examples:
  railskit doctor
  railskit doctor --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

// runDoctor checks the tools, prints the report and returns the
// ExitToolMissing error when a required tool is absent.
func runDoctor(ctx context.Context, w io.Writer) error {
	results := prerequisites.Check(prerequisites.DefaultTools(settings.GitBin, settings.HerokuBin))
	results.LoadVersions(ctx)
	VerboseLog("Checked %d tools, %d missing", len(results.Results), len(results.Missing))

	if IsJSONOutput() {
		if err := printJSON(w, results); err != nil {
			return err
		}
	} else {
		printDoctorText(w, results)
	}

	return results.Error()
}

// printDoctorText outputs the tool report as a text table.
//
//	TOOL     STATUS   PATH              VERSION
//	git      ok       /usr/bin/git      git version 2.43.0
//	heroku   missing  -                 -
func printDoctorText(w io.Writer, results *prerequisites.CheckResults) {
	fmt.Fprintf(w, "%-10s %-8s %-36s %s\n", "TOOL", "STATUS", "PATH", "VERSION")
	for _, result := range results.Results {
		status, path, version := "ok", result.Path, result.Version
		if !result.Found {
			status, path = "missing", "-"
		}
		if version == "" {
			version = "-"
		}
		fmt.Fprintf(w, "%-10s %-8s %-36s %s\n", result.Tool.Name, status, path, version)
	}
}
