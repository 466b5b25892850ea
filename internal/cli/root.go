// Package cli implements the cobra-based CLI commands for railskit.
//
// Each subcommand (bootstrap, doctor, name) is defined in its own file
// within this package. This file defines the root command that serves as
// the parent for all subcommands and handles global flags, logging setup
// and the translation of errors into exit codes.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/railskit/internal/config"
	"github.com/shinji-kodama/railskit/internal/model"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// jsonOutput controls whether command output is formatted as JSON.
	// When true, results go to stdout as JSON and everything meant for
	// the operator (questions, progress) moves to stderr.
	jsonOutput bool

	// verbose enables debug logging on stderr.
	verbose bool
)

// settings holds the RAILSKIT_* tool settings loaded before any
// subcommand runs.
var settings *config.Config

// Version, Commit, and Date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
// This is the entry point for the entire CLI application.
//
// The root command itself does not perform any action. It provides help
// text and global flags, and loads the tool settings before a subcommand
// runs.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "railskit",
		Short: "Finish a generated Rails application and provision it on Heroku",
		Long: `railskit prepares a freshly generated Rails application for Heroku.

It asks a handful of questions, writes the Procfiles, .env, database.yml
and .gitignore, makes the initial commit and then creates, configures and
optionally pushes one Heroku application per requested environment
(staging, production).

Tool settings are read from RAILSKIT_* environment variables:
  RAILSKIT_HEROKU_BIN, RAILSKIT_GIT_BIN, RAILSKIT_COMMAND_TIMEOUT,
  RAILSKIT_MAX_RETRIES, RAILSKIT_PUSH_BRANCH, RAILSKIT_BUILDPACK_URL,
  RAILSKIT_WEB_CONCURRENCY, RAILSKIT_DEBUG`,

		// SilenceUsage prevents cobra from printing usage on every error.
		// We handle error output ourselves for cleaner UX.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// We format errors ourselves (text or JSON based on --json flag).
		SilenceErrors: true,

		// Version is displayed when --version flag is used.
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		// PersistentPreRunE runs before every subcommand. Settings are
		// loaded here rather than in main so that --help works even with
		// a broken environment.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Environ()
			if err != nil {
				return model.WrapCLIError(model.ExitInvalidInput, "invalid RAILSKIT_* settings", err)
			}
			settings = cfg
			initLogging(cmd.ErrOrStderr(), cfg)
			VerboseLog("settings:\n%s", cfg)
			return nil
		},
	}

	// PersistentFlags are inherited by all subcommands.
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	// Register subcommands. Each subcommand is defined in its own file.
	rootCmd.AddCommand(NewBootstrapCommand())
	rootCmd.AddCommand(NewDoctorCommand())
	rootCmd.AddCommand(NewNameCommand())

	return rootCmd
}

// initLogging configures the standard logrus logger: text on stderr by
// default, JSON with --json, debug level with --verbose or RAILSKIT_DEBUG.
func initLogging(w io.Writer, cfg *config.Config) {
	logrus.SetOutput(w)
	if jsonOutput {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: true,
		})
	}

	logrus.SetLevel(logrus.InfoLevel)
	if verbose || cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
}

// Execute runs the root command and exits with the code carried by the
// returned error. This is the main entry point called from main.go.
func Execute(rootCmd *cobra.Command) {
	os.Exit(int(execute(rootCmd, os.Stderr)))
}

// execute runs the root command and translates its error into an exit
// code. CLIError values anywhere in the error chain carry their own exit
// codes; other errors default to exit code 1.
func execute(rootCmd *cobra.Command, stderr io.Writer) model.ExitCode {
	err := rootCmd.Execute()
	if err == nil {
		return model.ExitSuccess
	}
	printError(stderr, err)
	return model.ExitCodeOf(err)
}

// errorJSON is the JSON error format written with --json.
type errorJSON struct {
	Message     string `json:"message"`
	Detail      string `json:"detail,omitempty"`
	Code        int    `json:"code"`
	Environment string `json:"environment,omitempty"`
	Step        string `json:"step,omitempty"`
}

// printError outputs an error in the appropriate format (JSON or text)
// based on the --json global flag.
//
// A top-level CLIError is split into message and detail. A bootstrap
// StepError additionally reports the environment and the failed step.
func printError(w io.Writer, err error) {
	out := errorJSON{
		Message: err.Error(),
		Code:    int(model.ExitCodeOf(err)),
	}

	var cliErr *model.CLIError
	if errors.As(err, &cliErr) && error(cliErr) == err {
		out.Message = cliErr.Message
		if cliErr.Err != nil {
			out.Detail = cliErr.Err.Error()
		}
	}

	var stepErr *model.StepError
	if errors.As(err, &stepErr) {
		out.Environment = stepErr.Environment.String()
		out.Step = stepErr.Step.String()
	}

	if jsonOutput {
		// We write to stderr for errors, even in JSON mode, because stdout
		// is reserved for successful command output.
		data, _ := json.MarshalIndent(map[string]errorJSON{"error": out}, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}

	fmt.Fprintf(w, "Error: %s\n", err)
}

// VerboseLog prints a debug message through logrus. It only shows when
// --verbose or RAILSKIT_DEBUG is set.
func VerboseLog(format string, args ...interface{}) {
	logrus.Debugf(format, args...)
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
