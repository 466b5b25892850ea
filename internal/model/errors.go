package model

import (
	"errors"
	"fmt"
)

// ExitCode defines the process exit codes of the railskit CLI.
// Scripts can rely on them to tell which class of failure stopped a run.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitInvalidInput indicates an answer or argument was rejected and
	// could not be re-prompted (for example when stdin is not interactive).
	ExitInvalidInput ExitCode = 2

	// ExitToolMissing indicates a required external CLI (git, heroku)
	// is not installed or not on PATH.
	ExitToolMissing ExitCode = 3

	// ExitRemoteCommandFailed indicates a remote platform command failed.
	ExitRemoteCommandFailed ExitCode = 4

	// ExitGitError indicates a version control operation failed.
	ExitGitError ExitCode = 5

	// ExitFileMutationFailed indicates a generated file could not be
	// written, or an injection marker was missing.
	ExitFileMutationFailed ExitCode = 6

	// ExitUserCancelled indicates the operator aborted an interactive prompt.
	ExitUserCancelled ExitCode = 7
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

// ExitCodeOf returns the exit code carried by the first CLIError in err's
// chain, or ExitGeneralError when there is none.
func ExitCodeOf(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Code
	}
	return ExitGeneralError
}

// StepError names the bootstrap step that failed for an environment.
// It wraps the underlying failure, which is usually a CLIError, so the
// exit code survives.
type StepError struct {
	Environment Environment
	Step        BootstrapState
	Err         error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: step %s failed: %v", e.Environment, e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
