// Package ui provides the operator-facing console output of railskit.
//
// Every line is a right-aligned, coloured status label followed by a
// message, e.g. "      answer  Team name?". Colours are rendered with
// github.com/fatih/color, which disables itself when stdout is not a
// terminal, so captured output stays plain text.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// labelWidth is the column the status labels are right-aligned to.
const labelWidth = 12

var (
	answerLabel = color.New(color.FgBlue, color.Bold).SprintFunc()
	warnLabel   = color.New(color.FgYellow, color.Bold).SprintFunc()
	runLabel    = color.New(color.FgGreen, color.Bold).SprintFunc()
	errorLabel  = color.New(color.FgRed, color.Bold).SprintFunc()
	stepLabel   = color.New(color.FgCyan, color.Bold).SprintFunc()
)

// Console writes status lines to an output stream.
type Console struct {
	Out io.Writer
}

// New creates a Console writing to out. A nil writer means stdout.
func New(out io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{Out: out}
}

// Discard returns a Console that drops everything. Useful in tests.
func Discard() *Console {
	return &Console{Out: io.Discard}
}

// Question formats a prompt line. It does not print anything because
// prompt implementations decide where and how the question is displayed.
func (c *Console) Question(question string) string {
	return status(answerLabel, "answer", question)
}

// Warn prints a warning line.
func (c *Console) Warn(format string, args ...any) {
	fmt.Fprintln(c.Out, status(warnLabel, "warn", fmt.Sprintf(format, args...)))
}

// Run prints the external command about to be executed.
func (c *Console) Run(format string, args ...any) {
	fmt.Fprintln(c.Out, status(runLabel, "run", fmt.Sprintf(format, args...)))
}

// Step prints a bootstrap state transition.
func (c *Console) Step(format string, args ...any) {
	fmt.Fprintln(c.Out, status(stepLabel, "step", fmt.Sprintf(format, args...)))
}

// Error prints an error line.
func (c *Console) Error(format string, args ...any) {
	fmt.Fprintln(c.Out, status(errorLabel, "error", fmt.Sprintf(format, args...)))
}

// status pads the plain label before colouring it, since escape codes
// would otherwise count towards the width.
func status(paint func(a ...interface{}) string, label, message string) string {
	pad := labelWidth - len(label)
	if pad < 0 {
		pad = 0
	}
	return fmt.Sprintf("%*s%s  %s", pad, "", paint(label), message)
}
