// Package prompt collects free-text and yes/no answers from the operator.
//
// Two implementations exist behind the Prompter interface:
//   - HuhPrompter renders interactive forms with github.com/charmbracelet/huh
//     when both stdin and stdout are terminals.
//   - LinePrompter reads plain lines from any io.Reader. It is used when
//     input is piped and in tests.
//
// Both block until an acceptable answer is given or the context is
// cancelled. End of input is fatal: there is no sensible default for a
// question nobody can answer.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"

	"github.com/shinji-kodama/railskit/internal/model"
	"github.com/shinji-kodama/railskit/internal/ui"
)

// ErrInputClosed is returned when input ends before a question is answered.
var ErrInputClosed = errors.New("input closed before the question was answered")

// Prompter defines the interface for interactive operator input.
type Prompter interface {
	// AskText returns a free-text answer. With an empty fallback it blocks
	// until a non-blank answer is given; otherwise a blank answer
	// resolves to the fallback.
	AskText(ctx context.Context, question, fallback string) (string, error)

	// AskYesNo blocks until the answer parses as yes or no.
	AskYesNo(ctx context.Context, question string) (bool, error)
}

// IsTerminal reports whether the file refers to a terminal device.
var IsTerminal = func(file *os.File) bool {
	if file == nil {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// New picks the interactive form prompter when both ends are terminals
// and the line prompter otherwise.
func New(in, out *os.File) Prompter {
	if IsTerminal(in) && IsTerminal(out) {
		return HuhPrompter{}
	}
	return NewLinePrompter(in, out)
}

// textLabel renders "question?" or "question (fallback)?".
func textLabel(question, fallback string) string {
	if fallback == "" {
		return question + "?"
	}
	return fmt.Sprintf("%s (%s)?", question, fallback)
}

// parseYesNo accepts y/yes/n/no in any case.
func parseYesNo(answer string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, true
	case "n", "no":
		return false, true
	default:
		return false, false
	}
}

// cancelled converts a cancelled context into the user-cancelled exit.
func cancelled(ctx context.Context, label string) error {
	return model.WrapCLIError(model.ExitUserCancelled, "interrupted at "+label, ctx.Err())
}

// lineResult is one line read from the input, or the error that ended it.
type lineResult struct {
	line string
	err  error
}

// LinePrompter asks questions on a writer and reads line answers.
//
// Reads happen on a single background goroutine so that a blocked read
// never keeps a cancelled prompt waiting. The goroutine stops at the first
// read error.
type LinePrompter struct {
	in      *bufio.Reader
	out     io.Writer
	console *ui.Console

	once  sync.Once
	lines chan lineResult
}

// NewLinePrompter creates a LinePrompter over the given streams.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{
		in:      bufio.NewReader(in),
		out:     out,
		console: ui.New(out),
	}
}

// AskText implements Prompter.
func (p *LinePrompter) AskText(ctx context.Context, question, fallback string) (string, error) {
	for {
		answer, err := p.ask(ctx, textLabel(question, fallback))
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
		if fallback != "" {
			return fallback, nil
		}
	}
}

// AskYesNo implements Prompter.
func (p *LinePrompter) AskYesNo(ctx context.Context, question string) (bool, error) {
	for {
		answer, err := p.ask(ctx, question + "? [y/n]")
		if err != nil {
			return false, err
		}
		if value, ok := parseYesNo(answer); ok {
			return value, nil
		}
		p.console.Warn("Please answer yes or no.")
	}
}

// readLines feeds p.lines until the input fails or ends.
func (p *LinePrompter) readLines() {
	for {
		line, err := p.in.ReadString('\n')
		p.lines <- lineResult{line: line, err: err}
		if err != nil {
			return
		}
	}
}

// ask prints the label and reads one trimmed line.
func (p *LinePrompter) ask(ctx context.Context, label string) (string, error) {
	if ctx.Err() != nil {
		return "", cancelled(ctx, label)
	}

	fmt.Fprint(p.out, p.console.Question(label)+" ")

	p.once.Do(func() {
		p.lines = make(chan lineResult, 1)
		go p.readLines()
	})

	var res lineResult
	select {
	case <-ctx.Done():
		return "", cancelled(ctx, label)
	case res = <-p.lines:
	}

	line, err := res.line, res.err
	if err != nil {
		// A final line without a trailing newline is still an answer.
		if errors.Is(err, io.EOF) && line != "" {
			// Later questions must see the end of input too.
			p.lines <- lineResult{err: io.EOF}
			return strings.TrimSpace(line), nil
		}
		// Keep the error for the next question.
		p.lines <- lineResult{err: err}
		if errors.Is(err, io.EOF) {
			return "", model.WrapCLIError(model.ExitUserCancelled, "no answer for "+label, ErrInputClosed)
		}
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}
