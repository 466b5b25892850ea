package prompt

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/shinji-kodama/railskit/internal/model"
)

var errAnswerRequired = errors.New("an answer is required")

// HuhPrompter implements the Prompter interface using the huh TUI library.
type HuhPrompter struct{}

// AskText implements Prompter. Without a fallback the input refuses to
// submit blank values; with one the fallback is shown as the placeholder.
func (p HuhPrompter) AskText(ctx context.Context, question, fallback string) (string, error) {
	var value string

	input := huh.NewInput().
		Title(textLabel(question, fallback)).
		Value(&value)
	if fallback == "" {
		input = input.Validate(requireAnswer)
	} else {
		input = input.Placeholder(fallback)
	}

	if err := huh.NewForm(huh.NewGroup(input)).RunWithContext(ctx); err != nil {
		return "", translateHuhError(ctx, err)
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	return value, nil
}

// AskYesNo implements Prompter.
func (p HuhPrompter) AskYesNo(ctx context.Context, question string) (bool, error) {
	var value bool
	confirm := huh.NewConfirm().
		Title(question + "?").
		Affirmative("Yes").
		Negative("No").
		Value(&value)

	if err := huh.NewForm(huh.NewGroup(confirm)).RunWithContext(ctx); err != nil {
		return false, translateHuhError(ctx, err)
	}
	return value, nil
}

func requireAnswer(s string) error {
	if strings.TrimSpace(s) == "" {
		return errAnswerRequired
	}
	return nil
}

// translateHuhError maps Ctrl+C in a form, or a cancelled context, to the
// user-cancelled exit code. huh reports a cancelled context as ErrTimeout.
func translateHuhError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return model.WrapCLIError(model.ExitUserCancelled, "operation cancelled by user", ctx.Err())
	}
	if errors.Is(err, huh.ErrUserAborted) {
		return model.WrapCLIError(model.ExitUserCancelled, "operation cancelled by user", err)
	}
	return err
}
