package bootstrap

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/railskit/internal/model"
	"github.com/shinji-kodama/railskit/internal/prompt"
)

func linePrompter(answers ...string) (*prompt.LinePrompter, *strings.Builder) {
	out := &strings.Builder{}
	in := strings.NewReader(strings.Join(answers, "\n") + "\n")
	return prompt.NewLinePrompter(in, out), out
}

func TestCollectOptions_AcceptsComposedName(t *testing.T) {
	f := newFixture(t)
	p, out := linePrompter("", "y", "n", "yes", "no")

	opts, err := f.b.CollectOptions(context.Background(), p, model.Staging, "Acme Co", "Widgets")
	require.NoError(t, err)

	assert.Equal(t, model.ProvisioningOptions{
		Environment:      model.Staging,
		RepositoryName:   "acme-co-widgets-staging",
		EnableFreeAddons: true,
		EnableEmail:      false,
		EnableDNS:        true,
		ShouldPush:       false,
	}, opts)

	transcript := out.String()
	assert.Contains(t, transcript, "Name for staging (acme-co-widgets-staging)?")
	assert.Contains(t, transcript, "Bootstrap free Heroku addons for staging?")
	assert.Contains(t, transcript, "Bootstrap free Heroku email addon for staging?")
	assert.Contains(t, transcript, "Bootstrap free Heroku dns addon for staging?")
	assert.Contains(t, transcript, "Push staging to Heroku?")
}

func TestCollectOptions_DigitLeadingTeam(t *testing.T) {
	f := newFixture(t)
	p, _ := linePrompter("", "n", "n", "n", "n")

	opts, err := f.b.CollectOptions(context.Background(), p, model.Production, "42 Labs", "App")
	require.NoError(t, err)
	assert.Equal(t, "r42-labs-app-production", opts.RepositoryName)
}

func TestCollectOptions_RepromptsUntilValid(t *testing.T) {
	f := newFixture(t)
	p, _ := linePrompter(
		"Bad Name",
		"a-very-long-application-name-for-staging",
		"9starts-with-digit",
		"acme-staging",
		"n", "n", "n", "n",
	)

	opts, err := f.b.CollectOptions(context.Background(), p, model.Staging, "Acme", "Widgets")
	require.NoError(t, err)
	assert.Equal(t, "acme-staging", opts.RepositoryName)

	warnings := f.out.String()
	assert.Equal(t, 2, strings.Count(warnings, model.ErrNameCharset.Error()))
	assert.Equal(t, 1, strings.Count(warnings, model.ErrNameTooLong.Error()))
}

func TestCollectOptions_InvalidNamesNeverAdvance(t *testing.T) {
	f := newFixture(t)
	// Every submission breaks a rule and then input ends.
	p, _ := linePrompter("UPPER", "with space", strings.Repeat("a", 31))

	_, err := f.b.CollectOptions(context.Background(), p, model.Staging, "Acme", "Widgets")

	require.Error(t, err)
	assert.ErrorIs(t, err, prompt.ErrInputClosed)
	assert.Equal(t, model.ExitUserCancelled, model.ExitCodeOf(err))
	assert.Empty(t, f.platform.calls)
	assert.Empty(t, f.vcs.calls)
}

func TestCollectOptions_BlankAnswerKeepsLastName(t *testing.T) {
	f := newFixture(t)
	p, out := linePrompter("Bad Name", "acme-staging", "n", "n", "n", "n")

	_, err := f.b.CollectOptions(context.Background(), p, model.Staging, "Acme", "Widgets")
	require.NoError(t, err)

	// The rejected answer becomes the next default.
	assert.Contains(t, out.String(), "Name for staging (Bad Name)?")
}

func TestCollectOptions_AsksSoftwareName(t *testing.T) {
	f := newFixture(t)
	p, out := linePrompter("Gadgets", "", "n", "n", "n", "n")

	opts, err := f.b.CollectOptions(context.Background(), p, model.Staging, "Acme", "")
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Software name?")
	assert.Equal(t, "acme-gadgets-staging", opts.RepositoryName)
}

func TestCollectOptions_CancelledContext(t *testing.T) {
	f := newFixture(t)
	p, _ := linePrompter("", "n", "n", "n", "n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.b.CollectOptions(ctx, p, model.Staging, "Acme", "Widgets")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCollectOptions_InvalidEnvironment(t *testing.T) {
	f := newFixture(t)
	p, _ := linePrompter()

	_, err := f.b.CollectOptions(context.Background(), p, model.Environment(0), "Acme", "Widgets")
	require.Error(t, err)
	assert.Equal(t, model.ExitInvalidInput, model.ExitCodeOf(err))
}
