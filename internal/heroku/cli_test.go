package heroku

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/railskit/internal/model"
	"github.com/shinji-kodama/railskit/internal/ui"
)

// fakeRunner records every invocation and replays scripted results in order.
// When the script runs out, calls succeed with empty output.
type fakeRunner struct {
	calls   [][]string
	results []fakeResult
}

type fakeResult struct {
	output string
	err    error
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if len(f.results) == 0 {
		return "", nil
	}
	r := f.results[0]
	f.results = f.results[1:]
	return r.output, r.err
}

func (f *fakeRunner) commandLines() []string {
	lines := make([]string, len(f.calls))
	for i, c := range f.calls {
		lines[i] = strings.Join(c, " ")
	}
	return lines
}

func newTestCLI(r Runner) *CLI {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return New(
		WithRunner(r),
		WithMaxRetries(2),
		WithBackOff(func() backoff.BackOff { return &backoff.ZeroBackOff{} }),
		WithLogger(logger),
		WithConsole(ui.Discard()),
	)
}

func TestCreateApp(t *testing.T) {
	r := &fakeRunner{}
	c := newTestCLI(r)

	require.NoError(t, c.CreateApp(context.Background(), "acme-co-widgets-staging", "staging"))
	assert.Equal(t, []string{"heroku create acme-co-widgets-staging --remote staging"}, r.commandLines())
}

func TestSetConfig_KeepsOrderAndTargetsApp(t *testing.T) {
	r := &fakeRunner{}
	c := newTestCLI(r)

	err := c.SetConfig(context.Background(), "acme-staging",
		ConfigVar{"APP_HOSTNAME", "acme-staging.herokuapp.com"},
		ConfigVar{"WEB_CONCURRENCY", "3"},
		ConfigVar{"RAILS_ENV", "staging"},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"heroku config:set APP_HOSTNAME=acme-staging.herokuapp.com WEB_CONCURRENCY=3 RAILS_ENV=staging -a acme-staging",
	}, r.commandLines())
}

func TestSetConfig_NoVarsIsNoop(t *testing.T) {
	r := &fakeRunner{}
	require.NoError(t, newTestCLI(r).SetConfig(context.Background(), "acme"))
	assert.Empty(t, r.calls)
}

// TestSetConfig_RetriesTransientFailures checks idempotent calls are
// retried until they succeed.
func TestSetConfig_RetriesTransientFailures(t *testing.T) {
	r := &fakeRunner{results: []fakeResult{
		{err: errors.New("ETIMEDOUT")},
		{err: errors.New("503")},
		{output: "Setting HEROKU_WAKEUP and restarting acme... done"},
	}}
	c := newTestCLI(r)

	require.NoError(t, c.SetConfig(context.Background(), "acme", ConfigVar{"HEROKU_WAKEUP", "true"}))
	assert.Len(t, r.calls, 3)
}

func TestSetConfig_GivesUpAfterMaxRetries(t *testing.T) {
	r := &fakeRunner{results: []fakeResult{
		{err: errors.New("503")}, {err: errors.New("503")}, {err: errors.New("503")}, {err: errors.New("503")},
	}}
	c := newTestCLI(r)

	err := c.SetConfig(context.Background(), "acme", ConfigVar{"A", "1"})
	require.Error(t, err)
	assert.Len(t, r.calls, 3)
	assert.Equal(t, model.ExitRemoteCommandFailed, model.ExitCodeOf(err))
	assert.Contains(t, err.Error(), "heroku config:set A=1 -a acme failed")
}

// TestAddAddon_NotRetried verifies calls that create resources run once.
func TestAddAddon_NotRetried(t *testing.T) {
	r := &fakeRunner{results: []fakeResult{{err: errors.New("plan not found")}}}
	c := newTestCLI(r)

	err := c.AddAddon(context.Background(), "acme", "sendgrid:starter")
	require.Error(t, err)
	assert.Equal(t, []string{"heroku addons:create sendgrid:starter -a acme"}, r.commandLines())
	assert.Equal(t, model.ExitRemoteCommandFailed, model.ExitCodeOf(err))
	assert.Contains(t, err.Error(), "plan not found")
}

func TestRunCommand(t *testing.T) {
	r := &fakeRunner{}
	c := newTestCLI(r)

	require.NoError(t, c.RunCommand(context.Background(), "acme-production", "rake db:migrate"))
	assert.Equal(t, []string{"heroku run rake db:migrate -a acme-production"}, r.commandLines())
}

func TestDomain(t *testing.T) {
	r := &fakeRunner{results: []fakeResult{{
		output: "=== acme-staging Heroku Domain\nacme-staging.herokuapp.com\n\n=== acme-staging Custom Domains\nwww.acme.example  CNAME  acme.herokudns.com\n",
	}}}
	c := newTestCLI(r)

	domain, err := c.Domain(context.Background(), "staging")
	require.NoError(t, err)
	assert.Equal(t, "acme-staging.herokuapp.com", domain)
	assert.Equal(t, []string{"heroku domains --remote staging"}, r.commandLines())
}

func TestDomain_NotFound(t *testing.T) {
	r := &fakeRunner{results: []fakeResult{{output: "=== acme Heroku Domain\n"}}}
	_, err := newTestCLI(r).Domain(context.Background(), "staging")
	require.Error(t, err)
	assert.Equal(t, model.ExitRemoteCommandFailed, model.ExitCodeOf(err))
}

// TestMissingBinary verifies a missing CLI maps to the tool-missing exit
// code and is never retried.
func TestMissingBinary(t *testing.T) {
	notFound := &exec.Error{Name: "heroku", Err: exec.ErrNotFound}
	r := &fakeRunner{results: []fakeResult{{err: notFound}}}

	err := newTestCLI(r).SetConfig(context.Background(), "acme", ConfigVar{"A", "1"})
	require.Error(t, err)
	assert.Len(t, r.calls, 1)
	assert.Equal(t, model.ExitToolMissing, model.ExitCodeOf(err))
}

func TestWithBinary(t *testing.T) {
	r := &fakeRunner{}
	c := New(WithRunner(r), WithBinary("/opt/heroku/bin/heroku"), WithConsole(ui.Discard()))
	require.NoError(t, c.CreateApp(context.Background(), "acme", "production"))
	assert.Equal(t, "/opt/heroku/bin/heroku", r.calls[0][0])
}

// deadlineRunner reports whether each attempt carried a deadline.
type deadlineRunner struct {
	hadDeadline bool
}

func (d *deadlineRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	_, d.hadDeadline = ctx.Deadline()
	return "", nil
}

func TestRemote_AppliesTimeout(t *testing.T) {
	r := &deadlineRunner{}
	c := New(WithRunner(r), WithTimeout(time.Second), WithConsole(ui.Discard()))
	require.NoError(t, c.CreateApp(context.Background(), "acme", "staging"))
	assert.True(t, r.hadDeadline)
}

func TestParseDomain(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
		found  bool
	}{
		{"legacy output", "acme.herokuapp.com\n", "acme.herokuapp.com", true},
		{"header skipped", "=== acme Heroku Domain\nacme-123abc.herokuapp.com\n", "acme-123abc.herokuapp.com", true},
		{"surrounding spaces", "   acme.herokuapp.com   \n", "acme.herokuapp.com", true},
		{"no heroku line", "www.acme.example\n", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDomain(tt.output)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExecRunner(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	out, err := ExecRunner{}.Run(context.Background(), "sh", "-c", "echo hello")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)

	_, err = ExecRunner{}.Run(context.Background(), "sh", "-c", "echo oops >&2; exit 3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oops")
	assert.Contains(t, fmt.Sprint(err), "exit status 3")
}
