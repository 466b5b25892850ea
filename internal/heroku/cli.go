package heroku

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/shinji-kodama/railskit/internal/model"
	"github.com/shinji-kodama/railskit/internal/ui"
)

const (
	// DefaultBinary is the platform CLI executable looked up on PATH.
	DefaultBinary = "heroku"

	// DefaultTimeout bounds a single command attempt.
	DefaultTimeout = 2 * time.Minute

	// DefaultMaxRetries is the number of retries after the first attempt
	// for idempotent commands.
	DefaultMaxRetries = 3
)

// ConfigVar is one KEY=VALUE pair for config:set. A slice keeps the
// order the operator sees in the run log.
type ConfigVar struct {
	Key   string
	Value string
}

func (v ConfigVar) String() string {
	return v.Key + "=" + v.Value
}

// CLI implements the bootstrapper's remote platform on top of the
// heroku binary.
type CLI struct {
	runner     Runner
	bin        string
	timeout    time.Duration
	maxRetries uint64
	newBackOff func() backoff.BackOff
	log        logrus.FieldLogger
	console    *ui.Console
}

// Option is a functional option for CLI configuration.
type Option func(*CLI)

// WithRunner replaces the command runner, typically with a fake in tests.
func WithRunner(r Runner) Option {
	return func(c *CLI) { c.runner = r }
}

// WithBinary sets the platform CLI executable.
func WithBinary(bin string) Option {
	return func(c *CLI) {
		if bin != "" {
			c.bin = bin
		}
	}
}

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *CLI) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMaxRetries sets how often idempotent commands are retried.
func WithMaxRetries(n uint64) Option {
	return func(c *CLI) { c.maxRetries = n }
}

// WithBackOff sets the delay policy between retries.
func WithBackOff(f func() backoff.BackOff) Option {
	return func(c *CLI) { c.newBackOff = f }
}

// WithLogger sets the structured logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *CLI) { c.log = l }
}

// WithConsole sets where executed commands are echoed for the operator.
func WithConsole(con *ui.Console) Option {
	return func(c *CLI) { c.console = con }
}

// New creates a CLI with defaults, then applies opts.
func New(opts ...Option) *CLI {
	c := &CLI{
		runner:     ExecRunner{},
		bin:        DefaultBinary,
		timeout:    DefaultTimeout,
		maxRetries: DefaultMaxRetries,
		newBackOff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
		log:        logrus.StandardLogger(),
		console:    ui.New(nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateApp creates an application and registers a git remote for it
// (`heroku create <name> --remote <remote>`).
func (c *CLI) CreateApp(ctx context.Context, name, remote string) error {
	_, err := c.remote(ctx, false, "", "create", name, "--remote", remote)
	return err
}

// Domain returns the platform-assigned hostname of the application behind
// the given git remote.
func (c *CLI) Domain(ctx context.Context, remote string) (string, error) {
	output, err := c.remote(ctx, true, "", "domains", "--remote", remote)
	if err != nil {
		return "", err
	}
	domain, ok := ParseDomain(output)
	if !ok {
		return "", model.NewCLIError(model.ExitRemoteCommandFailed,
			fmt.Sprintf("no heroku domain found for remote %q", remote))
	}
	return domain, nil
}

// SetConfig sets configuration variables on app in a single call.
func (c *CLI) SetConfig(ctx context.Context, app string, vars ...ConfigVar) error {
	if len(vars) == 0 {
		return nil
	}
	args := []string{"config:set"}
	for _, v := range vars {
		args = append(args, v.String())
	}
	_, err := c.remote(ctx, true, app, args...)
	return err
}

// AddAddon provisions an add-on plan on app.
func (c *CLI) AddAddon(ctx context.Context, app, plan string) error {
	_, err := c.remote(ctx, false, app, "addons:create", plan)
	return err
}

// RunCommand runs a one-off command in a dyno of app, e.g.
// "rake db:migrate".
func (c *CLI) RunCommand(ctx context.Context, app, command string) error {
	args := append([]string{"run"}, strings.Fields(command)...)
	_, err := c.remote(ctx, false, app, args...)
	return err
}

// remote runs `heroku <args> [-a app]`. Idempotent calls are retried;
// the others fail on the first error.
func (c *CLI) remote(ctx context.Context, idempotent bool, app string, args ...string) (string, error) {
	if app != "" {
		args = append(args, "-a", app)
	}
	commandLine := c.bin + " " + strings.Join(args, " ")
	c.console.Run("%s", commandLine)

	log := c.log.WithField("command", commandLine)

	var output string
	attempt := 0
	operation := func() error {
		attempt++
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		out, err := c.runner.Run(attemptCtx, c.bin, args...)
		if err == nil {
			output = out
			return nil
		}
		if errors.Is(err, exec.ErrNotFound) {
			return backoff.Permanent(model.WrapCLIError(model.ExitToolMissing,
				fmt.Sprintf("%s not found on PATH", c.bin), err))
		}
		if !idempotent {
			return backoff.Permanent(err)
		}
		log.WithField("attempt", attempt).WithError(err).Warn("command failed, retrying")
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), c.maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		var cliErr *model.CLIError
		if errors.As(err, &cliErr) {
			return "", err
		}
		return "", model.WrapCLIError(model.ExitRemoteCommandFailed, commandLine+" failed", err)
	}

	log.Debug("command succeeded")
	return output, nil
}

// ParseDomain extracts the hostname from `heroku domains` output: the
// first field of the first non-header line containing "heroku".
func ParseDomain(output string) (string, bool) {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "===") {
			continue
		}
		if strings.Contains(line, "heroku") {
			return strings.Fields(line)[0], true
		}
	}
	return "", false
}
