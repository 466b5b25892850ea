// Package config loads railskit's tool settings and optional answer
// defaults.
//
// Tool settings come from RAILSKIT_* environment variables, read with
// github.com/kelseyhightower/envconfig. They tune how external tools are
// invoked and never change what gets provisioned; provisioning choices
// always come from the operator's answers.
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// envPrefix namespaces every setting, e.g. RAILSKIT_HEROKU_BIN.
const envPrefix = "RAILSKIT"

// DefaultBuildpackURL is the source-build hook every application is
// configured with.
const DefaultBuildpackURL = "git://github.com/qnyp/heroku-buildpack-ruby-bower.git#run-bower"

// Config holds the tool settings. An empty PushBranch pushes the
// checked-out branch.
type Config struct {
	Debug          bool          `envconfig:"DEBUG"`
	HerokuBin      string        `envconfig:"HEROKU_BIN"`
	GitBin         string        `envconfig:"GIT_BIN"`
	CommandTimeout time.Duration `envconfig:"COMMAND_TIMEOUT"`
	MaxRetries     uint64        `envconfig:"MAX_RETRIES" default:"3"`
	PushBranch     string        `envconfig:"PUSH_BRANCH"`
	BuildpackURL   string        `envconfig:"BUILDPACK_URL"`
	WebConcurrency int           `envconfig:"WEB_CONCURRENCY"`
}

// Environ returns the settings from the environment.
func Environ() (*Config, error) {
	cfg := Config{}
	err := envconfig.Process(envPrefix, &cfg)
	defaults(&cfg)

	return &cfg, err
}

func defaults(c *Config) {
	if c.HerokuBin == "" {
		c.HerokuBin = "heroku"
	}
	if c.GitBin == "" {
		c.GitBin = "git"
	}
	if c.CommandTimeout <= 0 {
		c.CommandTimeout = 2 * time.Minute
	}
	if c.BuildpackURL == "" {
		c.BuildpackURL = DefaultBuildpackURL
	}
	if c.WebConcurrency <= 0 {
		c.WebConcurrency = 3
	}
}

// String returns the configuration in string format.
func (c *Config) String() string {
	out, _ := yaml.Marshal(c)
	return string(out)
}
