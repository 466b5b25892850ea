package scaffold

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/railskit/internal/model"
	"github.com/shinji-kodama/railskit/internal/mutate"
)

// DatabaseYAMLPath is the Rails database configuration file.
const DatabaseYAMLPath = "config/database.yml"

const (
	databasePool    = 5
	databaseTimeout = 5000
)

// DatabaseConfig holds the answers used to render database.yml.
type DatabaseConfig struct {
	Prefix   string
	Username string
	Password string
}

// Stanza is one environment entry of database.yml.
type Stanza struct {
	Adapter  string `yaml:"adapter"`
	Encoding string `yaml:"encoding"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Pool     int    `yaml:"pool"`
	Timeout  int    `yaml:"timeout"`
}

// Stanza returns the PostgreSQL settings for the named Rails environment.
// The database is named <prefix>_<environment>.
func (c DatabaseConfig) Stanza(environment string) Stanza {
	return Stanza{
		Adapter:  "postgresql",
		Encoding: "unicode",
		Database: c.Prefix + "_" + environment,
		Username: c.Username,
		Password: c.Password,
		Pool:     databasePool,
		Timeout:  databaseTimeout,
	}
}

// Render returns the YAML for the given environments, in order, separated
// by blank lines. The "test" stanza carries a "&test" anchor so that
// other stanzas can alias it.
func (c DatabaseConfig) Render(environments ...string) (string, error) {
	blocks := make([]string, 0, len(environments))
	for _, env := range environments {
		block, err := c.renderStanza(env)
		if err != nil {
			return "", err
		}
		blocks = append(blocks, block)
	}
	return strings.Join(blocks, "\n"), nil
}

func (c DatabaseConfig) renderStanza(environment string) (string, error) {
	var value yaml.Node
	if err := value.Encode(c.Stanza(environment)); err != nil {
		return "", fmt.Errorf("failed to encode %s stanza: %w", environment, err)
	}
	if environment == "test" {
		value.Anchor = "test"
	}
	doc := yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Tag: "!!str", Value: environment},
			&value,
		},
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return "", fmt.Errorf("failed to render %s stanza: %w", environment, err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to render %s stanza: %w", environment, err)
	}
	return buf.String(), nil
}

// ResetDatabaseYAML comments out whatever database.yml the application
// generator produced and appends PostgreSQL stanzas for development,
// production and test.
func ResetDatabaseYAML(m *mutate.Mutator, cfg DatabaseConfig) error {
	if m.Exists(DatabaseYAMLPath) {
		if err := m.CommentOutLines(DatabaseYAMLPath); err != nil {
			return model.WrapCLIError(model.ExitFileMutationFailed, "failed to comment out database.yml", err)
		}
	}

	content, err := cfg.Render("development", "production", "test")
	if err != nil {
		return model.WrapCLIError(model.ExitFileMutationFailed, "failed to render database.yml", err)
	}
	if err := m.AppendBlock(DatabaseYAMLPath, "\n"+content+"\n"); err != nil {
		return model.WrapCLIError(model.ExitFileMutationFailed, "failed to write database.yml", err)
	}
	return nil
}

// AppendDatabaseStanza appends the stanza for one remote environment.
func AppendDatabaseStanza(m *mutate.Mutator, cfg DatabaseConfig, env model.Environment) error {
	content, err := cfg.Render(env.String())
	if err != nil {
		return model.WrapCLIError(model.ExitFileMutationFailed, "failed to render database.yml", err)
	}
	if err := m.AppendBlock(DatabaseYAMLPath, content); err != nil {
		return model.WrapCLIError(model.ExitFileMutationFailed,
			fmt.Sprintf("failed to add the %s stanza to database.yml", env), err)
	}
	return nil
}
