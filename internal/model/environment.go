package model

import (
	"fmt"
	"strings"
)

// Environment identifies one remote deployment target of the generated
// application. It is a closed set: every branch on environment identity
// must switch over all members so that a new environment cannot slip
// through a string comparison unnoticed.
type Environment int

const (
	// Staging is the pre-production target. It gets a sandbox mail relay
	// and its keep-alive scheduler is disabled.
	Staging Environment = iota + 1

	// Production is the live target. It gets the production mail relay
	// and keeps the keep-alive scheduler active.
	Production
)

// Environments returns every known environment in bootstrap order.
// Staging is always provisioned before production.
func Environments() []Environment {
	return []Environment{Staging, Production}
}

// String returns the literal token used for git remotes, Rails environment
// names and config file paths ("staging" or "production").
func (e Environment) String() string {
	switch e {
	case Staging:
		return "staging"
	case Production:
		return "production"
	default:
		return fmt.Sprintf("environment(%d)", int(e))
	}
}

// IsValid reports whether e is one of the declared environments.
func (e Environment) IsValid() bool {
	switch e {
	case Staging, Production:
		return true
	default:
		return false
	}
}

// ConfigFile returns the environment-specific Rails configuration path,
// relative to the project root.
func (e Environment) ConfigFile() string {
	return "config/environments/" + e.String() + ".rb"
}

// ParseEnvironment converts a token into an Environment.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "staging":
		return Staging, nil
	case "production":
		return Production, nil
	default:
		return 0, fmt.Errorf("invalid environment: %q (valid: staging, production)", s)
	}
}

// MarshalText lets environments appear as their token in JSON output.
func (e Environment) MarshalText() ([]byte, error) {
	if !e.IsValid() {
		return nil, fmt.Errorf("cannot marshal %s", e)
	}
	return []byte(e.String()), nil
}
