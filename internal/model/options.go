package model

import (
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"
)

// MaxRepositoryNameLength is the longest application name the remote
// platform accepts.
const MaxRepositoryNameLength = 30

var (
	// ErrNameCharset is reported when a repository name does not start with
	// a lowercase letter or contains anything besides lowercase letters,
	// digits and dashes.
	ErrNameCharset = errors.New("name must start with a letter and can only contain lowercase letters, numbers, and dashes")

	// ErrNameTooLong is reported when a repository name exceeds
	// MaxRepositoryNameLength characters.
	ErrNameTooLong = fmt.Errorf("name is too long (maximum is %d characters)", MaxRepositoryNameLength)
)

// repositoryCharsetRegex checks the character rule only. The length rule
// is checked separately so that each violation gets its own diagnostic.
var repositoryCharsetRegex = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// ValidateRepositoryName returns one error per violated naming rule.
// An empty result means the name matches ^[a-z][a-z0-9-]{0,29}$.
func ValidateRepositoryName(name string) []error {
	var problems []error
	if !repositoryCharsetRegex.MatchString(name) {
		problems = append(problems, ErrNameCharset)
	}
	if utf8.RuneCountInString(name) > MaxRepositoryNameLength {
		problems = append(problems, ErrNameTooLong)
	}
	return problems
}

// ProvisioningOptions is the answer record collected for one environment.
// It is built once by NewProvisioningOptions and only read afterwards;
// all methods use value receivers.
type ProvisioningOptions struct {
	// Environment is the remote target these options apply to.
	Environment Environment `json:"environment"`

	// RepositoryName is the validated remote application name.
	RepositoryName string `json:"repositoryName"`

	// EnableFreeAddons provisions the fixed list of free add-ons.
	EnableFreeAddons bool `json:"enableFreeAddons"`

	// EnableEmail provisions a mail relay. Only honoured together with
	// EnableFreeAddons.
	EnableEmail bool `json:"enableEmail"`

	// EnableDNS provisions the DNS add-on. Only honoured together with
	// EnableFreeAddons.
	EnableDNS bool `json:"enableDns"`

	// ShouldPush pushes the repository and runs migrations after bootstrap.
	ShouldPush bool `json:"shouldPush"`
}

// NewProvisioningOptions builds an options record, rejecting unknown
// environments and repository names that break the naming rules.
func NewProvisioningOptions(env Environment, name string, addons, email, dns, push bool) (ProvisioningOptions, error) {
	if !env.IsValid() {
		return ProvisioningOptions{}, fmt.Errorf("invalid environment %s", env)
	}
	if problems := ValidateRepositoryName(name); len(problems) > 0 {
		return ProvisioningOptions{}, fmt.Errorf("invalid repository name %q: %w", name, errors.Join(problems...))
	}
	return ProvisioningOptions{
		Environment:      env,
		RepositoryName:   name,
		EnableFreeAddons: addons,
		EnableEmail:      email,
		EnableDNS:        dns,
		ShouldPush:       push,
	}, nil
}

// WantsEmail reports whether a mail relay will actually be provisioned.
func (o ProvisioningOptions) WantsEmail() bool {
	return o.EnableFreeAddons && o.EnableEmail
}

// WantsDNS reports whether the DNS add-on will actually be provisioned.
func (o ProvisioningOptions) WantsDNS() bool {
	return o.EnableFreeAddons && o.EnableDNS
}
