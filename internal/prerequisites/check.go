// Package prerequisites checks that the external CLIs railskit drives
// are installed before anything is written or provisioned.
package prerequisites

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/shinji-kodama/railskit/internal/model"
)

// versionTimeout bounds each best-effort version lookup.
const versionTimeout = 10 * time.Second

// Tool represents a client tool that may be required.
type Tool struct {
	// Name is the binary name (or path) to look for.
	Name string

	// Required indicates if this tool is mandatory.
	Required bool

	// Description explains what the tool is used for.
	Description string

	// InstallURL provides a URL for installation instructions.
	InstallURL string
}

// DefaultTools returns the tools a bootstrap run needs. The binary names
// come from configuration so that non-standard installs can be checked.
func DefaultTools(gitBin, herokuBin string) []Tool {
	return []Tool{
		{
			Name:        gitBin,
			Required:    true,
			Description: "Required for committing the generated files and pushing to Heroku",
			InstallURL:  "https://git-scm.com/downloads",
		},
		{
			Name:        herokuBin,
			Required:    true,
			Description: "Required for creating and configuring Heroku applications",
			InstallURL:  "https://devcenter.heroku.com/articles/heroku-cli",
		},
	}
}

// CheckResult contains the result of checking a single tool.
type CheckResult struct {
	Tool    Tool   `json:"tool"`
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
}

// CheckResults contains the results of checking multiple tools.
type CheckResults struct {
	Results []CheckResult `json:"results"`
	Missing []Tool        `json:"missing,omitempty"`
}

// HasErrors returns true if any required tools are missing.
func (r *CheckResults) HasErrors() bool {
	for _, tool := range r.Missing {
		if tool.Required {
			return true
		}
	}
	return false
}

// Error returns a CLIError with ExitToolMissing if any required tools
// are missing.
func (r *CheckResults) Error() error {
	var missing []string
	for _, tool := range r.Missing {
		if tool.Required {
			missing = append(missing, fmt.Sprintf("%s (%s)", tool.Name, tool.InstallURL))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return model.NewCLIError(model.ExitToolMissing,
		fmt.Sprintf("missing required tools: %s", strings.Join(missing, ", ")))
}

// Check verifies that the specified tools are available.
func Check(tools []Tool) *CheckResults {
	results := &CheckResults{}

	for _, tool := range tools {
		result := CheckResult{Tool: tool}

		path, err := exec.LookPath(tool.Name)
		if err == nil {
			result.Found = true
			result.Path = path
		} else {
			results.Missing = append(results.Missing, tool)
		}

		results.Results = append(results.Results, result)
	}

	return results
}

// LoadVersions fills in the version of every found tool. It is best
// effort: tools that do not answer --version keep an empty version.
func (r *CheckResults) LoadVersions(ctx context.Context) {
	for i := range r.Results {
		if r.Results[i].Found {
			r.Results[i].Version = toolVersion(ctx, r.Results[i].Path)
		}
	}
}

// toolVersion returns the first line printed by "<tool> --version".
func toolVersion(ctx context.Context, path string) string {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	// #nosec G204 - path comes from exec.LookPath on a configured tool name
	output, err := exec.CommandContext(ctx, path, "--version").Output()
	if err != nil {
		return ""
	}
	first, _, _ := strings.Cut(string(output), "\n")
	return strings.TrimSpace(first)
}
