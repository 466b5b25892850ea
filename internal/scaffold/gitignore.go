package scaffold

import (
	"strings"

	"github.com/shinji-kodama/railskit/internal/model"
	"github.com/shinji-kodama/railskit/internal/mutate"
)

// GitignorePath is the repository ignore file.
const GitignorePath = ".gitignore"

// BaseIgnoreBlock is appended before the first commit.
const BaseIgnoreBlock = `*.gem
*.rbc
.config
coverage
InstalledFiles
lib/bundler/man
pkg
rdoc
spec/reports
test/tmp
test/version_tmp

# YARD artifacts
.yardoc
_yardoc
doc/

# Sublime Text files
*.sublime-project
*.sublime-workspace

# Mac DS_Store
**/.DS_Store
.DS_Store

# PSD Files
*.psd

# OS generated files
.DS_Store
.DS_Store?
._*
.Spotlight-V100
.Trashes
ehthumbs.db
Thumbs.db
`

// LocalOnlyIgnoreBlock stops tracking the files whose first version is
// committed as a template but which every developer edits locally.
const LocalOnlyIgnoreBlock = `
# Procfile-dev
Procfile-dev

# Rails database.yml
config/database.yml
`

// AppendGitignore appends block to .gitignore, adding a trailing newline
// when the block lacks one.
func AppendGitignore(m *mutate.Mutator, block string) error {
	if !strings.HasSuffix(block, "\n") {
		block += "\n"
	}
	if err := m.AppendBlock(GitignorePath, block); err != nil {
		return model.WrapCLIError(model.ExitFileMutationFailed, "failed to update .gitignore", err)
	}
	return nil
}
