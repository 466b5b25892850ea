package scaffold

import (
	"github.com/shinji-kodama/railskit/internal/model"
	"github.com/shinji-kodama/railskit/internal/mutate"
)

// productionConfigPath is the file the staging environment is cloned from.
const productionConfigPath = "config/environments/production.rb"

// CreateStagingEnvironment clones the production Rails environment file
// into config/environments/staging.rb.
func CreateStagingEnvironment(m *mutate.Mutator) error {
	if err := m.CopyFile(productionConfigPath, model.Staging.ConfigFile()); err != nil {
		return model.WrapCLIError(model.ExitFileMutationFailed, "failed to create the staging environment", err)
	}
	return nil
}
