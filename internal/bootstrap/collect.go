package bootstrap

import (
	"context"
	"fmt"

	"github.com/shinji-kodama/railskit/internal/model"
	"github.com/shinji-kodama/railskit/internal/naming"
	"github.com/shinji-kodama/railskit/internal/prompt"
)

// CollectOptions asks the operator for the provisioning options of env.
//
// The candidate repository name is composed from team and software and
// offered as the default. The operator is asked again, with a warning per
// broken naming rule, until the name is valid. When software is empty it
// is asked for first.
func (b *Bootstrapper) CollectOptions(ctx context.Context, p prompt.Prompter, env model.Environment, team, software string) (model.ProvisioningOptions, error) {
	if !env.IsValid() {
		return model.ProvisioningOptions{}, model.NewCLIError(model.ExitInvalidInput, fmt.Sprintf("invalid environment %s", env))
	}

	if software == "" {
		var err error
		if software, err = p.AskText(ctx, "Software name", ""); err != nil {
			return model.ProvisioningOptions{}, err
		}
	}

	name := naming.ComposeRepositoryName(team, software, env)
	for {
		if err := ctx.Err(); err != nil {
			return model.ProvisioningOptions{}, err
		}

		answer, err := p.AskText(ctx, fmt.Sprintf("Name for %s", env), name)
		if err != nil {
			return model.ProvisioningOptions{}, err
		}
		name = answer

		problems := model.ValidateRepositoryName(name)
		if len(problems) == 0 {
			break
		}
		for _, problem := range problems {
			b.console.Warn("%s", problem)
		}
	}

	var toggles [4]bool
	questions := [4]string{
		fmt.Sprintf("Bootstrap free Heroku addons for %s", env),
		fmt.Sprintf("Bootstrap free Heroku email addon for %s", env),
		fmt.Sprintf("Bootstrap free Heroku dns addon for %s", env),
		fmt.Sprintf("Push %s to Heroku", env),
	}
	for i, question := range questions {
		answer, err := p.AskYesNo(ctx, question)
		if err != nil {
			return model.ProvisioningOptions{}, err
		}
		toggles[i] = answer
	}

	return model.NewProvisioningOptions(env, name, toggles[0], toggles[1], toggles[2], toggles[3])
}
