package scaffold

import (
	"github.com/joho/godotenv"

	"github.com/shinji-kodama/railskit/internal/model"
	"github.com/shinji-kodama/railskit/internal/mutate"
)

const (
	// ProcfilePath is read by Heroku to start the dynos.
	ProcfilePath = "Procfile"

	// DevProcfilePath is read by foreman during local development.
	DevProcfilePath = "Procfile-dev"

	// DotEnvPath holds the local process environment for foreman.
	DotEnvPath = ".env"
)

const webProcess = "web: bundle exec unicorn -p $PORT -c ./config/unicorn.rb\n"

// LocalEnv returns the process environment used for local development.
func LocalEnv() map[string]string {
	return map[string]string{
		"WEB_CONCURRENCY":    "2",
		"RACK_ENV":           "none",
		"RAILS_ENV":          "development",
		"APP_HOSTNAME":       "localhost",
		"HEROKU_WAKEUP":      "false",
		"PORT":               "5000",
		"MEMCACHIER_SERVERS": "localhost:11211",
	}
}

// WriteProcfiles writes the unicorn Procfile and the development
// Procfile that also runs guard.
func WriteProcfiles(m *mutate.Mutator) error {
	if err := m.WriteFile(ProcfilePath, webProcess); err != nil {
		return model.WrapCLIError(model.ExitFileMutationFailed, "failed to write Procfile", err)
	}
	dev := webProcess + "guard: bundle exec guard start -i\n"
	if err := m.WriteFile(DevProcfilePath, dev); err != nil {
		return model.WrapCLIError(model.ExitFileMutationFailed, "failed to write Procfile-dev", err)
	}
	return nil
}

// WriteDotEnv writes LocalEnv to .env.
func WriteDotEnv(m *mutate.Mutator) error {
	content, err := godotenv.Marshal(LocalEnv())
	if err != nil {
		return model.WrapCLIError(model.ExitFileMutationFailed, "failed to render .env", err)
	}
	if err := m.WriteFile(DotEnvPath, content+"\n"); err != nil {
		return model.WrapCLIError(model.ExitFileMutationFailed, "failed to write .env", err)
	}
	return nil
}
