package bootstrap

import (
	"fmt"

	"github.com/shinji-kodama/railskit/internal/model"
)

// freeAddons are provisioned in this order when free add-ons are enabled.
var freeAddons = []string{
	"newrelic:standard",
	"heroku-postgresql:dev",
	"pgbackups:auto-month",
	"memcachier:dev",
	"papertrail:choklad",
	"sentry:developer",
	"scheduler:standard",
}

const (
	mailtrapAddon = "mailtrap:free"
	sendgridAddon = "sendgrid:starter"
	dnsAddon      = "zerigo_dns:basic"

	migrateCommand = "rake db:migrate"
)

// assetHostMarker opens the configuration block of every Rails
// environment file. The asset host lines go right below that line.
const assetHostMarker = "configure do"

const mailtrapSettings = `ActionMailer::Base.delivery_method = :smtp
ActionMailer::Base.smtp_settings = {
  address:        ENV['MAILTRAP_HOST'],
  port:           ENV['MAILTRAP_PORT'],
  authentication: :plain,
  user_name:      ENV['MAILTRAP_USER_NAME'],
  password:       ENV['MAILTRAP_PASSWORD']
}
`

const sendgridSettings = `ActionMailer::Base.delivery_method = :smtp
ActionMailer::Base.smtp_settings = {
  address:              'smtp.sendgrid.net',
  port:                 '587',
  authentication:       :plain,
  user_name:            ENV['SENDGRID_USERNAME'],
  password:             ENV['SENDGRID_PASSWORD'],
  domain:               ENV['APP_HOSTNAME'],
  enable_starttls_auto: true
}
`

// assetHostSettings returns the commented asset host line for domain.
func assetHostSettings(domain string) string {
	return fmt.Sprintf("\n  # config.asset_host = \"http://%s\"\n", domain)
}

// wakeupFlag keeps the keep-alive pinger active in production only.
func wakeupFlag(env model.Environment) string {
	switch env {
	case model.Production:
		return "true"
	case model.Staging:
		return "false"
	}
	return "false"
}

func assetHostCommitMessage(env model.Environment) string {
	return fmt.Sprintf("Heroku as asset host on %s environment.", env)
}
