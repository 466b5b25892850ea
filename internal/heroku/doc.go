// Package heroku drives the Heroku platform CLI.
//
// railskit never talks to the platform API directly. Every control-plane
// call shells out to the `heroku` binary so that the operator's existing
// login, plugins and git remotes are reused. Commands are passed as
// argument lists, never through a shell.
//
// Each call runs under its own timeout. Calls that are safe to repeat
// (config:set, domains) are retried with exponential backoff via
// github.com/cenkalti/backoff/v4; calls that create something (create,
// addons:create, run) are attempted exactly once.
package heroku
