// Package bootstrap provisions one remote Heroku environment for a Rails
// application.
//
// A run walks a fixed sequence of states (see model.BootstrapState):
// the application is created, configured, optionally given its free
// add-ons, mail relay and DNS add-on, marked for wake-up, pointed at its
// asset host and finally pushed and migrated. Every external effect goes
// through the RemotePlatform, VersionControl and FileMutator interfaces,
// so the sequence can be exercised with test doubles.
//
// The first failing step aborts the run with a *model.StepError. Remote
// resources created by earlier steps are left in place.
package bootstrap
