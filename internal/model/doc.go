// Package model defines the domain types for the railskit CLI.
//
// The types in this package are transient: a ProvisioningOptions value is
// built once per environment while the operator answers prompts, handed to
// the bootstrapper, and discarded when the run ends. Nothing is persisted
// outside the generated project files and the remote platform itself.
package model
