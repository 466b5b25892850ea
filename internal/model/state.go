package model

// BootstrapState is a step of the environment bootstrap sequence.
// The transitions are:
//
//	NotStarted → NameValidated → Created → Configured → AddonsProvisioned
//	  → [MailConfigured] → [DNSConfigured] → WakeupSet → AssetHostCommitted
//	  → Pushed | Skipped
type BootstrapState string

const (
	StateNotStarted         BootstrapState = "not-started"
	StateNameValidated      BootstrapState = "name-validated"
	StateCreated            BootstrapState = "created"
	StateConfigured         BootstrapState = "configured"
	StateAddonsProvisioned  BootstrapState = "addons-provisioned"
	StateMailConfigured     BootstrapState = "mail-configured"
	StateDNSConfigured      BootstrapState = "dns-configured"
	StateWakeupSet          BootstrapState = "wakeup-set"
	StateAssetHostCommitted BootstrapState = "asset-host-committed"
	StatePushed             BootstrapState = "pushed"
	StateSkipped            BootstrapState = "skipped"
)

// String returns the string representation of the state.
func (s BootstrapState) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition can follow s.
func (s BootstrapState) IsTerminal() bool {
	return s == StatePushed || s == StateSkipped
}
