// Package vcs provides the version control operations railskit performs on
// the generated project.
//
// All Git operations are performed via os/exec calls to the git binary,
// rather than using a Git library like go-git. This approach:
//   - Uses the exact same Git behavior the operator sees in their terminal,
//     including credential helpers configured for pushing to the platform
//   - Reuses the remotes the platform CLI registers in .git/config
//
// The Git struct provides init, stage, commit and push, plus the remote
// lookups the bootstrapper uses to detect an already provisioned target.
package vcs
