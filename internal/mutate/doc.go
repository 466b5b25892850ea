// Package mutate applies textual edits to generated project files.
//
// The operations mirror what a project generator needs after the initial
// scaffold: appending configuration blocks, injecting text after an anchor,
// substituting strings and copying files. All paths are resolved against
// the Mutator's root directory, so callers pass project-relative paths such
// as "config/environments/staging.rb".
//
// Design decisions:
//   - AppendBlock is deliberately not idempotent. Running it twice appends
//     the block twice; callers guard against re-invocation.
//   - InjectAfterMarker never no-ops silently. A missing marker returns
//     ErrMarkerNotFound so configuration drift is visible to the caller.
//   - Files are rewritten in place with their existing permissions.
package mutate
