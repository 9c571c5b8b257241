// Package syncer propagates the root Cargo.lock of a workspace into the
// lockfile of every member.
//
// A run checks the working tree, resolves the workspace, conceals the root
// manifest, then for each member copies the root lockfile over the member's
// own and lets cargo prune it in standalone mode. The manifest is restored
// whatever happened in the member loop.
package syncer
