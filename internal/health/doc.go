// Package health reports whether a workspace is ready to be synchronized.
//
// A check never modifies the workspace. It looks for a manifest left hidden
// by an interrupted run, resolves the workspace with cargo, and inspects the
// root lockfile and the working tree.
//
// # Health Status
//
// Workspace readiness is represented by Status:
//
//	StatusReady      - A run would proceed
//	StatusDirty      - The working tree has uncommitted changes
//	StatusConcealed  - A hidden manifest is waiting to be restored
//	StatusUnresolved - cargo cannot describe a workspace worth syncing
//
// # Usage
//
//	checker := health.NewChecker(fs, exec, cargoCmd, journalLogger)
//	result := checker.Check(ctx, dir)
//	status := result.Summary()
package health
