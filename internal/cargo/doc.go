// Package cargo runs `cargo metadata` and turns its output into a workspace
// descriptor.
//
// # Resolution Scopes
//
// The same command is run in two scopes:
//
//	ScopeWorkspace  cargo metadata --format-version 1 --no-deps [extra...]
//	ScopeStandalone cargo metadata --format-version 1 [extra...] [standalone flag]
//
// The workspace-scope call is parsed into a Workspace. The standalone call is
// run inside a member directory only for its side effect: cargo resolves the
// member on its own and rewrites that member's Cargo.lock. Cargo only treats
// a member as standalone when it cannot see the workspace manifest, which is
// what the conceal package arranges.
//
// # Workspace Descriptor
//
//	ws, err := cargo.NewCommand(exec, "cargo", []string{"--offline"}).Resolve(ctx, dir)
//	// ws.RootPath, ws.ManifestPath, ws.LockfilePath
//	// ws.Members[i].Name, ws.Members[i].Directory
//
// Members keep the order cargo reports them in. Every member directory is
// checked to lie inside the workspace root.
package cargo
