// Package config loads cargo-sync settings.
//
// # Configuration File
//
// Settings are read from a TOML file, by default
// $XDG_CONFIG_HOME/cargo-sync/config.toml. A missing default file means
// built-in defaults; a file named with --config must exist.
//
//	cargo = "/usr/local/bin/cargo"
//	cargo_args = "--locked --config 'net.git-fetch-with-cli=true'"
//	offline = false
//	sort_members = false
//	strategy = "rename"
//	standalone_flag = ""
//	journal = true
//	journal_dir = "/home/me/.cache/cargo-sync"
//
// # Strategies
//
// "rename" hides the workspace Cargo.toml while members are resolved.
// "flag" never renames anything and instead appends standalone_flag to the
// member-scope cargo call; it requires standalone_flag to be set.
//
// # Cargo Binary
//
// CargoBinary prefers the cargo key, then $CARGO (set by cargo when running
// `cargo sync`), then "cargo" from PATH.
//
// # Validation
//
// Load validates after parsing; unknown keys are logged and ignored.
package config
