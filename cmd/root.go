package cmd

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/firefly-engineering/cargo-sync/internal/config"
	"github.com/firefly-engineering/cargo-sync/internal/logging"
)

var (
	verbose     bool
	jsonOutput  bool
	configPath  string
	manifestDir string
)

var rootCmd = &cobra.Command{
	Use:   "cargo-sync",
	Short: "Synchronize member lockfiles with the workspace Cargo.lock",
	Long: `cargo-sync propagates the versions resolved in a workspace's root Cargo.lock
into the Cargo.lock of every workspace member.

For each member it copies the root lockfile over the member's own and runs
cargo metadata in the member directory with the workspace manifest hidden,
so cargo prunes the lockfile down to that member's dependency graph.

It can be run as a cargo subcommand: cargo sync workspace-sync.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Setup(verbose, jsonOutput, cmd.ErrOrStderr())
		logging.SetUserOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
		return loadConfig()
	},
}

// Execute runs the CLI with args, which exclude the program name.
func Execute(ctx context.Context, args []string) error {
	rootCmd.SetArgs(normalizeArgs(args))
	return rootCmd.ExecuteContext(ctx)
}

// normalizeArgs drops the subcommand name cargo passes when run as
// `cargo sync`, and defaults to workspace-sync when no command is named.
func normalizeArgs(args []string) []string {
	if os.Getenv(config.CargoEnvVar) != "" && len(args) > 0 && args[0] == "sync" {
		args = args[1:]
	}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "-h" || arg == "--help" || isCommandName(arg) {
			return args
		}
		if takesValue(arg) {
			i++
		}
	}
	return append([]string{workspaceSyncCmd.Name()}, args...)
}

// takesValue reports whether arg is a flag whose value is the next argument.
// Only flags that may precede the command name are considered.
func takesValue(arg string) bool {
	if !strings.HasPrefix(arg, "-") || arg == "-" || strings.Contains(arg, "=") {
		return false
	}

	var f *pflag.Flag
	for _, fs := range []*pflag.FlagSet{rootCmd.PersistentFlags(), workspaceSyncCmd.Flags()} {
		if name, ok := strings.CutPrefix(arg, "--"); ok {
			f = fs.Lookup(name)
		} else if len(arg) == 2 {
			f = fs.ShorthandLookup(arg[1:])
		}
		if f != nil {
			break
		}
	}
	return f != nil && f.NoOptDefVal == ""
}

func isCommandName(arg string) bool {
	if arg == "help" {
		return true
	}
	for _, c := range rootCmd.Commands() {
		if c.Name() == arg || c.HasAlias(arg) {
			return true
		}
	}
	return false
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&manifestDir, "manifest-dir", "", "Directory to resolve the workspace from (default: current directory)")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// Helper aliases for user-facing output (delegates to logging package)
var (
	logInfo    = logging.UserInfo
	logSuccess = logging.UserSuccess
	logWarning = logging.UserWarning
)
