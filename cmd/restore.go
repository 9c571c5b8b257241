package cmd

import (
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/cargo-sync/internal/app"
	"github.com/firefly-engineering/cargo-sync/internal/conceal"
)

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore a workspace Cargo.toml left hidden by an interrupted run",
	Long: `Looks for ` + conceal.HiddenName + ` in the current directory and its parents
and renames it back to Cargo.toml.

Refuses to do anything when both files exist, since only a human can tell
which one is the real workspace manifest.`,
	Args: cobra.NoArgs,
	RunE: runRestore,
}

func init() {
	rootCmd.AddCommand(restoreCmd)
}

func runRestore(cmd *cobra.Command, args []string) error {
	dir, err := startDir()
	if err != nil {
		return err
	}

	restored, err := conceal.Restore(app.Default.FS, dir)
	if err != nil {
		return err
	}
	if restored == "" {
		logInfo("Nothing to restore: no %s found from %s upwards", conceal.HiddenName, dir)
		return nil
	}

	logSuccess("Restored %s", restored)
	return nil
}
