package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/firefly-engineering/cargo-sync/internal/app"
	"github.com/firefly-engineering/cargo-sync/internal/errors"
	"github.com/firefly-engineering/cargo-sync/internal/logging"
	"github.com/firefly-engineering/cargo-sync/internal/syncer"
	"github.com/firefly-engineering/cargo-sync/internal/tui"
)

var (
	syncAllowDirty  bool
	syncOffline     bool
	syncSortMembers bool
	syncPackages    []string
	syncPick        bool
	syncOutput      string
)

var workspaceSyncCmd = &cobra.Command{
	Use:   "workspace-sync",
	Short: "Synchronize every member lockfile with the workspace lockfile",
	Long: `Synchronizes dependencies across members of a workspace where you are
maintaining per-member lockfiles.

The working tree must be clean (git or jj) unless --allow-dirty is given,
so the changes made to member lockfiles can be reviewed afterwards.

Members are processed in the order cargo reports them and the first failure
stops the run. Members synchronized before the failure keep their new
lockfile. The workspace Cargo.toml is always restored.`,
	Args: cobra.NoArgs,
	RunE: runWorkspaceSync,
}

func init() {
	workspaceSyncCmd.Flags().BoolVar(&syncAllowDirty, "allow-dirty", false, "Allow operation even with a dirty working directory")
	workspaceSyncCmd.Flags().BoolVar(&syncOffline, "offline", false, "Pass the --offline flag to cargo")
	workspaceSyncCmd.Flags().BoolVar(&syncSortMembers, "sort-members", false, "Synchronize members in name order")
	workspaceSyncCmd.Flags().StringSliceVarP(&syncPackages, "package", "p", nil, "Only synchronize the named members (repeatable)")
	workspaceSyncCmd.Flags().BoolVar(&syncPick, "pick", false, "Choose the members to synchronize interactively")
	workspaceSyncCmd.Flags().StringVarP(&syncOutput, "output", "o", outputText, "Report format: text, json or yaml")
	rootCmd.AddCommand(workspaceSyncCmd)
}

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

func validateOutput(format string) error {
	switch format {
	case outputText, outputJSON, outputYAML:
		return nil
	default:
		return errors.ValidationError(fmt.Sprintf("invalid --output %q: must be text, json or yaml", format))
	}
}

func runWorkspaceSync(cmd *cobra.Command, args []string) error {
	if err := validateOutput(syncOutput); err != nil {
		return err
	}
	if syncPick && syncOutput != outputText {
		return errors.ValidationError("--pick needs an interactive terminal and cannot be combined with --output " + syncOutput)
	}

	dir, err := startDir()
	if err != nil {
		return err
	}

	a := app.Default
	if syncOffline {
		a.Config.Offline = true
	}

	var opts []syncer.Option
	if syncPick {
		opts = append(opts, syncer.WithPicker(tui.PickMembers))
	}
	runner, err := a.Runner(opts...)
	if err != nil {
		return errors.ConfigError("invalid cargo arguments", err)
	}

	// Keep stdout for the machine-readable report.
	if syncOutput != outputText {
		logging.SetUserOutput(cmd.ErrOrStderr(), cmd.ErrOrStderr())
	}

	report, runErr := runner.Run(cmd.Context(), syncer.RunOptions{
		StartDir:    dir,
		AllowDirty:  syncAllowDirty,
		SortMembers: syncSortMembers || a.Config.SortMembers,
		Packages:    syncPackages,
	})

	if report != nil {
		if err := writeReport(cmd.OutOrStdout(), syncOutput, report); err != nil {
			logWarning("failed to write report: %v", err)
		}
	}
	if runErr != nil {
		return runErr
	}

	logSuccess("Synchronized %d workspace members", report.Count(syncer.OutcomeSynchronized))
	return nil
}

func writeReport(w io.Writer, format string, report *syncer.RunReport) error {
	switch format {
	case outputJSON:
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		return enc.Close()
	default:
		tui.RenderReport(w, report)
		return nil
	}
}
