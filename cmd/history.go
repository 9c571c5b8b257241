package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/firefly-engineering/cargo-sync/internal/app"
	"github.com/firefly-engineering/cargo-sync/internal/conceal"
	"github.com/firefly-engineering/cargo-sync/internal/errors"
	"github.com/firefly-engineering/cargo-sync/internal/journal"
	"github.com/firefly-engineering/cargo-sync/internal/tui"
)

var (
	historyLimit  int
	historyOutput string
	historyClear  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past synchronization runs of the workspace",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Number of runs to show (0 for all)")
	historyCmd.Flags().StringVarP(&historyOutput, "output", "o", outputText, "Output format: text, json or yaml")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete the recorded runs of the workspace")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if err := validateOutput(historyOutput); err != nil {
		return err
	}

	a := app.Default
	logger := a.Journal()
	if logger == nil {
		logInfo("The run journal is disabled (journal = false)")
		return nil
	}

	dir, err := startDir()
	if err != nil {
		return err
	}
	root, err := workspaceRoot(cmd.Context(), a, dir)
	if err != nil {
		return err
	}

	if historyClear {
		if err := logger.Remove(root); err != nil {
			return errors.Filesystem("failed to clear the run journal", err)
		}
		logSuccess("Cleared run history of %s", root)
		return nil
	}

	events, err := logger.Events(root)
	if err != nil {
		return errors.Filesystem("failed to read the run journal", err)
	}
	runs := journal.Runs(events, historyLimit)

	w := cmd.OutOrStdout()
	switch historyOutput {
	case outputJSON:
		data, err := json.MarshalIndent(runs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal history: %w", err)
		}
		fmt.Fprintln(w, string(data))
	case outputYAML:
		if err := yaml.NewEncoder(w).Encode(runs); err != nil {
			return fmt.Errorf("failed to marshal history: %w", err)
		}
	default:
		tui.RenderHistory(w, root, runs)
	}
	return nil
}

// workspaceRoot finds the workspace root for dir. A manifest left hidden by
// an interrupted run marks the root too, since cargo cannot see it then.
func workspaceRoot(ctx context.Context, a *app.App, dir string) (string, error) {
	if leftover := conceal.FindLeftover(a.FS, dir); leftover != "" {
		return filepath.Dir(leftover), nil
	}

	cmd, err := a.Cargo()
	if err != nil {
		return "", errors.ConfigError("invalid cargo arguments", err)
	}
	ws, err := cmd.Locate(ctx, dir)
	if err != nil {
		return "", err
	}
	return ws.RootPath, nil
}
