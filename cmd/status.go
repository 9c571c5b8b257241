package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/firefly-engineering/cargo-sync/internal/app"
	"github.com/firefly-engineering/cargo-sync/internal/errors"
	"github.com/firefly-engineering/cargo-sync/internal/health"
	"github.com/firefly-engineering/cargo-sync/internal/tui"
)

var statusOutput string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether the workspace is ready to be synchronized",
	Long: `Reports what workspace-sync would find without changing anything:
a manifest left hidden by an interrupted run, the workspace members, the root
Cargo.lock, the state of the working tree, and the last journaled run.

Exits non-zero when a run would not proceed.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVarP(&statusOutput, "output", "o", outputText, "Output format: text, json or yaml")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	if err := validateOutput(statusOutput); err != nil {
		return err
	}

	dir, err := startDir()
	if err != nil {
		return err
	}

	a := app.Default
	cargoCmd, err := a.Cargo()
	if err != nil {
		return errors.ConfigError("invalid cargo arguments", err)
	}

	result := health.NewChecker(a.FS, a.Exec, cargoCmd, a.Journal()).Check(cmd.Context(), dir)

	w := cmd.OutOrStdout()
	switch statusOutput {
	case outputJSON:
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal status: %w", err)
		}
		fmt.Fprintln(w, string(data))
	case outputYAML:
		if err := yaml.NewEncoder(w).Encode(result); err != nil {
			return fmt.Errorf("failed to marshal status: %w", err)
		}
	default:
		tui.RenderStatus(w, result)
	}

	if status := result.Summary(); status != health.StatusReady {
		return errors.Precondition(fmt.Sprintf("workspace is %s", status))
	}
	return nil
}
