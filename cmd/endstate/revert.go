package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/artexis10/endstate/internal/orchestrator"
)

var (
	revertRunID  string
	revertDryRun bool
)

var revertCmd = &cobra.Command{
	Use:   "revert",
	Short: "Undo a prior restore run by replaying its journal in reverse",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCommand(cmd, func(ctx context.Context, o *orchestrator.Orchestrator) orchestrator.Envelope {
			return o.Revert(ctx, orchestrator.RevertOptions{
				RevertedRunID: revertRunID,
				DryRun:        revertDryRun,
			})
		})
	},
}

func init() {
	revertCmd.Flags().StringVar(&revertRunID, "run-id", "", "run id whose restore journal should be reverted (default: most recent)")
	revertCmd.Flags().BoolVar(&revertDryRun, "dry-run", false, "classify each journal entry's revert outcome without touching the target or writing a safety backup")
}
