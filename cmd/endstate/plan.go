package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/artexis10/endstate/internal/orchestrator"
)

var planManifest string

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Diff a manifest against observed system state into an action list",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCommand(cmd, func(ctx context.Context, o *orchestrator.Orchestrator) orchestrator.Envelope {
			return o.Plan(ctx, orchestrator.PlanOptions{ManifestPath: planManifest})
		})
	},
}

func init() {
	planCmd.Flags().StringVar(&planManifest, "manifest", "", "path to the manifest to plan against")
	_ = planCmd.MarkFlagRequired("manifest")
}
