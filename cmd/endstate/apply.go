package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/artexis10/endstate/internal/orchestrator"
)

var (
	applyManifest      string
	applyPlanPath      string
	applyPayloadRoot   string
	applyDryRun        bool
	applyEnableRestore bool
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Plan and execute actions against the live system",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCommand(cmd, func(ctx context.Context, o *orchestrator.Orchestrator) orchestrator.Envelope {
			return o.Apply(ctx, orchestrator.ApplyOptions{
				ManifestPath:  applyManifest,
				PayloadRoot:   applyPayloadRoot,
				DryRun:        applyDryRun,
				EnableRestore: applyEnableRestore,
			})
		})
	},
}

var applyFromPlanCmd = &cobra.Command{
	Use:   "apply-from-plan",
	Short: "Execute a previously saved plan without re-querying the driver",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCommand(cmd, func(ctx context.Context, o *orchestrator.Orchestrator) orchestrator.Envelope {
			return o.ApplyFromPlan(ctx, orchestrator.ApplyOptions{
				PlanPath:      applyPlanPath,
				PayloadRoot:   applyPayloadRoot,
				DryRun:        applyDryRun,
				EnableRestore: applyEnableRestore,
			})
		})
	},
}

func init() {
	applyCmd.Flags().StringVar(&applyManifest, "manifest", "", "path to the manifest to apply")
	applyCmd.Flags().StringVar(&applyPayloadRoot, "payload-root", "", "directory config-module-sourced restore items resolve relative to")
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "compute actions without performing them")
	applyCmd.Flags().BoolVar(&applyEnableRestore, "enable-restore", false, "also execute the manifest's restore items")
	_ = applyCmd.MarkFlagRequired("manifest")

	applyFromPlanCmd.Flags().StringVar(&applyPlanPath, "plan", "", "path to a plan previously written by 'plan'")
	applyFromPlanCmd.Flags().StringVar(&applyPayloadRoot, "payload-root", "", "directory config-module-sourced restore items resolve relative to")
	applyFromPlanCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "compute actions without performing them")
	applyFromPlanCmd.Flags().BoolVar(&applyEnableRestore, "enable-restore", false, "also execute the plan's restore items")
	_ = applyFromPlanCmd.MarkFlagRequired("plan")
}
