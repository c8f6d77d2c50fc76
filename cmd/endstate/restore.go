package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/artexis10/endstate/internal/orchestrator"
)

var (
	restoreManifest    string
	restorePayloadRoot string
	restoreDryRun      bool
	restoreEnable      bool
)

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Apply the manifest's restore items independent of an app install",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !restoreEnable {
			return errEnableRestoreRequired
		}
		return runCommand(cmd, func(ctx context.Context, o *orchestrator.Orchestrator) orchestrator.Envelope {
			return o.Restore(ctx, orchestrator.RestoreOptions{
				ManifestPath: restoreManifest,
				PayloadRoot:  restorePayloadRoot,
				DryRun:       restoreDryRun,
			})
		})
	},
}

func init() {
	restoreCmd.Flags().StringVar(&restoreManifest, "manifest", "", "path to the manifest to restore from")
	restoreCmd.Flags().StringVar(&restorePayloadRoot, "payload-root", "", "directory config-module-sourced restore items resolve relative to")
	restoreCmd.Flags().BoolVar(&restoreDryRun, "dry-run", false, "compute restore actions without performing them")
	restoreCmd.Flags().BoolVar(&restoreEnable, "enable-restore", false, "required: confirms intent to write files onto the host")
	_ = restoreCmd.MarkFlagRequired("manifest")
}
