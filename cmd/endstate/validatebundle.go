package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/artexis10/endstate/internal/orchestrator"
)

var (
	validateBundleManifest string
	validateBundlePath     string
)

var validateBundleCmd = &cobra.Command{
	Use:   "validate-bundle",
	Short: "Check that a manifest parses and, optionally, a bundle extracts cleanly",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCommand(cmd, func(ctx context.Context, o *orchestrator.Orchestrator) orchestrator.Envelope {
			return o.ValidateBundle(ctx, orchestrator.ValidateBundleOptions{
				ManifestPath: validateBundleManifest,
				BundlePath:   validateBundlePath,
			})
		})
	},
}

func init() {
	validateBundleCmd.Flags().StringVar(&validateBundleManifest, "manifest", "", "path to the manifest to validate")
	validateBundleCmd.Flags().StringVar(&validateBundlePath, "bundle", "", "optional path to a bundle zip to validate alongside the manifest")
	_ = validateBundleCmd.MarkFlagRequired("manifest")
}
