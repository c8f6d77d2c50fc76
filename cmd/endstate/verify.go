package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/artexis10/endstate/internal/orchestrator"
)

var verifyManifest string

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Run every verify item in a manifest independent of apply",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCommand(cmd, func(ctx context.Context, o *orchestrator.Orchestrator) orchestrator.Envelope {
			return o.Verify(ctx, orchestrator.VerifyOptions{ManifestPath: verifyManifest})
		})
	},
}

func init() {
	verifyCmd.Flags().StringVar(&verifyManifest, "manifest", "", "path to the manifest whose verify items should run")
	_ = verifyCmd.MarkFlagRequired("manifest")
}
