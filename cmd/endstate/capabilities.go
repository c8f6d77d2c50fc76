package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/artexis10/endstate/internal/orchestrator"
)

var capabilitiesCmd = &cobra.Command{
	Use:   "capabilities",
	Short: "Report the command surface, registered drivers, and known item types",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCommand(cmd, func(ctx context.Context, o *orchestrator.Orchestrator) orchestrator.Envelope {
			return o.Capabilities(ctx, orchestrator.CapabilitiesOptions{})
		})
	},
}
