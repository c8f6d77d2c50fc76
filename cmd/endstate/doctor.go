package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/artexis10/endstate/internal/orchestrator"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the state root, driver, and config catalog are usable",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCommand(cmd, func(ctx context.Context, o *orchestrator.Orchestrator) orchestrator.Envelope {
			return o.Doctor(ctx, orchestrator.DoctorOptions{})
		})
	},
}
