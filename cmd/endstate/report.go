package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/artexis10/endstate/internal/orchestrator"
)

var (
	reportRunID  string
	reportLatest bool
	reportLast   int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Load one or more previously persisted run records",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCommand(cmd, func(ctx context.Context, o *orchestrator.Orchestrator) orchestrator.Envelope {
			return o.Report(ctx, orchestrator.ReportOptions{
				RunID:  reportRunID,
				Latest: reportLatest,
				Last:   reportLast,
			})
		})
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportRunID, "run-id", "", "load a specific run record by id")
	reportCmd.Flags().BoolVar(&reportLatest, "latest", false, "load the most recent run record")
	reportCmd.Flags().IntVar(&reportLast, "last", 0, "load the N most recent run records")
}
