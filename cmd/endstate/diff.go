package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/artexis10/endstate/internal/orchestrator"
)

var (
	diffFileA string
	diffFileB string
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Produce a unified diff between two files",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCommand(cmd, func(ctx context.Context, o *orchestrator.Orchestrator) orchestrator.Envelope {
			return o.Diff(ctx, orchestrator.DiffOptions{FileA: diffFileA, FileB: diffFileB})
		})
	},
}

func init() {
	diffCmd.Flags().StringVar(&diffFileA, "file-a", "", "left-hand file")
	diffCmd.Flags().StringVar(&diffFileB, "file-b", "", "right-hand file")
	_ = diffCmd.MarkFlagRequired("file-a")
	_ = diffCmd.MarkFlagRequired("file-b")
}
