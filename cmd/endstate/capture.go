package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/artexis10/endstate/internal/orchestrator"
)

var (
	captureProfile       string
	captureOutManifest   string
	captureWithConfig    bool
	captureConfigModules string
	capturePayloadOut    string
	captureBundleOut     string
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Observe the current system and produce a manifest",
	RunE: func(cmd *cobra.Command, _ []string) error {
		outPath := captureOutManifest
		if outPath == "" && captureProfile != "" {
			outPath = captureProfile + ".jsonc"
		}
		var modules []string
		if captureConfigModules != "" {
			modules = strings.Split(captureConfigModules, ",")
		}
		return runCommand(cmd, func(ctx context.Context, o *orchestrator.Orchestrator) orchestrator.Envelope {
			return o.Capture(ctx, orchestrator.CaptureOptions{
				OutManifestPath: outPath,
				Name:            captureProfile,
				WithConfig:      captureWithConfig,
				ConfigModules:   modules,
				PayloadOut:      capturePayloadOut,
				BundleOut:       captureBundleOut,
			})
		})
	},
}

func init() {
	captureCmd.Flags().StringVar(&captureProfile, "profile", "", "name for the captured profile")
	captureCmd.Flags().StringVar(&captureOutManifest, "out-manifest", "", "path to write the captured manifest (default: <profile>.jsonc)")
	captureCmd.Flags().BoolVar(&captureWithConfig, "with-config", false, "also match and capture config module files")
	captureCmd.Flags().StringVar(&captureConfigModules, "config-modules", "", "comma-separated config module ids to capture instead of auto-matching")
	captureCmd.Flags().StringVar(&capturePayloadOut, "payload-out", "", "directory to stage captured config files into")
	captureCmd.Flags().StringVar(&captureBundleOut, "bundle-out", "", "path to also package the capture into a zip bundle")
}
