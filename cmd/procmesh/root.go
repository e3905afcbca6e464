package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "procmesh",
	Short: "Hierarchical business-process agent orchestrator",
	Long: `Procmesh executes a five-level business-process taxonomy
(Category -> Process Group -> Process -> Activity -> Task) as a tree of
agents. Composite nodes run their children sequentially, threading a
shared context between them; a child's failure never blocks its siblings,
and every run ends with a per-child summary.

Leaves and composites share one capability contract, so executing a
Level-1 node transparently recurses down to the Level-5 leaves.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(capabilitiesCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}
