package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/procmesh/procmesh/internal/engine"
)

var (
	runData       string
	runJSONOutput bool
)

var runCmd = &cobra.Command{
	Use:   "run <taxonomy-id>",
	Short: "Execute a taxonomy node",
	Long: `Execute the unit registered under a taxonomy identifier.

A composite node runs its children sequentially with pipeline context
propagation and prints the per-child summary; a leaf prints its single
output. Initial context data can be supplied as a JSON object.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runData, "data", "", "Initial context data as a JSON object")
	runCmd.Flags().BoolVar(&runJSONOutput, "json", false, "Print the raw wire-shape result")
}

func runRun(cmd *cobra.Command, args []string) error {
	eng, _, err := buildEngine()
	if err != nil {
		return err
	}

	var data map[string]any
	if runData != "" {
		if err := json.Unmarshal([]byte(runData), &data); err != nil {
			return fmt.Errorf("parse --data: %w", err)
		}
	}

	outcome, err := eng.Execute(context.Background(), args[0], data, nil)
	if err != nil {
		return err
	}

	if runJSONOutput {
		raw, err := json.MarshalIndent(outcome, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		fmt.Println(string(raw))
		return nil
	}

	printOutcome(outcome)
	return nil
}

// printOutcome renders a human-readable run report.
func printOutcome(outcome *engine.Outcome) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	mark := func(ok bool) string {
		if ok {
			return green("✓")
		}
		return red("✗")
	}

	if outcome.Leaf != nil {
		out := outcome.Leaf
		fmt.Printf("%s leaf executed in %.1fms\n", mark(out.Success), out.ExecutionTimeMs)
		if !out.Success {
			fmt.Printf("  error: %s\n", red(out.ErrorMessage))
		}
		if len(out.Data) > 0 {
			raw, _ := json.MarshalIndent(out.Data, "  ", "  ")
			fmt.Printf("  data: %s\n", raw)
		}
		return
	}

	result := outcome.Composite
	fmt.Printf("%s node %s (level %d), run %s\n", mark(result.Success), result.APQCID, result.Level, outcome.RunID)
	for i, child := range result.ChildResults {
		fmt.Printf("  %s [%d/%d] %s", mark(child.Success), i+1, result.Summary.TotalChildren, child.AgentID)
		if child.Error != "" {
			fmt.Printf(": %s", red(child.Error))
		}
		fmt.Println()
	}
	fmt.Printf("  %d/%d succeeded in %.1fms\n",
		result.Summary.Successful, result.Summary.TotalChildren, result.Summary.ExecutionTimeMs)
	if len(result.FinalData) > 0 {
		raw, _ := json.MarshalIndent(result.FinalData, "  ", "  ")
		fmt.Printf("  final data: %s\n", raw)
	}
}
