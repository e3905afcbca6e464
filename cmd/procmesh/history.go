package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/procmesh/procmesh/internal/config"
	"github.com/procmesh/procmesh/internal/state"
)

var (
	historyNode  string
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show recorded orchestration runs",
	Long: `Without arguments, list the most recent composite runs.
With a run ID, print that run's full wire-shape result.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyNode, "node", "", "Only show runs of this taxonomy node")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to list")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	path := cfg.History.Path
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}
		path = state.DefaultDBPath(cwd)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Println("No run history yet. Execute a node with 'procmesh run <id>'.")
		return nil
	}

	db, err := state.Open(path)
	if err != nil {
		return fmt.Errorf("open history database: %w", err)
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrate history database: %w", err)
	}

	if len(args) == 1 {
		result, err := db.GetRun(args[0])
		if err != nil {
			return err
		}
		raw, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal run: %w", err)
		}
		fmt.Println(string(raw))
		return nil
	}

	records, err := db.ListRuns(historyNode, historyLimit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No matching runs recorded.")
		return nil
	}

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Printf("%-36s %-10s %-8s %-10s %-10s %s\n", "RUN", "NODE", "OK", "CHILDREN", "TIME(MS)", "COMPLETED")
	for _, rec := range records {
		mark := green("yes")
		if !rec.Success {
			mark = red("no")
		}
		fmt.Printf("%-36s %-10s %-8s %d/%-8d %-10.1f %s\n",
			rec.RunID, rec.APQCID, mark,
			rec.Summary.Successful, rec.Summary.TotalChildren,
			rec.Summary.ExecutionTimeMs,
			rec.CompletedAt.Local().Format(time.RFC3339))
	}
	return nil
}
