package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create example configuration and process-tree files",
	Long: `Write a starter .procmesh.yaml and process-tree.yaml into the
current directory. The example tree wires the built-in billing pack
(9.2.1.x) under its Process Group and Category nodes.`,
	RunE: runInit,
}

const exampleConfig = `# procmesh project configuration
definitions:
  path: process-tree.yaml

engine:
  # 0s disables the per-child timeout / node deadline.
  child_timeout: 0s
  node_deadline: 0s
  fail_fast: false

history:
  enabled: true
  # path: .procmesh/history.db

logging:
  # debug_log: .procmesh/debug.log
`

const exampleTree = `# Process-tree definitions. Each node lists its children in execution
# order; identifiers without a definition of their own are leaves
# registered by agent packs.
nodes:
  - id: "9"
    name: "Manage financial resources"
    children: ["9.2"]
  - id: "9.2"
    name: "Invoice and service billing"
    children: ["9.2.1.1", "9.2.1.2"]
`

func runInit(cmd *cobra.Command, args []string) error {
	writeIfAbsent := func(path, content string) error {
		if _, err := os.Stat(path); err == nil {
			printStatus("⚠", path+" already exists, skipping", color.FgYellow)
			return nil
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printStatus("✓", "Created "+path, color.FgGreen)
		return nil
	}

	if err := writeIfAbsent(".procmesh.yaml", exampleConfig); err != nil {
		return err
	}
	if err := writeIfAbsent("process-tree.yaml", exampleTree); err != nil {
		return err
	}

	fmt.Println("\nTry: procmesh run 9.2")
	return nil
}

// printStatus prints a colored status line.
func printStatus(symbol, message string, attr color.Attribute) {
	c := color.New(attr)
	c.Printf("%s ", symbol)
	fmt.Println(message)
}
