package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered taxonomy units",
	Long: `List every registered unit with its taxonomy identifier, level,
name, and business domain, in identifier order.`,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	eng, _, err := buildEngine()
	if err != nil {
		return err
	}

	reg := eng.Registry()
	ids := reg.IDs()
	if len(ids) == 0 {
		fmt.Println("No units registered. Run 'procmesh init' to create an example tree.")
		return nil
	}

	fmt.Printf("%-14s %-6s %-12s %s\n", "ID", "LEVEL", "DOMAIN", "NAME")
	for _, id := range ids {
		d, err := reg.Describe(id)
		if err != nil {
			return err
		}
		fmt.Printf("%-14s %-6d %-12s %s\n", id, id.Level(), d.Domain, d.Name)
	}
	return nil
}
