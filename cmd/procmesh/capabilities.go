package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var capabilitiesCmd = &cobra.Command{
	Use:   "capabilities <taxonomy-id>",
	Short: "Show a unit's declared capability descriptor",
	Args:  cobra.ExactArgs(1),
	RunE:  runCapabilities,
}

func runCapabilities(cmd *cobra.Command, args []string) error {
	eng, _, err := buildEngine()
	if err != nil {
		return err
	}

	d, err := eng.GetCapabilities(args[0])
	if err != nil {
		return err
	}

	raw, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal descriptor: %w", err)
	}
	fmt.Println(string(raw))
	return nil
}
