package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/procmesh/procmesh/internal/config"
	"github.com/procmesh/procmesh/internal/hierarchy"
)

var validateWatch bool

var validateCmd = &cobra.Command{
	Use:   "validate [definitions-file]",
	Short: "Validate process-tree definitions",
	Long: `Check a definitions file for structural errors: malformed or
duplicate identifiers, duplicate or self-referencing children, and cycles.

With --watch, stay running and re-validate on every save. Watching never
touches a live registry; it only reports whether the file would compose
cleanly on the next start.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateWatch, "watch", false, "Re-validate whenever the file changes")
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	} else {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		path = cfg.Definitions.Path
	}

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	report := func(p string, err error) {
		if err != nil {
			fmt.Printf("%s %s: %v\n", red("✗"), p, err)
			return
		}
		fmt.Printf("%s %s is structurally sound\n", green("✓"), p)
	}

	defs, err := hierarchy.Load(path)
	if err != nil {
		report(path, err)
		if !validateWatch {
			return fmt.Errorf("validation failed")
		}
	} else {
		fmt.Printf("%s %s: %d composite nodes\n", green("✓"), path, len(defs))
	}

	if !validateWatch {
		return nil
	}

	w, err := hierarchy.NewWatcher(path, report)
	if err != nil {
		return err
	}
	defer w.Close()

	fmt.Printf("watching %s (ctrl-c to stop)\n", path)
	w.Run()
	return nil
}
