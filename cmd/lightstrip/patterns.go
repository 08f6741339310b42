package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coreman2200/funtimes-lightstrip/internal/command"
	"github.com/coreman2200/funtimes-lightstrip/internal/pattern"
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List the pattern table and brightness presets",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		for i, name := range pattern.Default().Names() {
			fmt.Fprintf(out, "0x%02X  %s\n", command.PatternFirst+byte(i), name)
		}
		for i, v := range command.Presets {
			fmt.Fprintf(out, "0x%02X  brightness %d (%d/255)\n", command.BrightnessFirst+byte(i), i, v)
		}
	},
}
