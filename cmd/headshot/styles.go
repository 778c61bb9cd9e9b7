package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fpang/ai-headshot-pro/internal/cli"
	"github.com/fpang/ai-headshot-pro/internal/presets"
)

var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "List the available styles",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("🎨 Styles (use the number or ID with --style):")
		cli.PrintStyles(os.Stdout, presets.Default().ID)
		fmt.Printf("\nThe %q style needs a description via --prompt.\n", presets.CustomID)
	},
}
