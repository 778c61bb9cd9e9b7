package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fpang/ai-headshot-pro/internal/cli"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the Gemini API key with a minimal request",
	Run: func(cmd *cobra.Command, args []string) {
		client := cli.InitGenerationClient(cfg)
		cli.ValidateAPIKey(context.Background(), client)
		fmt.Printf("✅ API key works. Image model: %s\n", client.Model())
	},
}
