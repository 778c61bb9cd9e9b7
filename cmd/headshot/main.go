package main

import (
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fpang/ai-headshot-pro/internal/config"
	"github.com/fpang/ai-headshot-pro/internal/logging"
)

// Global flags
var (
	configFlag   string
	logLevelFlag string
	metricsFlag  bool
	modelFlag    string
	timeoutFlag  time.Duration
	outFlag      string
)

// cfg is resolved once in PersistentPreRun and read by every subcommand.
var cfg *config.Config

// rootCmd is the main Cobra command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "headshot",
	Short: "Turn a casual photo into a professional headshot with Gemini",
	Long: `Headshot sends a photo of you to Gemini's image model together with a
style instruction and saves the edited result as a JPEG.

Pick one of the built-in styles or describe your own look with the custom
style. The face is kept recognizable; lighting, background, and attire change.

Examples:
  headshot generate -i me.jpg
  headshot generate -i me.jpg -s studio_dark -o ~/Pictures
  headshot generate -i me.jpg -s custom -p "Black and white, dramatic side lighting"
  headshot generate --pick
  headshot interactive
  headshot styles
  headshot check`,
	PersistentPreRun: loadConfig,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFlag, "config", "", "Config file (default ~/.config/ai-headshot-pro/config.yaml)")
	pf.StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")
	pf.BoolVar(&metricsFlag, "metrics", false, "Write EMF metric lines to stderr")
	pf.StringVarP(&modelFlag, "model", "m", "", "Gemini image model (e.g., gemini-2.5-flash-image, gemini-3-pro-image-preview)")
	pf.DurationVar(&timeoutFlag, "timeout", 0, "Per-request timeout (e.g., 90s, 2m)")
	pf.StringVarP(&outFlag, "out", "o", "", "Directory for saved headshots")

	rootCmd.AddCommand(generateCmd, stylesCmd, interactiveCmd, checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves configuration and applies flags that were set
// explicitly, which take precedence over every other source.
func loadConfig(cmd *cobra.Command, args []string) {
	start := time.Now()
	logging.Init(logLevelFlag)

	loaded, err := config.Load(configFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		loaded.LogLevel = logLevelFlag
	}
	if flags.Changed("metrics") {
		loaded.Metrics = metricsFlag
	}
	if flags.Changed("model") {
		loaded.Model = modelFlag
	}
	if flags.Changed("timeout") {
		loaded.Timeout = timeoutFlag
	}
	if flags.Changed("out") {
		loaded.OutputDir = outFlag
	}
	if err := loaded.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	logging.Init(loaded.LogLevel)
	cfg = loaded

	logging.NewStartupLogger(cmd.Name()).
		CommitHash(commitHash).
		BuildTime(buildTime).
		Config("model", cfg.Model).
		Config("timeout", cfg.Timeout.String()).
		Config("outputDir", cfg.OutputDir).
		Config("configFile", cfg.Source).
		Feature("metrics", cfg.Metrics).
		InitDuration(time.Since(start)).
		Log()
}
