package cli

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/fpang/ai-headshot-pro/internal/auth"
	"github.com/fpang/ai-headshot-pro/internal/config"
	"github.com/fpang/ai-headshot-pro/internal/generation"
	"github.com/fpang/ai-headshot-pro/internal/metrics"
)

// InitGenerationClient builds the Gemini client from cfg. The API key is
// resolved on the first request, so a missing key surfaces as a
// TransportError rather than a startup failure.
func InitGenerationClient(cfg *config.Config) *generation.Client {
	if cfg.Metrics {
		metrics.SetOutput(os.Stderr)
	}

	client := generation.NewClient(generation.Options{
		Model:   cfg.Model,
		Timeout: cfg.Timeout,
		APIKey:  auth.GetAPIKey,
	})

	log.Debug().
		Str("model", client.Model()).
		Dur("timeout", client.Timeout()).
		Msg("Generation client ready")

	return client
}

// ValidateAPIKey makes a minimal request and exits fatally if it fails.
func ValidateAPIKey(ctx context.Context, client *generation.Client) {
	if err := client.Ping(ctx); err != nil {
		HandleTransportError(err)
	}
	log.Info().Msg("API key validation complete - ready for operations")
}
