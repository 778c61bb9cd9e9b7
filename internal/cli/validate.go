package cli

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fpang/ai-headshot-pro/internal/generation"
	"github.com/fpang/ai-headshot-pro/internal/ingest"
)

// ValidateAndResolveImage checks that the path exists and is a regular file,
// then returns the absolute path. Exits fatally on failure.
func ValidateAndResolveImage(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Fatal().Str("path", path).Msg("Photo not found")
		}
		log.Fatal().Err(err).Str("path", path).Msg("Failed to access photo")
	}
	if info.IsDir() {
		log.Fatal().Str("path", path).Msg("Path is a directory, not a photo")
	}

	absPath, err := filepath.Abs(path)
	if err == nil {
		path = absPath
	}

	return path
}

// UserMessage returns the line shown to the user for a generation error.
func UserMessage(err error) string {
	var te *generation.TransportError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ingest.ErrNotAnImage):
		return "That file is not an image. Choose a JPEG, PNG, WebP or HEIC photo."
	case errors.Is(err, generation.ErrEmptyCustomPrompt):
		return "Please enter a description for your custom style."
	case errors.Is(err, generation.ErrUnknownStyle):
		return err.Error()
	case errors.Is(err, generation.ErrNoImageReturned):
		return "Failed to generate image. Please try again."
	case errors.As(err, &te):
		switch te.Kind {
		case generation.KindNoKey:
			return "No API key configured. Set GEMINI_API_KEY or store it in ~/.ai-headshot-pro/credentials.gpg"
		case generation.KindAuth:
			return "Invalid API key. Please check your API key and try again: " + te.Reason
		case generation.KindQuota:
			return "API quota exceeded. Please try again later or check your usage limits: " + te.Reason
		case generation.KindNetwork:
			return "Network error. Please check your internet connection: " + te.Reason
		default:
			return te.Reason
		}
	default:
		return err.Error()
	}
}

// HandleTransportError logs the user message for err and exits.
func HandleTransportError(err error) {
	withTransportKind(log.Fatal().Err(err), err).Msg(UserMessage(err))
}

// withTransportKind adds the failure kind to evt when err is a transport error.
func withTransportKind(evt *zerolog.Event, err error) *zerolog.Event {
	var te *generation.TransportError
	if errors.As(err, &te) {
		evt = evt.Str("kind", te.Kind.String())
	}
	return evt
}
