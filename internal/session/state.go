// Package session holds the state of one headshot generation session and
// drives it through its lifecycle: idle, processing, completed, error.
package session

import (
	"fmt"

	"github.com/fpang/ai-headshot-pro/internal/generation"
	"github.com/fpang/ai-headshot-pro/internal/ingest"
)

// Phase is the lifecycle position of a session.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseProcessing
	PhaseCompleted
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseProcessing:
		return "processing"
	case PhaseCompleted:
		return "completed"
	case PhaseError:
		return "error"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// State is a snapshot of a session. Presentation code reads it and never
// mutates the session directly.
type State struct {
	Phase        Phase
	ErrorMessage string
	Result       *generation.Image

	Asset        *ingest.ImageAsset
	StyleID      string
	CustomPrompt string

	// Attempt identifies the most recent dispatch. Empty until the first
	// StartGenerate and after DismissResult, Reset, or a new ingestion.
	Attempt string
}

// Busy reports whether a generation is in flight.
func (s State) Busy() bool {
	return s.Phase == PhaseProcessing
}

// Check verifies that the result and error message agree with the phase.
func (s State) Check() error {
	if s.ErrorMessage != "" && s.Result != nil {
		return fmt.Errorf("state has both an error message and a result")
	}
	if (s.Phase == PhaseError) != (s.ErrorMessage != "") {
		return fmt.Errorf("phase %s with error message %q", s.Phase, s.ErrorMessage)
	}
	if (s.Phase == PhaseCompleted) != (s.Result != nil) {
		return fmt.Errorf("phase %s with result present=%t", s.Phase, s.Result != nil)
	}
	if s.Phase == PhaseProcessing && s.Attempt == "" {
		return fmt.Errorf("processing without an attempt id")
	}
	return nil
}
