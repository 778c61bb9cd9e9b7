package session

import (
	"github.com/fpang/ai-headshot-pro/internal/generation"
	"github.com/fpang/ai-headshot-pro/internal/ingest"
)

// Event is an input to the state machine. The set is closed.
type Event interface {
	isEvent()
}

// ImageIngested replaces the session's asset.
type ImageIngested struct {
	Asset *ingest.ImageAsset
}

// SelectStyle picks a preset by ID.
type SelectStyle struct {
	ID string
}

// SetCustomPrompt stores the free text used with the custom style.
type SetCustomPrompt struct {
	Text string
}

// StartGenerate asks for a new generation.
type StartGenerate struct{}

// GenerationSucceeded completes the dispatch identified by Attempt.
type GenerationSucceeded struct {
	Attempt string
	Image   *generation.Image
}

// GenerationFailed fails the dispatch identified by Attempt.
type GenerationFailed struct {
	Attempt string
	Err     error
}

// DismissResult clears a result or error and keeps the asset.
type DismissResult struct{}

// Reset returns the session to its initial state.
type Reset struct{}

func (ImageIngested) isEvent()       {}
func (SelectStyle) isEvent()         {}
func (SetCustomPrompt) isEvent()     {}
func (StartGenerate) isEvent()       {}
func (GenerationSucceeded) isEvent() {}
func (GenerationFailed) isEvent()    {}
func (DismissResult) isEvent()       {}
func (Reset) isEvent()               {}
