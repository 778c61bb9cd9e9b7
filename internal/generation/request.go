// Package generation builds headshot edit requests and sends them to Gemini.
package generation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fpang/ai-headshot-pro/internal/assets"
	"github.com/fpang/ai-headshot-pro/internal/ingest"
	"github.com/fpang/ai-headshot-pro/internal/presets"
)

var (
	// ErrEmptyCustomPrompt is returned when the custom style is selected
	// without any description.
	ErrEmptyCustomPrompt = errors.New("custom style requires a description")

	// ErrMissingImage is returned when no image has been ingested.
	ErrMissingImage = errors.New("no image selected")

	// ErrUnknownStyle is returned for a style ID not in the catalog.
	ErrUnknownStyle = errors.New("unknown style")
)

// Request is one outbound edit: the image plus the resolved instruction.
type Request struct {
	Asset       *ingest.ImageAsset
	StyleID     string
	Instruction string
}

// Prompt returns the text part sent alongside the image.
func (r *Request) Prompt() string {
	return assets.RenderEditPrompt(r.Instruction)
}

// Build resolves the instruction for styleID and pairs it with asset.
// For the custom style the trimmed freeText is the instruction; for any
// other style the catalog fragment is used verbatim and freeText is ignored.
func Build(asset *ingest.ImageAsset, styleID, freeText string) (*Request, error) {
	if asset == nil {
		return nil, ErrMissingImage
	}

	style, ok := presets.Find(styleID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStyle, styleID)
	}

	instruction := style.Instruction
	if style.IsCustom() {
		instruction = strings.TrimSpace(freeText)
		if instruction == "" {
			return nil, ErrEmptyCustomPrompt
		}
	}

	return &Request{
		Asset:       asset,
		StyleID:     style.ID,
		Instruction: instruction,
	}, nil
}
