// Package assets provides embedded static assets for the application.
//
// Prompt templates are stored as text files under prompts/ and embedded at
// compile time so wording changes never touch Go code.
package assets

import (
	"bytes"
	_ "embed"
	"strings"
	"text/template"
)

//go:embed prompts/headshot-edit.txt
var headshotEditTemplate string

// Pre-parsed so a malformed template fails at startup, not per request.
var editPromptTmpl = template.Must(template.New("headshot-edit").Parse(headshotEditTemplate))

// EditPromptData holds the dynamic data injected into the edit prompt.
type EditPromptData struct {
	// Instruction is the resolved style text: a preset fragment or the
	// user's custom description.
	Instruction string
}

// RenderEditPrompt frames instruction with the fixed headshot edit wording.
func RenderEditPrompt(instruction string) string {
	var buf bytes.Buffer
	// The template has no conditionals or lookups that can fail.
	_ = editPromptTmpl.Execute(&buf, EditPromptData{Instruction: instruction})
	return strings.TrimSpace(buf.String())
}
