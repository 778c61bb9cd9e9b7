// Package presets holds the built-in headshot style catalog.
//
// The catalog is fixed at build time. Callers get copies, never the backing
// slice, so nothing outside this package can change what a style means.
package presets

// CustomID is the identifier of the sentinel style whose instruction is
// supplied by the user as free text.
const CustomID = "custom"

// Preset is one named headshot style.
type Preset struct {
	ID          string
	Name        string
	Description string
	Icon        string
	// Instruction is the text fragment sent to the model. Empty only for
	// the custom sentinel.
	Instruction string
}

// IsCustom reports whether p is the free-text sentinel.
func (p Preset) IsCustom() bool {
	return p.ID == CustomID
}

// catalog is ordered; the first entry is the default selection.
var catalog = []Preset{
	{
		ID:          "corporate",
		Name:        "Corporate Grey",
		Description: "Professional studio lighting with a neutral grey backdrop.",
		Icon:        "🏢",
		Instruction: "Make this a professional corporate headshot. Change the background to a clean, neutral studio grey. The subject should be wearing professional business attire (suit or blazer). Improve lighting to be soft and flattering studio lighting.",
	},
	{
		ID:          "modern_tech",
		Name:        "Modern Tech",
		Description: "Bright, modern office environment with depth of field.",
		Icon:        "💻",
		Instruction: "Transform this into a modern tech industry headshot. Background should be a blurred, bright modern open-plan office with glass and light wood. Subject should wear smart-casual tech attire (e.g., high-quality t-shirt with blazer or crisp shirt).",
	},
	{
		ID:          "outdoor",
		Name:        "Outdoor Natural",
		Description: "Soft natural lighting with blurred nature background.",
		Icon:        "🌳",
		Instruction: "Change the setting to an outdoor portrait with soft, golden-hour natural lighting. Background should be blurred greenery or a park setting (bokeh effect). Subject should appear approachable and friendly.",
	},
	{
		ID:          "studio_dark",
		Name:        "Dramatic Dark",
		Description: "High contrast, moody lighting with dark background.",
		Icon:        "🎭",
		Instruction: "Create a dramatic, high-end studio portrait. Use a dark, textured charcoal background. Use rim lighting or chiaroscuro lighting techniques to highlight facial features. Professional and serious tone.",
	},
	{
		ID:          CustomID,
		Name:        "Custom Prompt",
		Description: "Describe your own specific style or editing request.",
		Icon:        "✨",
	},
}

// All returns the catalog in display order.
func All() []Preset {
	out := make([]Preset, len(catalog))
	copy(out, catalog)
	return out
}

// IDs returns the style identifiers in display order.
func IDs() []string {
	ids := make([]string, len(catalog))
	for i, p := range catalog {
		ids[i] = p.ID
	}
	return ids
}

// Find looks up a style by identifier.
func Find(id string) (Preset, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Preset{}, false
}

// Default returns the style selected when a session starts.
func Default() Preset {
	return catalog[0]
}

// Custom returns the free-text sentinel style.
func Custom() Preset {
	p, _ := Find(CustomID)
	return p
}
