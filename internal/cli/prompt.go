package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/fpang/ai-headshot-pro/internal/presets"
)

// PromptForImagePath asks for the photo to transform. Returns "" if the user
// enters nothing.
func PromptForImagePath(in *bufio.Reader, out io.Writer) string {
	fmt.Fprint(out, "Photo path (or leave empty to cancel): ")
	input, err := in.ReadString('\n')
	if err != nil && input == "" {
		log.Warn().Err(err).Msg("Failed to read image path")
		return ""
	}
	return strings.Trim(strings.TrimSpace(input), `"'`)
}

// PrintStyles lists the catalog with 1-based numbers, marking current.
func PrintStyles(out io.Writer, current string) {
	for i, p := range presets.All() {
		marker := " "
		if p.ID == current {
			marker = "*"
		}
		fmt.Fprintf(out, " %s %d. %s %-18s %s\n", marker, i+1, p.Icon, p.Name, p.Description)
	}
}

// PromptForStyle shows the catalog and returns the chosen preset ID.
// Empty input keeps current.
func PromptForStyle(in *bufio.Reader, out io.Writer, current string) string {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Choose a style:")
	PrintStyles(out, current)

	for {
		fmt.Fprintf(out, "Style [%s]: ", current)
		input, err := in.ReadString('\n')
		input = strings.TrimSpace(input)
		if input == "" {
			if err != nil {
				log.Warn().Err(err).Msg("Failed to read style, keeping current")
			}
			return current
		}

		if id, ok := ParseStyleChoice(input); ok {
			return id
		}
		fmt.Fprintf(out, "Unknown style %q. Enter a number or one of: %s\n", input, strings.Join(presets.IDs(), ", "))
		if err != nil {
			return current
		}
	}
}

// ParseStyleChoice accepts a 1-based catalog number, a preset ID, or a preset
// name (case-insensitive).
func ParseStyleChoice(input string) (string, bool) {
	input = strings.TrimSpace(input)
	all := presets.All()

	if n, err := strconv.Atoi(input); err == nil {
		if n >= 1 && n <= len(all) {
			return all[n-1].ID, true
		}
		return "", false
	}

	if p, ok := presets.Find(strings.ToLower(input)); ok {
		return p.ID, true
	}
	for _, p := range all {
		if strings.EqualFold(p.Name, input) {
			return p.ID, true
		}
	}
	return "", false
}

// PromptForCustomText asks for the custom style description.
func PromptForCustomText(in *bufio.Reader, out io.Writer) string {
	custom := presets.Custom()
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s %s: describe the look you want\n", custom.Icon, custom.Name)
	fmt.Fprintln(out, "Examples: 'Black and white, dramatic side lighting'")
	fmt.Fprintln(out, "          'Cozy coffee shop background, warm tones'")
	fmt.Fprint(out, "Description: ")

	input, err := in.ReadString('\n')
	if err != nil && input == "" {
		log.Warn().Err(err).Msg("Failed to read description")
		return ""
	}
	return strings.TrimSpace(input)
}
