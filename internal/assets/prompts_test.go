package assets

import "testing"

func TestRenderEditPrompt(t *testing.T) {
	got := RenderEditPrompt("Use a plain grey backdrop.")
	want := "Edit this image. Use a plain grey backdrop. Ensure the face remains recognizable but improve the overall quality to professional standards. Output the result as an image."
	if got != want {
		t.Errorf("RenderEditPrompt() =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderEditPrompt_NoEscaping(t *testing.T) {
	got := RenderEditPrompt(`Add a "golden hour" glow & soft <bokeh>.`)
	want := `Edit this image. Add a "golden hour" glow & soft <bokeh>. Ensure the face remains recognizable but improve the overall quality to professional standards. Output the result as an image.`
	if got != want {
		t.Errorf("text/template must not escape the instruction, got %q", got)
	}
}
