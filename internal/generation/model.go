package generation

import "os"

// Gemini model IDs used by this tool.
//
// | Model Name               | API Model ID               | Use Case                  |
// |--------------------------|----------------------------|---------------------------|
// | Gemini 2.5 Flash Image   | gemini-2.5-flash-image     | Image editing (default)   |
// | Gemini 3 Pro Image       | gemini-3-pro-image-preview | Higher fidelity edits     |
// | Gemini 2.5 Flash Lite    | gemini-2.5-flash-lite      | Cheap text call for check |
const (
	// ModelGemini25FlashImage is the image editing model ("nano banana").
	ModelGemini25FlashImage = "gemini-2.5-flash-image"

	// ModelGemini3ProImage trades latency for fidelity.
	ModelGemini3ProImage = "gemini-3-pro-image-preview"

	// ModelGemini25FlashLite answers the API key check.
	ModelGemini25FlashLite = "gemini-2.5-flash-lite"
)

// DefaultModelName is the image model used when nothing overrides it.
const DefaultModelName = ModelGemini25FlashImage

// GetModelName returns the GEMINI_MODEL environment variable if set,
// otherwise DefaultModelName.
func GetModelName() string {
	if env := os.Getenv("GEMINI_MODEL"); env != "" {
		return env
	}
	return DefaultModelName
}
