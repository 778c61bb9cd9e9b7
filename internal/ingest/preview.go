package ingest

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	// Decoders for image.Decode.
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultPreviewMaxDimension bounds the longer edge of a preview.
const DefaultPreviewMaxDimension = 512

// Preview is a small JPEG rendition used for display.
type Preview struct {
	Width    int
	Height   int
	MIMEType string
	Data     []byte

	// Source dimensions of the decoded image.
	SourceWidth  int
	SourceHeight int
}

// BuildPreview decodes data and renders a JPEG whose longer edge is at most
// maxDimension. Images already within bounds are re-encoded without scaling.
func BuildPreview(data []byte, maxDimension int) (*Preview, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	origWidth, origHeight := bounds.Dx(), bounds.Dy()
	newWidth, newHeight := previewDimensions(origWidth, origHeight, maxDimension)

	var out image.Image = img
	if newWidth != origWidth || newHeight != origHeight {
		resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
		draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)
		out = resized
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("failed to encode %s preview: %w", format, err)
	}

	return &Preview{
		Width:        newWidth,
		Height:       newHeight,
		MIMEType:     "image/jpeg",
		Data:         buf.Bytes(),
		SourceWidth:  origWidth,
		SourceHeight: origHeight,
	}, nil
}

// previewDimensions keeps the aspect ratio while fitting the longer edge.
func previewDimensions(width, height, maxDimension int) (int, int) {
	if maxDimension <= 0 || (width <= maxDimension && height <= maxDimension) {
		return width, height
	}

	if width > height {
		newHeight := int(float64(height) * float64(maxDimension) / float64(width))
		return maxDimension, max(newHeight, 1)
	}

	newWidth := int(float64(width) * float64(maxDimension) / float64(height))
	return max(newWidth, 1), maxDimension
}
