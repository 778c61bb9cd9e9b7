// Package download writes a generated headshot to disk as a JPEG.
package download

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"time"

	_ "image/gif"
	_ "image/png"

	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/webp"

	"github.com/fpang/ai-headshot-pro/internal/generation"
)

// JPEGQuality is used when a non-JPEG result is re-encoded.
const JPEGQuality = 92

// dataURIPrefix tags every download as JPEG.
const dataURIPrefix = "data:image/jpeg;base64,"

// FileName returns "headshot-<unix ms>.jpg" for t.
func FileName(t time.Time) string {
	return fmt.Sprintf("headshot-%d.jpg", t.UnixMilli())
}

// DataURI returns the result as a JPEG-tagged data URI.
func DataURI(img *generation.Image) string {
	if img == nil {
		return ""
	}
	return dataURIPrefix + img.Data
}

// Save writes img into dir under FileName(t) and returns the path.
// A result in another format is re-encoded as JPEG so the name is truthful;
// a payload that cannot be decoded is written unchanged.
func Save(dir string, img *generation.Image, t time.Time) (string, error) {
	if img == nil {
		return "", fmt.Errorf("no image to save")
	}

	data, err := img.Bytes()
	if err != nil {
		return "", err
	}

	data = toJPEG(img.MIMEType, data)

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, FileName(t))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	log.Info().
		Str("path", path).
		Int("bytes", len(data)).
		Msg("Headshot saved")

	return path, nil
}

func toJPEG(mimeType string, data []byte) []byte {
	if isJPEG(data) {
		return data
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		log.Warn().
			Err(err).
			Str("mime_type", mimeType).
			Msg("Could not decode result, saving original bytes")
		return data
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		log.Warn().Err(err).Str("format", format).Msg("JPEG re-encode failed, saving original bytes")
		return data
	}

	log.Debug().
		Str("from", format).
		Int("original_bytes", len(data)).
		Int("jpeg_bytes", buf.Len()).
		Msg("Re-encoded result as JPEG")

	return buf.Bytes()
}

// isJPEG trusts the SOI marker over the declared type.
func isJPEG(data []byte) bool {
	return len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF
}
