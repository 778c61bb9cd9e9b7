// Package ingest turns a user-selected file into an in-memory ImageAsset.
//
// Acceptance is decided by the declared media type only. Decoding is
// best-effort and feeds the preview and metadata; a format the standard
// decoders cannot read (HEIC, for example) is still accepted and sent to the
// model as-is.
package ingest

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// ErrNotAnImage is returned when the declared media type is not image/*.
var ErrNotAnImage = errors.New("file is not an image")

// ImageAsset is an accepted image. Encoded is derived from Raw once, here,
// and never recomputed. Requests carry Raw in a genai.Blob, whose JSON form
// is this same base64 text.
type ImageAsset struct {
	Name     string
	MIMEType string
	Raw      []byte
	Encoded  string
	Preview  *Preview
	Metadata *Metadata
}

// Result is the single completion delivered by IngestAsync.
type Result struct {
	Asset *ImageAsset
	Err   error
}

// Ingest validates f and builds its ImageAsset.
func Ingest(ctx context.Context, f File) (*ImageAsset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !IsImageType(f.MIMEType) {
		log.Warn().
			Str("name", f.Name).
			Str("mime_type", f.MIMEType).
			Msg("Rejected non-image file")
		return nil, fmt.Errorf("%w: %s (%s)", ErrNotAnImage, f.Name, f.MIMEType)
	}

	raw := make([]byte, len(f.Data))
	copy(raw, f.Data)

	asset := &ImageAsset{
		Name:     f.Name,
		MIMEType: f.MIMEType,
		Raw:      raw,
		Encoded:  base64.StdEncoding.EncodeToString(raw),
	}

	preview, err := BuildPreview(raw, DefaultPreviewMaxDimension)
	if err != nil {
		log.Warn().Err(err).Str("name", f.Name).Msg("Failed to build preview, continuing without it")
	} else {
		asset.Preview = preview
	}

	meta, err := ExtractMetadata(raw)
	if err != nil {
		log.Debug().Err(err).Str("name", f.Name).Msg("No EXIF metadata")
	} else {
		asset.Metadata = meta
	}

	log.Info().
		Str("name", f.Name).
		Str("mime_type", f.MIMEType).
		Int("size_bytes", len(raw)).
		Bool("has_preview", asset.Preview != nil).
		Msg("Image ingested")

	return asset, nil
}

// IngestAsync runs Ingest on its own goroutine. The returned channel yields
// exactly one Result and is then closed.
func IngestAsync(ctx context.Context, f File) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		asset, err := Ingest(ctx, f)
		out <- Result{Asset: asset, Err: err}
	}()
	return out
}

// Decode returns the raw bytes behind an encoded payload.
func (a *ImageAsset) Decode() ([]byte, error) {
	return base64.StdEncoding.DecodeString(a.Encoded)
}
