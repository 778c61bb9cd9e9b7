package ingest

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// knownImageTypes maps the extensions we expect from phones and cameras to
// their media type. Other extensions fall back to the system MIME table.
var knownImageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".heic": "image/heic",
	".heif": "image/heif",
}

// File is a user-provided file before validation: a name, the media type it
// declares, and its contents.
type File struct {
	Name     string
	MIMEType string
	Data     []byte
}

// OpenFile reads a file from disk and declares its media type from the
// extension, the way a browser file picker would.
func OpenFile(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return File{}, fmt.Errorf("file not found: %s", path)
		}
		return File{}, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to read file: %w", err)
	}

	f := File{
		Name:     filepath.Base(path),
		MIMEType: DeclaredType(path),
		Data:     data,
	}

	log.Debug().
		Str("path", path).
		Str("mime_type", f.MIMEType).
		Int("size_bytes", len(data)).
		Msg("File loaded")

	return f, nil
}

// DeclaredType returns the media type implied by the file name.
func DeclaredType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if t, ok := knownImageTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}

// IsImageType reports whether a declared media type is an image type.
func IsImageType(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mimeType)), "image/")
}
