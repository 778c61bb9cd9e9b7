package cli

import (
	"errors"

	"github.com/ncruces/zenity"
	"github.com/rs/zerolog/log"
)

// ErrPickerCanceled is returned when the user closes the file dialog.
var ErrPickerCanceled = errors.New("file selection canceled")

// imagePatterns lists the extensions offered by the native picker.
var imagePatterns = []string{
	"*.jpg", "*.jpeg", "*.png", "*.gif", "*.webp",
	"*.heic", "*.heif", "*.bmp", "*.tif", "*.tiff",
}

// PickImage opens the native file dialog filtered to images and returns the
// selected path.
func PickImage() (string, error) {
	selected, err := zenity.SelectFile(
		zenity.Title("Select a photo of yourself"),
		zenity.FileFilters{
			{Name: "Images", Patterns: imagePatterns},
		},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", ErrPickerCanceled
		}
		log.Error().Err(err).Msg("File picker failed")
		return "", err
	}

	log.Debug().Str("path", selected).Msg("Photo selected from picker")
	return selected, nil
}
