package generation

import (
	"encoding/base64"
	"fmt"
)

// Image is an edited image returned by the model, kept in its encoded form.
type Image struct {
	MIMEType string
	// Data is the standard base64 encoding of the image bytes.
	Data string
}

// Bytes decodes Data.
func (i Image) Bytes() ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(i.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image data: %w", err)
	}
	return b, nil
}
