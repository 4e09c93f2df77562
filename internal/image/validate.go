// Package image validates uploaded prescription images before OCR.
package image

import (
	"fmt"
	"net/http"

	"rxtract/internal/domain"
)

// DefaultMaxBytes caps uploads at 10 MiB.
const DefaultMaxBytes = 10 << 20

var allowedTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
}

// Validate checks that data is a non-empty, supported image within the
// size limit and returns its sniffed content type. A maxBytes of zero or
// less selects the default cap.
func Validate(data []byte, maxBytes int64) (string, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if len(data) == 0 {
		return "", domain.ErrEmptyImage
	}
	if int64(len(data)) > maxBytes {
		return "", fmt.Errorf("%w: %d bytes (limit %d)", domain.ErrFileTooLarge, len(data), maxBytes)
	}

	contentType := http.DetectContentType(data)
	if !allowedTypes[contentType] {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, contentType)
	}
	return contentType, nil
}
