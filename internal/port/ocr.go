package port

import "context"

// OCREngine extracts raw text from a prescription image.
type OCREngine interface {
	ExtractText(ctx context.Context, image []byte) (string, error)
}
