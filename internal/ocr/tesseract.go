// Package ocr extracts text from prescription images by shelling out to
// the tesseract binary.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"rxtract/internal/domain"
)

// Tesseract implements port.OCREngine over the tesseract CLI. The image is
// piped through stdin and the recognised text read from stdout.
type Tesseract struct {
	binary   string
	language string
}

// NewTesseract creates the engine. Empty arguments select "tesseract" on
// PATH and English.
func NewTesseract(binary, language string) *Tesseract {
	if binary == "" {
		binary = "tesseract"
	}
	if language == "" {
		language = "eng"
	}
	return &Tesseract{binary: binary, language: language}
}

// Available reports whether the binary can be found.
func (t *Tesseract) Available() bool {
	_, err := exec.LookPath(t.binary)
	return err == nil
}

func (t *Tesseract) ExtractText(ctx context.Context, image []byte) (string, error) {
	if !t.Available() {
		return "", fmt.Errorf("%w: %s not found", domain.ErrOCRUnavailable, t.binary)
	}

	// "stdin stdout" makes tesseract read the image from stdin and print
	// plain text instead of writing an output file.
	cmd := exec.CommandContext(ctx, t.binary, "stdin", "stdout", "-l", t.language)
	cmd.Stdin = bytes.NewReader(image)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ocr.Tesseract: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
