package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rxtract/internal/corrector"
	"rxtract/internal/domain"
	"rxtract/internal/drugindex"
	"rxtract/internal/port"
	"rxtract/internal/reconcile"
	"rxtract/internal/strategy"
)

type stubOCR struct {
	text string
	err  error
}

func (s *stubOCR) ExtractText(context.Context, []byte) (string, error) {
	return s.text, s.err
}

type stubGenerator struct {
	response string
	err      error
	calls    int
}

func (s *stubGenerator) Generate(context.Context, port.ChatInput) (string, error) {
	s.calls++
	return s.response, s.err
}

func newRuleReconciler() *reconcile.Reconciler {
	c := corrector.New(drugindex.Default(), 0, 0)
	return reconcile.New(nil, strategy.NewPattern(c))
}

func pngImage() []byte {
	data := make([]byte, 64)
	copy(data, []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'})
	return data
}

func TestAnalyzeImage(t *testing.T) {
	ocr := &stubOCR{text: "1. Parasetamol 500 mg tablet. Take 1 tablet every 8 hours."}
	gen := &stubGenerator{response: "1. Paracetamol 500 mg tablet. Take 1 tablet every 8 hours."}
	svc := NewExtractionService(ocr, gen, newRuleReconciler(), nil, ExtractionConfig{
		RetryDelay: time.Millisecond,
	})

	result, err := svc.AnalyzeImage(context.Background(), pngImage())
	require.NoError(t, err)

	assert.Equal(t, ocr.text, result.RawText)
	assert.Equal(t, gen.response, result.CorrectedText)
	require.NotNil(t, result.Record)
	require.Len(t, result.Record.Medications, 1)
	assert.Equal(t, "Paracetamol", result.Record.Medications[0].Name)
	assert.Equal(t, "500 mg", result.Record.Medications[0].Dosage)
}

func TestAnalyzeImageRejectsBadUpload(t *testing.T) {
	svc := NewExtractionService(&stubOCR{}, nil, newRuleReconciler(), nil, ExtractionConfig{})

	_, err := svc.AnalyzeImage(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrEmptyImage)

	_, err = svc.AnalyzeImage(context.Background(), []byte("plain text, not an image"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestAnalyzeImageOCRError(t *testing.T) {
	ocr := &stubOCR{err: errors.New("binary missing")}
	svc := NewExtractionService(ocr, nil, newRuleReconciler(), nil, ExtractionConfig{})

	_, err := svc.AnalyzeImage(context.Background(), pngImage())
	assert.ErrorContains(t, err, "binary missing")
}

func TestAnalyzeTextDegradesWhenCorrectionFails(t *testing.T) {
	gen := &stubGenerator{err: errors.New("provider down")}
	svc := NewExtractionService(&stubOCR{}, gen, newRuleReconciler(), nil, ExtractionConfig{
		CorrectionRetries: 3,
		RetryDelay:        time.Millisecond,
	})

	raw := "1. Paracetamol 500 mg tablet"
	result, err := svc.AnalyzeText(context.Background(), raw)
	require.NoError(t, err)

	// OCR text is used as-is after all correction attempts fail.
	assert.Equal(t, raw, result.CorrectedText)
	assert.Equal(t, 3, gen.calls)
	require.Len(t, result.Record.Medications, 1)
}

func TestAnalyzeTextWithoutGenerator(t *testing.T) {
	svc := NewExtractionService(&stubOCR{}, nil, newRuleReconciler(), nil, ExtractionConfig{})

	result, err := svc.AnalyzeText(context.Background(), "2. Amoxicilin 250 mg capsule")
	require.NoError(t, err)
	require.Len(t, result.Record.Medications, 1)
	assert.Equal(t, "Amoxicillin", result.Record.Medications[0].Name)
}

func TestCompare(t *testing.T) {
	svc := NewExtractionService(&stubOCR{}, nil, newRuleReconciler(), nil, ExtractionConfig{})

	report := svc.Compare(context.Background(), "1. Paracetamol 500 mg tablet")
	assert.Equal(t, 0, report.ModelCount)
	assert.Equal(t, 1, report.PatternCount)
	assert.Equal(t, 1, report.FinalCount)
}
