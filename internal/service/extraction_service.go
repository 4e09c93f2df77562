package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"rxtract/internal/assemble"
	"rxtract/internal/domain"
	"rxtract/internal/image"
	"rxtract/internal/port"
	"rxtract/internal/reconcile"
	"rxtract/internal/retry"
	"rxtract/internal/textnorm"
)

const correctionSystemPrompt = "You are an AI assistant that corrects OCR-extracted text from medical prescriptions. " +
	"Maintain the original format but fix spelling errors, especially in medication names. " +
	"Pay special attention to medical terminology, dosages, and administration instructions. " +
	"Only output the corrected text, nothing else."

// ExtractionConfig tunes the extraction pipeline.
type ExtractionConfig struct {
	CorrectionModel   string
	CorrectionRetries int
	RetryDelay        time.Duration
	MaxImageBytes     int64
	ArchiveBucket     string
}

// ExtractionService runs the full pipeline: image validation, OCR, text
// correction, medication extraction, and record assembly.
type ExtractionService struct {
	ocr        port.OCREngine
	generator  port.TextGenerator
	reconciler *reconcile.Reconciler
	storage    port.ObjectStorage
	cfg        ExtractionConfig
}

// NewExtractionService wires the pipeline. generator and storage may be
// nil: without a generator text correction is skipped and only the rule
// strategies run; without storage images are not archived.
func NewExtractionService(
	ocr port.OCREngine,
	generator port.TextGenerator,
	reconciler *reconcile.Reconciler,
	storage port.ObjectStorage,
	cfg ExtractionConfig,
) *ExtractionService {
	if cfg.CorrectionRetries <= 0 {
		cfg.CorrectionRetries = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = time.Second
	}
	return &ExtractionService{
		ocr:        ocr,
		generator:  generator,
		reconciler: reconciler,
		storage:    storage,
		cfg:        cfg,
	}
}

// AnalyzeImage validates and OCRs the image, then analyzes the text.
func (s *ExtractionService) AnalyzeImage(ctx context.Context, data []byte) (*domain.AnalysisResult, error) {
	start := time.Now()

	contentType, err := image.Validate(data, s.cfg.MaxImageBytes)
	if err != nil {
		return nil, err
	}

	raw, err := s.ocr.ExtractText(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("extractionService.AnalyzeImage: %w", err)
	}

	s.archive(data, contentType)

	result := s.analyze(ctx, raw)
	result.ProcessingTimeMS = float64(time.Since(start).Milliseconds())
	return result, nil
}

// AnalyzeText runs the pipeline on already extracted text.
func (s *ExtractionService) AnalyzeText(ctx context.Context, raw string) (*domain.AnalysisResult, error) {
	start := time.Now()
	result := s.analyze(ctx, raw)
	result.ProcessingTimeMS = float64(time.Since(start).Milliseconds())
	return result, nil
}

// Compare runs the strategies on raw text and reports the per-strategy
// breakdown.
func (s *ExtractionService) Compare(ctx context.Context, raw string) *domain.CompareReport {
	corrected := s.correctText(ctx, textnorm.Normalize(raw))
	return s.reconciler.Compare(ctx, corrected)
}

func (s *ExtractionService) analyze(ctx context.Context, raw string) *domain.AnalysisResult {
	corrected := s.correctText(ctx, textnorm.Normalize(raw))
	medications := s.reconciler.Reconcile(ctx, corrected)
	return &domain.AnalysisResult{
		RawText:       raw,
		CorrectedText: corrected,
		Record:        assemble.Record(corrected, medications),
	}
}

// correctText asks the model to fix OCR mistakes. Failures degrade to the
// input text so extraction still proceeds.
func (s *ExtractionService) correctText(ctx context.Context, text string) string {
	if s.generator == nil || text == "" {
		return text
	}

	var corrected string
	err := retry.Do(ctx, s.cfg.CorrectionRetries, s.cfg.RetryDelay, func() error {
		var genErr error
		corrected, genErr = s.generator.Generate(ctx, port.ChatInput{
			System:      correctionSystemPrompt,
			User:        "Correct the following OCR text from a medical prescription:\n" + text,
			Model:       s.cfg.CorrectionModel,
			Temperature: 0.6,
			MaxTokens:   1024,
		})
		return genErr
	})
	if err != nil {
		log.Printf("extractionService.correctText: all attempts failed, using OCR text: %v", err)
		return text
	}
	return textnorm.Normalize(corrected)
}

// archive stores the uploaded image in the background, best effort.
func (s *ExtractionService) archive(data []byte, contentType string) {
	if s.storage == nil || s.cfg.ArchiveBucket == "" {
		return
	}
	key := fmt.Sprintf("prescriptions/%s%s", uuid.New(), extensionFor(contentType))
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_, err := s.storage.Upload(ctx, port.ArchiveInput{
			Bucket:      s.cfg.ArchiveBucket,
			Key:         key,
			Body:        bytes.NewReader(data),
			ContentType: contentType,
			Size:        int64(len(data)),
		})
		if err != nil {
			log.Printf("extractionService.archive: upload failed: %v", err)
		}
	}()
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
