package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"

	"rxtract/internal/config"
	"rxtract/internal/corrector"
	"rxtract/internal/drugindex"
	"rxtract/internal/groq"
	"rxtract/internal/handler"
	"rxtract/internal/ner"
	"rxtract/internal/ocr"
	"rxtract/internal/port"
	"rxtract/internal/reconcile"
	"rxtract/internal/repository/memory"
	"rxtract/internal/repository/postgres"
	"rxtract/internal/router"
	"rxtract/internal/service"
	s3storage "rxtract/internal/storage/s3"
	"rxtract/internal/strategy"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var db *sqlx.DB
	if cfg.Jobs.Store == "postgres" {
		db, err = postgres.NewDB(&cfg.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
	}

	index := loadDrugIndex(db)
	log.Printf("drug index loaded: %d entries", index.Size())

	corr := corrector.New(index, cfg.Extract.FuzzyThreshold, cfg.Extract.CacheSize)
	recognizer := ner.NewDictionary(index, corr)

	// Rule strategies always run; the generative strategy needs an API key.
	cascade := []port.MedicationStrategy{
		strategy.NewPattern(corr),
		strategy.NewEntity(recognizer, corr),
	}
	var generator port.TextGenerator
	var model port.MedicationStrategy
	if cfg.Groq.APIKey != "" {
		client := groq.NewClient(groq.Config{
			APIKey:       cfg.Groq.APIKey,
			DefaultModel: cfg.Groq.CorrectionModel,
			TimeoutSecs:  cfg.Groq.TimeoutSecs,
		})
		generator = client
		model = strategy.NewModel(client, recognizer, corr, strategy.ModelConfig{
			Model:      cfg.Groq.ExtractionModel,
			MaxRetries: cfg.Groq.ExtractionRetries,
		})
	} else {
		log.Printf("no Groq API key configured, running rule strategies only")
	}
	reconciler := reconcile.New(model, cascade...)

	var storage port.ObjectStorage
	if cfg.S3.Bucket != "" {
		storage, err = s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	engine := ocr.NewTesseract(cfg.OCR.Binary, cfg.OCR.Language)
	if !engine.Available() {
		log.Printf("warning: tesseract binary %q not found, image analysis will fail", cfg.OCR.Binary)
	}

	var jobStore port.JobStore
	if db != nil {
		jobStore = postgres.NewJobRepo(db)
	} else {
		jobStore = memory.NewJobStore()
	}

	extractionSvc := service.NewExtractionService(engine, generator, reconciler, storage, service.ExtractionConfig{
		CorrectionModel:   cfg.Groq.CorrectionModel,
		CorrectionRetries: cfg.Groq.CorrectionRetries,
		MaxImageBytes:     cfg.Extract.MaxImageBytes(),
		ArchiveBucket:     cfg.S3.Bucket,
	})
	jobSvc := service.NewJobService(jobStore, extractionSvc, cfg.Jobs.Concurrency)

	prescriptionH := handler.NewPrescriptionHandler(extractionSvc)
	jobH := handler.NewJobHandler(jobSvc)
	healthH := handler.NewHealthHandler(db, engine)

	r := router.Setup(cfg, prescriptionH, jobH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// loadDrugIndex reads the vocabulary from the drug_index table when a
// database is configured, falling back to the built-in list.
func loadDrugIndex(db *sqlx.DB) *drugindex.Index {
	if db == nil {
		return drugindex.Default()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	entries, err := postgres.NewDrugIndexRepo(db).List(ctx)
	if err != nil || len(entries) == 0 {
		log.Printf("drug_index table unavailable, using built-in vocabulary: %v", err)
		return drugindex.Default()
	}

	var categories []drugindex.Category
	byName := map[string]int{}
	for _, e := range entries {
		i, ok := byName[e.Category]
		if !ok {
			i = len(categories)
			byName[e.Category] = i
			categories = append(categories, drugindex.Category{Name: e.Category})
		}
		categories[i].Drugs = append(categories[i].Drugs, e.Name)
	}
	return drugindex.New(categories)
}
