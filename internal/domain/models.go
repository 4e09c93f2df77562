package domain

import (
	"time"

	"github.com/google/uuid"
)

// Candidate is a tentative medication extraction produced by a single
// strategy. Candidates are never mutated after creation; a name correction
// produces a new candidate.
type Candidate struct {
	Name         string
	Dosage       string
	Frequency    string
	Route        string
	Instructions string
	Duration     string
	Source       SourceStrategy
	// Position is the byte offset of the mention in the source text,
	// or -1 when the strategy cannot locate one.
	Position int
}

// Medication is the reconciled, de-duplicated form of a candidate.
// Name is never empty: when no confident canonical match exists, the
// cleaned original token is retained verbatim.
type Medication struct {
	Name         string         `json:"name"`
	Dosage       string         `json:"dosage"`
	Frequency    string         `json:"frequency,omitempty"`
	Duration     string         `json:"duration,omitempty"`
	Route        string         `json:"route,omitempty"`
	Instructions string         `json:"instructions,omitempty"`
	Source       SourceStrategy `json:"source,omitempty"`
}

// PrescriptionRecord is the structured output of one extraction call.
// It is immutable once assembled.
type PrescriptionRecord struct {
	Patient     string       `json:"patient,omitempty"`
	Doctor      string       `json:"doctor,omitempty"`
	Hospital    string       `json:"hospital,omitempty"`
	Date        string       `json:"date,omitempty"`
	Notes       string       `json:"notes,omitempty"`
	Medications []Medication `json:"medications"`
}

// AnalysisResult is what the API layer returns for one analyzed image.
type AnalysisResult struct {
	RawText          string              `json:"raw_text,omitempty"`
	CorrectedText    string              `json:"corrected_text,omitempty"`
	Record           *PrescriptionRecord `json:"parsed_data,omitempty"`
	ProcessingTimeMS float64             `json:"processing_time_ms,omitempty"`
}

// CompareReport is the diagnostic breakdown produced in compare mode:
// per-strategy counts and the symmetric differences between the model and
// pattern strategies. Intended for offline evaluation.
type CompareReport struct {
	ModelCount   int          `json:"model_count"`
	PatternCount int          `json:"pattern_count"`
	FinalCount   int          `json:"final_count"`
	ModelOnly    []Medication `json:"model_only"`
	PatternOnly  []Medication `json:"pattern_only"`
	FoundByBoth  []string     `json:"found_by_both"`
	Final        []Medication `json:"final_medications"`
}

// Job is one asynchronous analysis request.
type Job struct {
	ID        uuid.UUID       `json:"job_id" db:"id"`
	Status    JobStatus       `json:"status" db:"status"`
	Result    *AnalysisResult `json:"result,omitempty" db:"-"`
	Error     string          `json:"error,omitempty" db:"error"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}
