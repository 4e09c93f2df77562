// Package assemble builds the final prescription record from corrected
// text and reconciled medications.
package assemble

import (
	"rxtract/internal/domain"
	"rxtract/internal/fields"
	"rxtract/internal/textnorm"
)

// Record extracts the structured header fields from text and attaches the
// medication list. Field extraction runs over flattened text so label
// patterns are not split across line breaks.
func Record(text string, medications []domain.Medication) *domain.PrescriptionRecord {
	flat := textnorm.Flatten(text)
	if medications == nil {
		medications = []domain.Medication{}
	}
	return &domain.PrescriptionRecord{
		Patient:     fields.Patient(flat),
		Doctor:      fields.Doctor(flat),
		Hospital:    fields.Hospital(flat),
		Date:        fields.Date(flat),
		Notes:       fields.Notes(flat),
		Medications: medications,
	}
}
