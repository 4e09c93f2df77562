package assemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rxtract/internal/domain"
)

func TestRecord(t *testing.T) {
	text := "City General Hospital\n" +
		"DATE: 3 Jan 2023\n" +
		"Patient: John Doe, 45\n" +
		"Dr. Smith,\n" +
		"Instructions: take with food\n"

	meds := []domain.Medication{{Name: "Paracetamol", Dosage: "500 mg"}}
	record := Record(text, meds)

	assert.Equal(t, "John Doe", record.Patient)
	assert.Equal(t, "Smith", record.Doctor)
	assert.Equal(t, "City General Hospital", record.Hospital)
	assert.Equal(t, "3 Jan 2023", record.Date)
	assert.Equal(t, "take with food", record.Notes)
	require.Len(t, record.Medications, 1)
	assert.Equal(t, "Paracetamol", record.Medications[0].Name)
}

func TestRecordEmptyText(t *testing.T) {
	record := Record("", nil)

	assert.Equal(t, "", record.Patient)
	assert.NotNil(t, record.Medications)
	assert.Empty(t, record.Medications)
}
