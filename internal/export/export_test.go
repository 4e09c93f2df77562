package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"rxtract/internal/domain"
)

func sampleRecord() *domain.PrescriptionRecord {
	return &domain.PrescriptionRecord{
		Patient:  "John Doe",
		Doctor:   "Smith",
		Hospital: "City General Hospital",
		Medications: []domain.Medication{
			{Name: "Paracetamol", Dosage: "500 mg", Frequency: "twice daily", Source: domain.StrategyPattern},
			{Name: "Amoxicillin", Dosage: "250 mg", Source: domain.StrategyModel},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRecord()))

	out := buf.Bytes()
	assert.Equal(t, BOM, out[:3])

	rows, err := csv.NewReader(bytes.NewReader(out[3:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Medication Name", rows[0][0])
	assert.Equal(t, "Paracetamol", rows[1][0])
	assert.Equal(t, "500 mg", rows[1][1])
	assert.Equal(t, "model", rows[2][6])
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, &domain.PrescriptionRecord{}))

	rows, err := csv.NewReader(bytes.NewReader(buf.Bytes()[3:])).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	result := &domain.AnalysisResult{
		CorrectedText: "some text",
		Record:        sampleRecord(),
	}
	require.NoError(t, WriteXLSX(&buf, result))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	patient, err := f.GetCellValue("Summary", "B1")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", patient)

	name, err := f.GetCellValue("Medications", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Paracetamol", name)

	dosage, err := f.GetCellValue("Medications", "B3")
	require.NoError(t, err)
	assert.Equal(t, "250 mg", dosage)
}
