// Package export renders analysis results as CSV and XLSX downloads.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"rxtract/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

var medicationColumns = []string{
	"Medication Name",
	"Dosage",
	"Frequency",
	"Duration",
	"Route",
	"Instructions",
	"Source",
}

func medicationRow(med domain.Medication) []string {
	return []string{
		med.Name,
		med.Dosage,
		med.Frequency,
		med.Duration,
		med.Route,
		med.Instructions,
		string(med.Source),
	}
}

// WriteCSV writes the medication list of record as CSV, BOM first.
func WriteCSV(w io.Writer, record *domain.PrescriptionRecord) error {
	if _, err := w.Write(BOM); err != nil {
		return fmt.Errorf("export.WriteCSV: writing BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(medicationColumns); err != nil {
		return fmt.Errorf("export.WriteCSV: writing header: %w", err)
	}
	for _, med := range record.Medications {
		if err := cw.Write(medicationRow(med)); err != nil {
			return fmt.Errorf("export.WriteCSV: writing row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes a workbook with a Summary sheet for the header fields
// and a Medications sheet for the medication list.
func WriteXLSX(w io.Writer, result *domain.AnalysisResult) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	summary := "Summary"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return fmt.Errorf("export.WriteXLSX: %w", err)
	}

	record := result.Record
	if record == nil {
		record = &domain.PrescriptionRecord{}
	}

	summaryRows := [][2]string{
		{"Patient", record.Patient},
		{"Doctor", record.Doctor},
		{"Hospital", record.Hospital},
		{"Date", record.Date},
		{"Notes", record.Notes},
		{"Corrected Text", result.CorrectedText},
	}
	for i, row := range summaryRows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(summary, cell, &[]interface{}{row[0], row[1]}); err != nil {
			return fmt.Errorf("export.WriteXLSX: summary row: %w", err)
		}
	}

	meds := "Medications"
	if _, err := f.NewSheet(meds); err != nil {
		return fmt.Errorf("export.WriteXLSX: %w", err)
	}

	header := make([]interface{}, len(medicationColumns))
	for i, col := range medicationColumns {
		header[i] = col
	}
	if err := f.SetSheetRow(meds, "A1", &header); err != nil {
		return fmt.Errorf("export.WriteXLSX: header row: %w", err)
	}

	for i, med := range record.Medications {
		values := medicationRow(med)
		row := make([]interface{}, len(values))
		for j, v := range values {
			row[j] = v
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(meds, cell, &row); err != nil {
			return fmt.Errorf("export.WriteXLSX: medication row: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export.WriteXLSX: %w", err)
	}
	return nil
}
