// Command seeddrugs converts a drug vocabulary Excel workbook into a SQL
// seed file for the drug_index table. Each sheet is a therapeutic category;
// column A holds one drug name per row.
// Usage: go run ./cmd/seeddrugs [workbook.xlsx]
// Output: db/seeds/drug_index.sql
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

const batchSize = 500

type drugEntry struct {
	category string
	name     string
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	xlsxPath := "drug_index.xlsx"
	if len(os.Args) > 1 {
		xlsxPath = os.Args[1]
	}
	outPath := "db/seeds/drug_index.sql"

	f, err := excelize.OpenFile(xlsxPath)
	if err != nil {
		return fmt.Errorf("open Excel file: %w", err)
	}
	defer func() { _ = f.Close() }()

	seen := make(map[string]bool)
	var entries []drugEntry

	for _, sheet := range f.GetSheetList() {
		sheetEntries, err := parseSheet(f, sheet, seen)
		if err != nil {
			return fmt.Errorf("parse sheet %s: %w", sheet, err)
		}
		entries = append(entries, sheetEntries...)
		log.Printf("sheet %s: %d entries", sheet, len(sheetEntries))
	}
	if len(entries) == 0 {
		return fmt.Errorf("no drug entries found in %s", xlsxPath)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = out.Close() }()

	w := func(s string) error { _, werr := fmt.Fprintln(out, s); return werr }

	for _, line := range []string{
		"-- Drug vocabulary seed data generated from Excel.",
		fmt.Sprintf("-- %d entries in batches of %d.", len(entries), batchSize),
		"-- Run: make seed-drugs",
		"BEGIN;",
		"",
	} {
		if werr := w(line); werr != nil {
			return fmt.Errorf("write header: %w", werr)
		}
	}

	for i := 0; i < len(entries); i += batchSize {
		end := i + batchSize
		if end > len(entries) {
			end = len(entries)
		}
		if err := writeBatch(out, entries[i:end]); err != nil {
			return fmt.Errorf("write batch at offset %d: %w", i, err)
		}
	}

	for _, line := range []string{"", "COMMIT;"} {
		if werr := w(line); werr != nil {
			return fmt.Errorf("write footer: %w", werr)
		}
	}

	log.Printf("Generated %d total entries (%d batches) in %s",
		len(entries), (len(entries)+batchSize-1)/batchSize, outPath)
	return nil
}

// parseSheet reads one category sheet. Row 0 is skipped when it looks like a
// header ("name" or "drug" in column A).
func parseSheet(f *excelize.File, sheet string, seen map[string]bool) ([]drugEntry, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}

	category := strings.ToLower(strings.TrimSpace(sheet))
	var entries []drugEntry
	for i, row := range rows {
		name := strings.TrimSpace(cellVal(row, 0))
		if name == "" {
			continue
		}
		if i == 0 {
			lower := strings.ToLower(name)
			if lower == "name" || lower == "drug" || lower == "drug name" {
				continue
			}
		}

		key := category + "|" + strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		entries = append(entries, drugEntry{category: category, name: name})
	}
	return entries, nil
}

func writeBatch(out *os.File, batch []drugEntry) error {
	if len(batch) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString("INSERT INTO drug_index (category, name) VALUES\n")

	for i := range batch {
		e := &batch[i]
		if i > 0 {
			b.WriteString(",\n")
		}
		fmt.Fprintf(&b, "  ('%s', '%s')", escapeSQL(e.category), escapeSQL(e.name))
	}

	b.WriteString("\nON CONFLICT (category, name) DO NOTHING;\n")

	_, err := out.WriteString(b.String())
	return err
}

func cellVal(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
