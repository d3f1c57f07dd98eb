// Package export writes the CSV files consumed downstream of the
// pipeline.
package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/nborstad/outreach/internal/store"
)

// WriteProspects writes the full prospect export: one line per company
// with identifier, name, region, industry code, website and email.
func WriteProspects(path string, rows []store.ExportRow) error {
	header := []string{"orgnr", "name", "municipality", "nace", "website", "email"}
	return writeCSV(path, header, rows, func(r store.ExportRow) []string {
		return []string{r.OrgNr, r.Name, r.Municipality, r.NACE, r.Website, r.Email}
	})
}

// WriteNames writes the name-only export without the email column.
func WriteNames(path string, rows []store.ExportRow) error {
	header := []string{"orgnr", "name", "municipality", "nace", "website"}
	return writeCSV(path, header, rows, func(r store.ExportRow) []string {
		return []string{r.OrgNr, r.Name, r.Municipality, r.NACE, r.Website}
	})
}

func writeCSV(path string, header []string, rows []store.ExportRow, record func(store.ExportRow) []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		if err := w.Write(record(r)); err != nil {
			return fmt.Errorf("write row %s: %w", r.OrgNr, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
