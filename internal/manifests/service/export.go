// Package service renders manifest exports.
package service

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"fieldservice_backend/internal/manifests/repository"
	"fieldservice_backend/internal/schedule/recurrence"
)

var csvHeader = []string{"Job Site", "Address", "Service Type", "Date Completed", "Quarter", "County"}

// ExportCSV renders manifest entries as a CSV document for county filings.
func ExportCSV(entries []repository.Entry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range entries {
		record := []string{
			e.JobSiteName,
			e.Address,
			e.ServiceType,
			recurrence.FormatDate(e.DateCompleted),
			e.Quarter,
			e.County,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
