// pkg/ingest/csv.go
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/abhaysharma000/Money-Muling/pkg/model"
)

// ErrNotCSV indicates an upload whose filename does not carry a .csv extension
var ErrNotCSV = errors.New("only CSV files are allowed")

// ValidateFilename rejects uploads that are not named as CSV files.
// This runs before any parsing so malformed uploads fail fast.
func ValidateFilename(name string) error {
	if !strings.HasSuffix(strings.ToLower(name), ".csv") {
		return ErrNotCSV
	}
	return nil
}

// ReadTable decodes a CSV stream into a RawTable. The first record is taken
// as the header row; ragged records are tolerated by padding or truncating
// to the header width, since real-world exports are rarely clean.
func ReadTable(r io.Reader) (*model.RawTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("empty CSV file")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make([]string, len(header))
	for i, label := range header {
		columns[i] = strings.TrimSpace(label)
	}

	table := &model.RawTable{Columns: columns}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV row %d: %w", len(table.Rows)+2, err)
		}

		row := make(map[string]string, len(columns))
		for i, label := range columns {
			if i < len(record) {
				row[label] = strings.TrimSpace(record[i])
			} else {
				row[label] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}
