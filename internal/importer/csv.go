package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// ErrEmptySheet is returned when the input has no header row.
var ErrEmptySheet = errors.New("importer: empty sheet")

// ReadCSV parses comma-separated data into a header row plus data rows.
// Rows may have uneven lengths; MapRows treats missing cells as empty.
func ReadCSV(r io.Reader) (headers []string, rows [][]string, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, ErrEmptySheet
	}
	return records[0], records[1:], nil
}
