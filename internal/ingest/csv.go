package ingest

import (
	"encoding/csv"
	"errors"
	"io"

	"fraudscreen/internal/screening"
	dErrors "fraudscreen/pkg/domain-errors"
)

// ReadCSV reads a CSV file whose first non-blank row is the header. Blank
// rows are skipped and ragged rows are accepted.
func ReadCSV(r io.Reader) ([]screening.RawRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var header []string
	records := []screening.RawRecord{}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid CSV file")
		}
		if blankRow(row) {
			continue
		}
		if header == nil {
			header = cleanHeader(row)
			continue
		}
		records = append(records, rowRecord(header, row))
	}
	return records, nil
}
