package ingest

import (
	"io"

	"github.com/xuri/excelize/v2"

	"fraudscreen/internal/screening"
	dErrors "fraudscreen/pkg/domain-errors"
)

// ReadXLSX reads the first sheet of a workbook, treating its first non-blank
// row as the header.
func ReadXLSX(r io.Reader) ([]screening.RawRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid XLSX file")
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return []screening.RawRecord{}, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid XLSX sheet")
	}

	var header []string
	records := []screening.RawRecord{}
	for _, row := range rows {
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
