// Package ingest turns uploaded files into raw records for screening. Every
// format yields string-keyed rows in file order; mapping columns onto fields
// is left to the normalizer.
package ingest

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"fraudscreen/internal/screening"
	dErrors "fraudscreen/pkg/domain-errors"
)

// Format is a supported input file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DetectFormat picks a format from a file name's extension.
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput,
			fmt.Sprintf("unsupported file type %q: expected .csv, .xlsx or .json", filepath.Ext(name)))
	}
}

// Read parses r in the given format.
func Read(r io.Reader, format Format) ([]screening.RawRecord, error) {
	switch format {
	case FormatJSON:
		return DecodeJSON(r)
	case FormatCSV:
		return ReadCSV(r)
	case FormatXLSX:
		return ReadXLSX(r)
	default:
		return nil, dErrors.New(dErrors.CodeInvalidInput, "unsupported format: "+string(format))
	}
}

// rowRecord pairs header cells with row cells. Cells past the header are
// dropped and missing trailing cells are left out, not blanked.
func rowRecord(header, row []string) screening.RawRecord {
	rec := make(screening.RawRecord, 0, len(header))
	for i, key := range header {
		if i >= len(row) {
			break
		}
		if key == "" {
			continue
		}
		rec = append(rec, screening.Field{Key: key, Value: row[i]})
	}
	return rec
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		out[i] = strings.TrimSpace(h)
	}
	return out
}
