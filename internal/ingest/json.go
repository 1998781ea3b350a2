package ingest

import (
	"encoding/json"
	"errors"
	"io"

	"fraudscreen/internal/screening"
	dErrors "fraudscreen/pkg/domain-errors"
)

// ErrNotArray is returned when a JSON payload is valid but not an array.
var ErrNotArray = dErrors.New(dErrors.CodeBadRequest, "Expected an array of application data")

// DecodeJSON reads a JSON array of records. Elements that are not objects
// become empty records so positions, and therefore ids, stay stable. Syntax
// errors keep their cause so callers can tell a size limit from bad input.
func DecodeJSON(r io.Reader) ([]screening.RawRecord, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid JSON body")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, ErrNotArray
	}

	records := []screening.RawRecord{}
	for dec.More() {
		var rec screening.RawRecord
		if err := dec.Decode(&rec); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid JSON body")
		}
		records = append(records, rec)
	}
	if _, err := dec.Token(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid JSON body")
	}
	switch _, err := dec.Token(); {
	case errors.Is(err, io.EOF):
	case err != nil:
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "unexpected data after JSON array")
	default:
		return nil, dErrors.New(dErrors.CodeBadRequest, "unexpected data after JSON array")
	}
	return records, nil
}
