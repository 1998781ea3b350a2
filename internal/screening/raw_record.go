package screening

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Field is one key/value pair of a raw input record.
type Field struct {
	Key   string
	Value any
}

// RawRecord is an input record exactly as received, with its keys in source
// order. Order is kept because alias matching picks the first raw key that
// canonicalizes to an alias, and that must not depend on map iteration.
type RawRecord []Field

// Get returns the value stored under key, matched exactly.
func (r RawRecord) Get(key string) (any, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Set replaces the value of an existing key in place or appends a new field.
func (r *RawRecord) Set(key string, value any) {
	for i := range *r {
		if (*r)[i].Key == key {
			(*r)[i].Value = value
			return
		}
	}
	*r = append(*r, Field{Key: key, Value: value})
}

// UnmarshalJSON decodes a JSON object keeping key order. Numbers are kept as
// json.Number so identifiers such as phone numbers survive without float
// rounding. Anything that is not an object decodes to an empty record: a
// malformed row still gets screened, just with every field absent.
func (r *RawRecord) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		*r = RawRecord{}
		return nil
	}

	fields := RawRecord{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", keyTok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("decode value of %q: %w", key, err)
		}
		fields.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*r = fields
	return nil
}

// MarshalJSON encodes the record as a JSON object in source order.
func (r RawRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("encode value of %q: %w", f.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
