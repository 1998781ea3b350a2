package screening

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	unknownName = "Unknown"
	dateLayout  = "2006-01-02"
)

// Aliases lists the accepted raw column names for each canonical field, in
// priority order.
type Aliases struct {
	Name    []string
	Date    []string
	Aadhaar []string
	Phone   []string
	Bank    []string
	Lat     []string
	Long    []string
}

// DefaultAliases returns the alias tables shared with the upload dashboard.
func DefaultAliases() Aliases {
	return Aliases{
		Name:    []string{"name", "beneficiaryname", "beneficiary_name"},
		Date:    []string{"date", "application_date", "applicationdate"},
		Aadhaar: []string{"aadhaar", "aadhaar_last_4", "aadhaar(last4)", "adharnumber"},
		Phone:   []string{"phone", "mobile", "phonenumber"},
		Bank:    []string{"bank", "bank_account", "accountnumber", "bankaccount"},
		Lat:     []string{"lat", "latitude", "gps_lat"},
		Long:    []string{"long", "longitude", "gps_long"},
	}
}

func (a Aliases) clone() Aliases {
	return Aliases{
		Name:    append([]string(nil), a.Name...),
		Date:    append([]string(nil), a.Date...),
		Aadhaar: append([]string(nil), a.Aadhaar...),
		Phone:   append([]string(nil), a.Phone...),
		Bank:    append([]string(nil), a.Bank...),
		Lat:     append([]string(nil), a.Lat...),
		Long:    append([]string(nil), a.Long...),
	}
}

// CanonicalKey lowercases s and drops every character outside [a-z0-9].
func CanonicalKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normalizeRecord maps one raw record onto the canonical shape. It never fails:
// anything unusable becomes absent.
func normalizeRecord(raw RawRecord, index int, aliases Aliases, processedAt time.Time) ApplicationRecord {
	canon := make([]string, len(raw))
	for i, f := range raw {
		canon[i] = CanonicalKey(f.Key)
	}
	find := func(keys []string) (any, bool) {
		for _, k := range keys {
			want := CanonicalKey(k)
			for i, c := range canon {
				if c == want {
					return raw[i].Value, true
				}
			}
		}
		return nil, false
	}

	rec := ApplicationRecord{
		ID:             fmt.Sprintf("%03d", index+1),
		Name:           stringOr(find(aliases.Name)),
		OriginalFields: raw,
	}
	if rec.Name == "" {
		rec.Name = unknownName
	}
	rec.ApplicationDate = stringOr(find(aliases.Date))
	if rec.ApplicationDate == "" {
		rec.ApplicationDate = processedAt.Format(dateLayout)
	}
	rec.AadhaarLast4 = stringOr(find(aliases.Aadhaar))
	rec.Phone = stringOr(find(aliases.Phone))
	rec.BankAccount = stringOr(find(aliases.Bank))
	rec.GPSLat = numberOr(find(aliases.Lat))
	rec.GPSLong = numberOr(find(aliases.Long))
	return rec
}

// stringOr renders a scalar raw value as a string. Empty strings, nulls and
// nested values yield "".
func stringOr(v any, ok bool) string {
	if !ok {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// numberOr parses a coordinate. Strings are parsed leniently: a leading
// numeric prefix is accepted ("12.97N" → 12.97). Non-finite values are absent.
func numberOr(v any, ok bool) *float64 {
	if !ok {
		return nil
	}

	var f float64
	switch val := v.(type) {
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case float64:
		f = val
	case int:
		f = float64(val)
	case int64:
		f = float64(val)
	case string:
		parsed, ok := parseLeadingFloat(val)
		if !ok {
			return nil
		}
		f = parsed
	default:
		return nil
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func parseLeadingFloat(s string) (float64, bool) {
	prefix := leadingNumber.FindString(strings.TrimSpace(s))
	if prefix == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
