package screening

import (
	"time"
)

var testProcessedAt = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

// raw builds a RawRecord from alternating keys and values.
func raw(kv ...any) RawRecord {
	r := RawRecord{}
	for i := 0; i+1 < len(kv); i += 2 {
		r = append(r, Field{Key: kv[i].(string), Value: kv[i+1]})
	}
	return r
}

func coord(f float64) *float64 {
	return &f
}

// record builds a normalized record directly, bypassing the normalizer.
func record(id string, mutate ...func(*ApplicationRecord)) ApplicationRecord {
	rec := ApplicationRecord{ID: id, Name: "Unknown", ApplicationDate: "2026-03-14"}
	for _, m := range mutate {
		m(&rec)
	}
	return rec
}

func withAadhaar(v string) func(*ApplicationRecord) {
	return func(r *ApplicationRecord) { r.AadhaarLast4 = v }
}

func withBank(v string) func(*ApplicationRecord) {
	return func(r *ApplicationRecord) { r.BankAccount = v }
}

func withPhone(v string) func(*ApplicationRecord) {
	return func(r *ApplicationRecord) { r.Phone = v }
}

func withGPS(lat, long float64) func(*ApplicationRecord) {
	return func(r *ApplicationRecord) {
		r.GPSLat = coord(lat)
		r.GPSLong = coord(long)
	}
}

func flagsOfType(flags []FraudFlag, t FlagType) []FraudFlag {
	var out []FraudFlag
	for _, f := range flags {
		if f.Type == t {
			out = append(out, f)
		}
	}
	return out
}

func flagsFor(flags []FraudFlag, id string) []FraudFlag {
	var out []FraudFlag
	for _, f := range flags {
		if f.ApplicationID == id {
			out = append(out, f)
		}
	}
	return out
}
