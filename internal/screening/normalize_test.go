package screening

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Aadhaar (Last4)", "aadhaarlast4"},
		{"aadhaar_last_4", "aadhaarlast4"},
		{"Beneficiary Name", "beneficiaryname"},
		{"GPS-Lat", "gpslat"},
		{"  ", ""},
		{"Téléphone", "tlphone"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalKey(tt.in))
		})
	}
}

func TestNormalize(t *testing.T) {
	engine := MustNewEngine(DefaultRules())

	t.Run("assigns zero padded ids in input order", func(t *testing.T) {
		rawRecords := make([]RawRecord, 1001)
		for i := range rawRecords {
			rawRecords[i] = raw("name", "x")
		}
		records := engine.Normalize(rawRecords, testProcessedAt)
		assert.Equal(t, "001", records[0].ID)
		assert.Equal(t, "010", records[9].ID)
		assert.Equal(t, "999", records[998].ID)
		assert.Equal(t, "1000", records[999].ID)
		assert.Equal(t, "1001", records[1000].ID)
	})

	t.Run("matches heterogeneous column names", func(t *testing.T) {
		records := engine.Normalize([]RawRecord{raw(
			"Beneficiary Name", "Asha Devi",
			"Application_Date", "2024-01-05",
			"Aadhaar (Last4)", "4821",
			"Mobile", "9876543210",
			"Account Number", "00112233",
			"Latitude", "12.9716",
			"Longitude", "77.5946",
		)}, testProcessedAt)
		require.Len(t, records, 1)

		rec := records[0]
		assert.Equal(t, "Asha Devi", rec.Name)
		assert.Equal(t, "2024-01-05", rec.ApplicationDate)
		assert.Equal(t, "4821", rec.AadhaarLast4)
		assert.Equal(t, "9876543210", rec.Phone)
		assert.Equal(t, "00112233", rec.BankAccount)
		require.NotNil(t, rec.GPSLat)
		require.NotNil(t, rec.GPSLong)
		assert.InDelta(t, 12.9716, *rec.GPSLat, 1e-9)
		assert.InDelta(t, 77.5946, *rec.GPSLong, 1e-9)
	})

	t.Run("alias priority beats column order", func(t *testing.T) {
		records := engine.Normalize([]RawRecord{raw(
			"bank_account", "second-choice",
			"bank", "first-choice",
		)}, testProcessedAt)
		assert.Equal(t, "first-choice", records[0].BankAccount)
	})

	t.Run("first raw key wins when two columns canonicalize alike", func(t *testing.T) {
		records := engine.Normalize([]RawRecord{raw(
			"Phone", "111",
			"phone", "222",
		)}, testProcessedAt)
		assert.Equal(t, "111", records[0].Phone)
	})

	t.Run("fills defaults for name and date", func(t *testing.T) {
		records := engine.Normalize([]RawRecord{raw("name", "", "phone", "1")}, testProcessedAt)
		assert.Equal(t, "Unknown", records[0].Name)
		assert.Equal(t, "2026-03-14", records[0].ApplicationDate)
	})

	t.Run("renders json numbers and booleans as text", func(t *testing.T) {
		records := engine.Normalize([]RawRecord{raw(
			"phone", json.Number("9876543210"),
			"bank", float64(42),
			"aadhaar", true,
		)}, testProcessedAt)
		assert.Equal(t, "9876543210", records[0].Phone)
		assert.Equal(t, "42", records[0].BankAccount)
		assert.Equal(t, "true", records[0].AadhaarLast4)
	})

	t.Run("treats null and nested values as absent", func(t *testing.T) {
		records := engine.Normalize([]RawRecord{raw(
			"phone", nil,
			"bank", map[string]any{"nested": "x"},
			"aadhaar", []any{"1234"},
		)}, testProcessedAt)
		assert.Empty(t, records[0].Phone)
		assert.Empty(t, records[0].BankAccount)
		assert.Empty(t, records[0].AadhaarLast4)
	})

	t.Run("keeps original fields untouched", func(t *testing.T) {
		in := raw("Name", "Ravi", "Extra Column", "kept")
		records := engine.Normalize([]RawRecord{in}, testProcessedAt)
		assert.Equal(t, in, records[0].OriginalFields)
	})
}

func TestNormalizeCoordinates(t *testing.T) {
	engine := MustNewEngine(DefaultRules())

	tests := []struct {
		name  string
		value any
		want  *float64
	}{
		{name: "decimal string", value: "12.5", want: coord(12.5)},
		{name: "padded string", value: "  -33.86 ", want: coord(-33.86)},
		{name: "leading numeric prefix", value: "12.97N", want: coord(12.97)},
		{name: "exponent", value: "1.5e1", want: coord(15)},
		{name: "json number", value: json.Number("77.59"), want: coord(77.59)},
		{name: "float", value: 0.25, want: coord(0.25)},
		{name: "zero is a coordinate", value: "0", want: coord(0)},
		{name: "garbage", value: "north", want: nil},
		{name: "empty", value: "", want: nil},
		{name: "infinity", value: "Infinity", want: nil},
		{name: "overflow", value: "1e999", want: nil},
		{name: "boolean", value: true, want: nil},
		{name: "null", value: nil, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := engine.Normalize([]RawRecord{raw("lat", tt.value)}, testProcessedAt)
			if tt.want == nil {
				assert.Nil(t, records[0].GPSLat)
				return
			}
			require.NotNil(t, records[0].GPSLat)
			assert.InDelta(t, *tt.want, *records[0].GPSLat, 1e-9)
		})
	}
}

func TestWithAliases(t *testing.T) {
	aliases := DefaultAliases()
	aliases.Phone = append(aliases.Phone, "contact")
	engine := MustNewEngine(DefaultRules(), WithAliases(aliases))

	aliases.Phone[0] = "mutated-after-construction"

	records := engine.Normalize([]RawRecord{raw("Contact", "555", "phone", "777")}, testProcessedAt)
	assert.Equal(t, "777", records[0].Phone, "phone keeps priority over later aliases")

	records = engine.Normalize([]RawRecord{raw("Contact", "555")}, testProcessedAt)
	assert.Equal(t, "555", records[0].Phone)
}
