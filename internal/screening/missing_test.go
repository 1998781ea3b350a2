package screening

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectMissing(t *testing.T) {
	rules := DefaultRules().Missing

	tests := []struct {
		name      string
		rec       ApplicationRecord
		wantFlag  bool
		wantCount int
	}{
		{"nothing present", record("001"), true, 0},
		{"phone only", record("001", withPhone("1")), true, 1},
		{"gps pair only", record("001", withGPS(1, 1)), true, 1},
		{"phone and bank", record("001", withPhone("1"), withBank("2")), false, 2},
		{"aadhaar and gps", record("001", withAadhaar("1"), withGPS(1, 1)), false, 2},
		{"everything", record("001", withAadhaar("1"), withBank("2"), withPhone("3"), withGPS(1, 1)), false, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCount, verifiableFields(tt.rec))
			flags := detectMissing([]ApplicationRecord{tt.rec}, rules)
			if !tt.wantFlag {
				assert.Empty(t, flags)
				return
			}
			require.Len(t, flags, 1)
			assert.Equal(t, FlagInsufficientData, flags[0].Type)
			assert.Equal(t, 100, flags[0].Confidence)
			assert.Empty(t, flags[0].RelatedTo)
			assert.NotNil(t, flags[0].RelatedTo)
		})
	}

	t.Run("half a gps pair does not count", func(t *testing.T) {
		rec := record("001", withPhone("1"))
		rec.GPSLong = coord(77)
		assert.Equal(t, 1, verifiableFields(rec))
	})
}
