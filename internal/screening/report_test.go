package screening

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReportFlagQueries(t *testing.T) {
	raws := []RawRecord{
		raw("name", "A", "aadhaar", "1111", "phone", "9000000001"),
		raw("name", "B", "aadhaar", "1111", "phone", "9000000002"),
		raw(),
	}
	report := &Report{Outcome: defaultEngine.Screen(raws, testProcessedAt)}

	counts := report.FlagCounts()
	assert.Equal(t, 2, counts[FlagDuplicateAadhaar])
	assert.Equal(t, 1, counts[FlagInsufficientData])
	assert.Zero(t, counts[FlagGPSCluster])

	dups := report.FlagsOfType(FlagDuplicateAadhaar)
	if assert.Len(t, dups, 2) {
		assert.Equal(t, "001", dups[0].ApplicationID)
		assert.Equal(t, "002", dups[1].ApplicationID)
	}
	assert.NotNil(t, report.FlagsOfType(FlagGPSCluster))
	assert.Empty(t, report.FlagsOfType(FlagGPSCluster))
}
