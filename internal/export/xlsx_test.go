package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"fraudscreen/internal/screening"
)

func TestWriteXLSX(t *testing.T) {
	raw := []screening.RawRecord{
		{{Key: "name", Value: "Asha"}, {Key: "aadhaar", Value: "1111"}, {Key: "lat", Value: "28.5"}, {Key: "long", Value: "77.1"}},
		{{Key: "name", Value: "Ravi"}, {Key: "aadhaar", Value: "1111"}, {Key: "phone", Value: "98765"}},
	}
	processedAt := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	outcome := screening.MustNewEngine(screening.DefaultRules()).Screen(raw, processedAt)

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, outcome))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{ResultsSheet, SummarySheet}, f.GetSheetList())

	rows, err := f.GetRows(ResultsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "001", rows[1][0])
	assert.Equal(t, "Asha", rows[1][1])
	assert.Equal(t, "28.5", rows[1][6])
	assert.Equal(t, "High", rows[1][8])
	assert.Equal(t, "DUPLICATE_AADHAAR", rows[1][10])
	assert.Contains(t, rows[1][11], "Aadhaar 1111 appears in 2 applications")

	total, err := f.GetCellValue(SummarySheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "2", total)
}

func TestWriteXLSXEmptyOutcome(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, screening.Outcome{Results: []screening.Result{}}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	rows, err := f.GetRows(ResultsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
