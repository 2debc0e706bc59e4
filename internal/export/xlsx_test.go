package export

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/cutbuddy/internal/measure"
)

func TestExportExcel_PlanAndSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.xlsx")
	require.NoError(t, ExportExcel(path, buildTestProject(), measure.Inches))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Plan", "Summary"}, f.GetSheetList())

	rows, err := f.GetRows("Plan")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Bin", rows[0][0])
	assert.Equal(t, "144", rows[1][1])
	assert.Equal(t, "60, 60", rows[1][3])
	assert.Equal(t, "Rail, Rail", rows[1][6])

	summary, err := f.GetRows("Summary")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bins Used", "3"}, summary[2])
	assert.Equal(t, []string{"Optimality", "proven_optimal"}, summary[10])
}

func TestWriteExcel_Metric(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteExcel(&buf, buildTestProject(), measure.Millimeters))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue("Plan", "B2")
	require.NoError(t, err)
	assert.Equal(t, "3657.6", v)

	h, err := f.GetCellValue("Plan", "B1")
	require.NoError(t, err)
	assert.Equal(t, "Stock (mm)", h)
}

func TestExportExcel_NoResult(t *testing.T) {
	p := buildTestProject()
	p.Result = nil
	assert.ErrorIs(t, ExportExcel(filepath.Join(t.TempDir(), "x.xlsx"), p, measure.Inches), ErrNoResult)
}
