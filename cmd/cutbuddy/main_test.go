package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/cutbuddy/internal/measure"
	"github.com/piwi3910/cutbuddy/internal/model"
)

func TestParseLengths(t *testing.T) {
	got, err := parseLengths("34 1/2, 8 ft,, 60", measure.Inches)
	require.NoError(t, err)
	assert.Equal(t, []float64{34.5, 96, 60}, got)

	_, err = parseLengths("34, banana", measure.Inches)
	assert.Error(t, err)
}

func TestParseKerf(t *testing.T) {
	k, err := parseKerf("0", measure.Inches)
	require.NoError(t, err)
	assert.Zero(t, k)

	k, err = parseKerf("3.175", measure.Millimeters)
	require.NoError(t, err)
	assert.InDelta(t, 0.125, k, 1e-9)

	_, err = parseKerf("-0.1", measure.Inches)
	assert.Error(t, err)
}

func TestLoadRequest(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "req.json")
	require.NoError(t, os.WriteFile(jsonPath,
		[]byte(`{"cuts":[52,48],"stockLengths":[96],"kerf":0.125,"timeBudgetMs":100}`), 0644))
	req, err := loadRequest(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, []float64{52, 48}, req.Cuts)
	assert.Equal(t, int64(100), req.TimeBudgetMs)

	yamlPath := filepath.Join(dir, "req.yaml")
	require.NoError(t, os.WriteFile(yamlPath,
		[]byte("cuts: [52, 48]\nstockLengths: [96, 120]\nkerf: 0.0625\ntimeBudgetMs: 0\n"), 0644))
	req, err = loadRequest(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, []float64{96, 120}, req.StockLengths)
	assert.Equal(t, 0.0625, req.Kerf)

	emptyPath := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(emptyPath, []byte("  "), 0644))
	_, err = loadRequest(emptyPath)
	assert.Error(t, err)
}

func TestProjectFromRequest(t *testing.T) {
	req := model.Request{Cuts: []float64{24, 36, 24}, StockLengths: []float64{96}, Kerf: 0.125}
	report := model.Report{Termination: model.TerminationCompleted}

	p := projectFromRequest("bench", req, model.DefaultSettings(), measure.Inches, report)
	require.Len(t, p.Cuts, 2)
	assert.Equal(t, 24.0, p.Cuts[0].Length)
	assert.Equal(t, 2, p.Cuts[0].Quantity)
	assert.Equal(t, "24 in", p.Cuts[0].Label)
	require.Len(t, p.Stocks, 1)
	require.NotNil(t, p.Result)
	assert.Equal(t, model.TerminationCompleted, p.Result.Termination)
	assert.Equal(t, 1, p.Cuts[1].Quantity)
}

func TestWriteReportText(t *testing.T) {
	r := model.Report{
		Solution: model.Solution{
			Bins:             []model.Bin{{StockLength: 96, Cuts: []float64{48, 47.875}, Used: 96, Remaining: 0}},
			BinCount:         1,
			TotalStockLength: 96,
			TotalUsed:        96,
			Utilization:      1,
		},
		Termination: model.TerminationCompleted,
		Optimality:  model.OptimalityProven,
	}
	var buf bytes.Buffer
	require.NoError(t, writeReportText(&buf, r, measure.Inches))
	out := buf.String()
	assert.Contains(t, out, "48 in, 47 7/8 in")
	assert.Contains(t, out, "1 bins, 96 in stock")
	assert.Contains(t, out, "completed, proven_optimal")
}

func TestSolveCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{
		"--config", filepath.Join(t.TempDir(), "config.json"),
		"solve",
		"--cut", "52, 48, 48, 45, 36, 24, 24",
		"--stock", "96, 120",
		"--kerf", "0.125",
		"--budget", "3000",
		"--mode", "exact",
	})
	require.NoError(t, rootCmd.Execute())

	var report model.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, model.TerminationCompleted, report.Termination)
	assert.Equal(t, model.OptimalityProven, report.Optimality)
	assert.Equal(t, 7, report.CutCount())
	assert.Positive(t, report.ExploredNodes)
}

func TestParseCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{
		"--config", filepath.Join(t.TempDir(), "config.json"),
		"parse", "--unit", "inches", "5", "feet", "6", "inches",
	})
	require.NoError(t, rootCmd.Execute())

	var got parsedLength
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 66.0, got.Inches)
	assert.True(t, strings.HasSuffix(got.Formatted, "in"))
}
