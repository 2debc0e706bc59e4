package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/cutbuddy/internal/measure"
	"github.com/piwi3910/cutbuddy/internal/model"
)

func TestExportLabels_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "labels.pdf")

	if err := ExportLabels(path, buildTestProject(), measure.Inches); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("PDF file is empty")
	}
}

func TestExportLabels_NoResult(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "labels.pdf")

	p := buildTestProject()
	p.Result = nil
	if err := ExportLabels(path, p, measure.Inches); err != ErrNoResult {
		t.Fatalf("expected ErrNoResult, got %v", err)
	}
}

func TestExportLabels_NoCuts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "labels.pdf")

	p := buildTestProject()
	p.Result = &model.Report{}
	if err := ExportLabels(path, p, measure.Inches); err == nil {
		t.Fatal("expected error for plan with no cuts, got nil")
	}
}

func TestCollectLabelInfos(t *testing.T) {
	labels := CollectLabelInfos(buildTestProject())

	if len(labels) != 6 {
		t.Fatalf("expected 6 labels, got %d", len(labels))
	}

	if labels[0].Label != "Rail" || labels[0].Length != 60 {
		t.Errorf("unexpected first label %+v", labels[0])
	}
	if labels[0].BinIndex != 1 || labels[0].Sequence != 1 || labels[0].Offset != 0 {
		t.Errorf("unexpected first label position %+v", labels[0])
	}
	// Second cut starts after the first cut and one kerf
	if labels[1].Offset != 60.125 {
		t.Errorf("expected offset 60.125, got %f", labels[1].Offset)
	}
	if labels[2].Label != "Leg" || labels[2].BinIndex != 2 || labels[2].StockLength != 96 {
		t.Errorf("unexpected third label %+v", labels[2])
	}
}

func TestCollectLabelInfos_UnknownLength(t *testing.T) {
	p := buildTestProject()
	p.Cuts = nil

	labels := CollectLabelInfos(p)
	if labels[3].Label != "Piece 2-2" {
		t.Errorf("expected generated name, got %q", labels[3].Label)
	}
}

func TestLabelInfo_JSONKeys(t *testing.T) {
	data, err := json.Marshal(LabelInfo{Label: "Leg", Length: 34.5, BinIndex: 2, StockLength: 96, Offset: 34.625, Sequence: 2})
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	for _, key := range []string{"label", "length_in", "bin", "stock_in", "offset_in", "seq"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing key %q in %s", key, data)
		}
	}
}

func TestExportLabels_ManyCuts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "many_labels.pdf")

	p := buildTestProject()
	cuts := make([]float64, 35)
	for i := range cuts {
		cuts[i] = 2
	}
	p.Result.Bins = []model.Bin{{StockLength: 96, Cuts: cuts, Used: 74.25, Remaining: 21.75}}

	if err := ExportLabels(path, p, measure.Centimeters); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}
}
