package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/cutbuddy/internal/measure"
	"github.com/piwi3910/cutbuddy/internal/model"
)

// LabelInfo holds the data encoded into each piece label's QR code.
// Lengths are inches.
type LabelInfo struct {
	Label       string  `json:"label"`
	Length      float64 `json:"length_in"`
	BinIndex    int     `json:"bin"`
	StockLength float64 `json:"stock_in"`
	Offset      float64 `json:"offset_in"`
	Sequence    int     `json:"seq"` // 1-based position of the cut within its bin
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates a PDF of QR-coded labels, one per cut piece in the
// solved plan of p, laid out on Avery 5160 sheets (3 x 10 on US Letter).
func ExportLabels(path string, p model.Project, unit measure.Unit) error {
	if p.Result == nil {
		return ErrNoResult
	}

	labels := CollectLabelInfos(p)
	if len(labels) == 0 {
		return fmt.Errorf("no cuts placed to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label, unit); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.Label, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo, unit measure.Unit) error {
	// Light border as a cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%d_%d", info.BinIndex, info.Sequence)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)

	name := info.Label
	if pdf.GetStringWidth(name) > textW {
		for len(name) > 0 && pdf.GetStringWidth(name+"...") > textW {
			name = name[:len(name)-1]
		}
		name += "..."
	}
	pdf.CellFormat(textW, 4.5, name, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 3.5, measure.Format(info.Length, unit), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9.5)
	binInfo := fmt.Sprintf("Bin %d, cut %d @ %s", info.BinIndex, info.Sequence, measure.Value(info.Offset, unit))
	pdf.CellFormat(textW, 3, binInfo, "", 1, "L", false, 0, "")

	pdf.SetXY(textX, y+labelPadding+13)
	pdf.CellFormat(textW, 3, "Stock "+measure.Format(info.StockLength, unit), "", 0, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)

	return nil
}

// CollectLabelInfos lists one label per placed cut in bin order. Labels come
// from the project's cut list; unmatched lengths get a generic name.
func CollectLabelInfos(p model.Project) []LabelInfo {
	if p.Result == nil {
		return nil
	}
	var labels []LabelInfo
	for binIdx, bin := range p.Result.Bins {
		offsets := bin.Offsets(p.Settings.Kerf)
		for i, c := range bin.Cuts {
			name := p.LabelFor(c)
			if name == "" {
				name = fmt.Sprintf("Piece %d-%d", binIdx+1, i+1)
			}
			labels = append(labels, LabelInfo{
				Label:       name,
				Length:      c,
				BinIndex:    binIdx + 1,
				StockLength: bin.StockLength,
				Offset:      model.Round(offsets[i], 6),
				Sequence:    i + 1,
			})
		}
	}
	return labels
}
