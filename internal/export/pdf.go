// Package export writes solved cut plans to PDF diagrams, QR-coded piece
// labels and Excel workbooks.
package export

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/cutbuddy/internal/measure"
	"github.com/piwi3910/cutbuddy/internal/model"
)

// ErrNoResult is returned when a project has not been solved yet.
var ErrNoResult = errors.New("project has no solved plan to export")

// cutColor represents an RGB color for a cut segment.
type cutColor struct {
	R, G, B int
}

// cutColors mirrors the color scheme used in the UI results view.
var cutColors = []cutColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 5.0
	barHeight    = 10.0
	binBlock     = 30.0 // vertical space per bin: caption, bar, legend
	binsPerPage  = 5
)

// ExportPDF writes the solved plan of p to a PDF file. Bins are drawn as
// scaled bars, several per page, followed by a summary page.
func ExportPDF(path string, p model.Project, unit measure.Unit) error {
	pdf, err := buildPDF(p, unit)
	if err != nil {
		return err
	}
	return pdf.OutputFileAndClose(path)
}

// WritePDF renders the same document as ExportPDF into w.
func WritePDF(w io.Writer, p model.Project, unit measure.Unit) error {
	pdf, err := buildPDF(p, unit)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

func buildPDF(p model.Project, unit measure.Unit) (*fpdf.Fpdf, error) {
	if p.Result == nil {
		return nil, ErrNoResult
	}
	report := *p.Result
	if len(report.Bins) == 0 {
		return nil, fmt.Errorf("no bins to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	scale := (pageWidth - marginLeft - marginRight) / longestStock(report.Bins)

	for i, bin := range report.Bins {
		slot := i % binsPerPage
		if slot == 0 {
			pdf.AddPage()
			renderPageHeader(pdf, p, i/binsPerPage+1, pageCount(len(report.Bins)))
		}
		y := drawAreaTop + float64(slot)*binBlock
		renderBin(pdf, p, bin, i+1, unit, scale, y)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, p, unit)

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("rendering PDF: %w", err)
	}
	return pdf, nil
}

func pageCount(bins int) int {
	return (bins + binsPerPage - 1) / binsPerPage
}

// renderPageHeader draws the project title on a diagram page.
func renderPageHeader(pdf *fpdf.Fpdf, p model.Project, page, pages int) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%s: cut diagram %d of %d", p.Name, page, pages)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")
}

// renderBin draws a single bin as a horizontal bar with its cuts, kerf gaps
// and trailing waste.
func renderBin(pdf *fpdf.Fpdf, p model.Project, bin model.Bin, binNum int, unit measure.Unit, scale, y float64) {
	kerf := p.Settings.Kerf

	// Caption
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	caption := fmt.Sprintf("Bin %d: %s stock | %d cuts | used %s | remaining %s",
		binNum, measure.Format(bin.StockLength, unit), len(bin.Cuts),
		measure.Format(bin.Used, unit), measure.Format(bin.Remaining, unit))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, caption, "", 0, "L", false, 0, "")

	barY := y + 6
	canvasW := bin.StockLength * scale

	// Stock background (wood color)
	pdf.SetFillColor(210, 180, 140)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.4)
	pdf.Rect(marginLeft, barY, canvasW, barHeight, "FD")

	offsets := bin.Offsets(kerf)
	for i, c := range bin.Cuts {
		col := cutColors[i%len(cutColors)]
		cx := marginLeft + offsets[i]*scale
		cw := c * scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.2)
		pdf.Rect(cx, barY, cw, barHeight, "FD")

		if cw > 12 {
			text := measure.Value(c, unit)
			pdf.SetFont("Helvetica", "", labelFontSize(cw))
			tw := pdf.GetStringWidth(text)
			if tw < cw-1 {
				pdf.SetXY(cx+(cw-tw)/2, barY+barHeight/2-2)
				pdf.CellFormat(tw, 4, text, "", 0, "C", false, 0, "")
			}
		}
	}

	// Waste after the last cut and its kerf
	wasteStart := bin.Used
	if len(bin.Cuts) > 0 {
		wasteStart += kerf
	}
	if wasteW := (bin.StockLength - wasteStart) * scale; wasteW > 0.5 {
		drawHatchPattern(pdf, marginLeft+wasteStart*scale, barY, wasteW, barHeight)
	}

	drawCutLegend(pdf, p, bin, unit, barY+barHeight+2)
}

// drawHatchPattern draws diagonal lines inside a rectangle to mark waste.
func drawHatchPattern(pdf *fpdf.Fpdf, x, y, w, h float64) {
	pdf.SetDrawColor(160, 60, 60)
	pdf.SetLineWidth(0.15)

	spacing := 2.5
	maxDist := w + h

	for d := spacing; d < maxDist; d += spacing {
		x1 := x + math.Max(0, d-h)
		y1 := y + math.Min(h, d)
		x2 := x + math.Min(w, d)
		y2 := y + math.Max(0, d-w)

		pdf.Line(x1, y1, x2, y2)
	}
}

// drawCutLegend renders a compact legend of the cuts in a bin under its bar.
func drawCutLegend(pdf *fpdf.Fpdf, p model.Project, bin model.Bin, unit measure.Unit, startY float64) {
	if len(bin.Cuts) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(0, 0, 0)
	xPos := marginLeft
	maxX := pageWidth - marginRight

	for i, c := range bin.Cuts {
		col := cutColors[i%len(cutColors)]
		label := measure.Format(c, unit)
		if name := p.LabelFor(c); name != "" {
			label = fmt.Sprintf("%s (%s)", name, label)
		}
		labelW := pdf.GetStringWidth(label) + 6

		// Legends longer than one line are truncated
		if xPos+labelW > maxX {
			pdf.SetXY(xPos, startY)
			pdf.CellFormat(10, 4, "...", "", 0, "L", false, 0, "")
			return
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the final summary page with overall statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, p model.Project, unit measure.Unit) {
	report := *p.Result

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Cut Plan Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []keyValue{
		{"Bins Used", fmt.Sprintf("%d", report.BinCount)},
		{"Cuts Placed", fmt.Sprintf("%d", report.CutCount())},
		{"Stock Purchased", measure.Format(report.TotalStockLength, unit)},
		{"Used Length", measure.Format(report.TotalUsed, unit)},
		{"Waste", fmt.Sprintf("%s (%.1f%%)", measure.Format(report.TotalWaste, unit), report.WastePercent())},
		{"Kerf Loss", measure.Format(report.TotalKerfLoss, unit)},
		{"Utilization", fmt.Sprintf("%.1f%%", report.Utilization*100)},
	}
	y = drawKeyValues(pdf, summaryItems, y)
	y += 5

	// Diagnostics
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Solver Diagnostics", "", 0, "L", false, 0, "")
	y += 9

	mode := string(report.Mode)
	if mode == "" {
		mode = "exact"
	}
	diagItems := []keyValue{
		{"Mode", mode},
		{"Termination", string(report.Termination)},
		{"Optimality", string(report.Optimality)},
		{"Explored Nodes", fmt.Sprintf("%d", report.ExploredNodes)},
		{"Elapsed", fmt.Sprintf("%.1f ms", report.ElapsedMs)},
		{"Kerf", measure.Format(p.Settings.Kerf, unit)},
	}
	y = drawKeyValues(pdf, diagItems, y)
	y += 5

	// Purchase list
	est := model.EstimateCost(report.Solution, p.Stocks)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Purchase List", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{50, 30, 40, 40}
	headers := []string{"Stock Length", "Count", "Unit Price", "Cost"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, line := range est.Lines {
		xPos = marginLeft
		price, cost := "-", "-"
		if line.UnitPrice > 0 {
			price = fmt.Sprintf("%.2f", line.UnitPrice)
			cost = fmt.Sprintf("%.2f", line.Cost)
		}
		rowData := []string{
			measure.Format(line.StockLength, unit),
			fmt.Sprintf("%d", line.Count),
			price,
			cost,
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	if est.EstimatedCost > 0 {
		y += 3
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(120, 6, fmt.Sprintf("Estimated cost: %.2f", est.EstimatedCost), "", 0, "L", false, 0, "")
	}

	// Footer
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by CutBuddy - Linear Cut List Optimizer", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

type keyValue struct {
	label string
	value string
}

// drawKeyValues writes a two-column list and returns the next free y.
func drawKeyValues(pdf *fpdf.Fpdf, items []keyValue, y float64) float64 {
	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(80, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}
	return y
}

// labelFontSize returns a font size that fits a cut segment of width w.
func labelFontSize(w float64) float64 {
	switch {
	case w > 40:
		return 8
	case w > 20:
		return 7
	default:
		return 6
	}
}

// longestStock returns the longest stock length among bins, used to scale
// every bar on the same axis.
func longestStock(bins []model.Bin) float64 {
	longest := 1.0
	for _, b := range bins {
		if b.StockLength > longest {
			longest = b.StockLength
		}
	}
	return longest
}
