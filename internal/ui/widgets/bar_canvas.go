package widgets

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/cutbuddy/internal/measure"
	"github.com/piwi3910/cutbuddy/internal/model"
)

// Cut colors cycle through these for visual distinction.
var cutColors = []color.NRGBA{
	{R: 76, G: 175, B: 80, A: 200},  // green
	{R: 33, G: 150, B: 243, A: 200}, // blue
	{R: 255, G: 152, B: 0, A: 200},  // orange
	{R: 156, G: 39, B: 176, A: 200}, // purple
	{R: 0, G: 188, B: 212, A: 200},  // cyan
	{R: 244, G: 67, B: 54, A: 200},  // red
	{R: 255, G: 235, B: 59, A: 200}, // yellow
	{R: 121, G: 85, B: 72, A: 200},  // brown
}

var (
	colorStock = color.NRGBA{R: 210, G: 180, B: 140, A: 255} // wood
	colorKerf  = color.NRGBA{R: 40, G: 40, B: 40, A: 255}
	colorWaste = color.NRGBA{R: 190, G: 190, B: 190, A: 255}
)

// BarCanvas renders one bin as a horizontal bar scaled against the longest
// stock in the plan, so bars of different lengths line up.
type BarCanvas struct {
	widget.BaseWidget
	bin      model.Bin
	kerf     float64
	longest  float64
	labelFor func(float64) string
	maxWidth float32
	height   float32
}

func NewBarCanvas(bin model.Bin, kerf, longest float64, labelFor func(float64) string, maxW, h float32) *BarCanvas {
	if longest <= 0 {
		longest = bin.StockLength
	}
	bc := &BarCanvas{
		bin:      bin,
		kerf:     kerf,
		longest:  longest,
		labelFor: labelFor,
		maxWidth: maxW,
		height:   h,
	}
	bc.ExtendBaseWidget(bc)
	return bc
}

func (bc *BarCanvas) CreateRenderer() fyne.WidgetRenderer {
	return newBarCanvasRenderer(bc)
}

func (bc *BarCanvas) scale() float32 {
	if bc.longest <= 0 {
		return 1
	}
	return bc.maxWidth / float32(bc.longest)
}

type barCanvasRenderer struct {
	bc      *BarCanvas
	objects []fyne.CanvasObject
}

func newBarCanvasRenderer(bc *BarCanvas) *barCanvasRenderer {
	r := &barCanvasRenderer{bc: bc}
	r.rebuild()
	return r
}

func (r *barCanvasRenderer) rebuild() {
	r.objects = nil

	bin := r.bc.bin
	scale := r.bc.scale()
	barW := float32(bin.StockLength) * scale
	barH := r.bc.height

	bg := canvas.NewRectangle(colorStock)
	bg.Resize(fyne.NewSize(barW, barH))
	r.objects = append(r.objects, bg)

	offsets := bin.Offsets(r.bc.kerf)
	for i, cut := range bin.Cuts {
		x := float32(offsets[i]) * scale
		w := float32(cut) * scale

		rect := canvas.NewRectangle(cutColors[i%len(cutColors)])
		rect.Resize(fyne.NewSize(w, barH))
		rect.Move(fyne.NewPos(x, 0))
		r.objects = append(r.objects, rect)

		if i < len(bin.Cuts)-1 && r.bc.kerf > 0 {
			kw := float32(r.bc.kerf) * scale
			if kw < 1 {
				kw = 1
			}
			k := canvas.NewRectangle(colorKerf)
			k.Resize(fyne.NewSize(kw, barH))
			k.Move(fyne.NewPos(x+w, 0))
			r.objects = append(r.objects, k)
		}

		text := fmt.Sprintf("%g", model.Round(cut, 3))
		if r.bc.labelFor != nil {
			if l := r.bc.labelFor(cut); l != "" {
				text = l + " " + text
			}
		}
		if w > 30 {
			label := canvas.NewText(text, color.Black)
			label.TextSize = 10
			label.Move(fyne.NewPos(x+3, barH/2-7))
			r.objects = append(r.objects, label)
		}
	}

	if bin.Remaining > model.Epsilon {
		wx := float32(bin.Used) * scale
		ww := float32(bin.Remaining) * scale
		waste := canvas.NewRectangle(colorWaste)
		waste.Resize(fyne.NewSize(ww, barH))
		waste.Move(fyne.NewPos(wx, 0))
		r.objects = append(r.objects, waste)
	}

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	border.StrokeWidth = 1
	border.Resize(fyne.NewSize(barW, barH))
	r.objects = append(r.objects, border)
}

func (r *barCanvasRenderer) Layout(size fyne.Size)        {}
func (r *barCanvasRenderer) Refresh()                     { r.rebuild() }
func (r *barCanvasRenderer) Destroy()                     {}
func (r *barCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *barCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(float32(r.bc.bin.StockLength)*r.bc.scale(), r.bc.height)
}

// RenderBinResults creates a scrollable list of every bin in the project's
// last report followed by the stock breakdown and totals.
func RenderBinResults(p model.Project, unit measure.Unit) fyne.CanvasObject {
	if p.Result == nil || len(p.Result.Bins) == 0 {
		return widget.NewLabel("No results yet. Add cuts and stock, then click Solve.")
	}
	report := *p.Result

	longest := 0.0
	for _, b := range report.Bins {
		if b.StockLength > longest {
			longest = b.StockLength
		}
	}

	var items []fyne.CanvasObject
	for i, bin := range report.Bins {
		header := widget.NewLabel(fmt.Sprintf(
			"Bin %d: %s stock, %d cuts, %s remaining",
			i+1, measure.Format(bin.StockLength, unit), len(bin.Cuts), measure.Format(bin.Remaining, unit),
		))
		header.TextStyle = fyne.TextStyle{Bold: true}
		bar := NewBarCanvas(bin, p.Settings.Kerf, longest, p.LabelFor, 700, 28)
		items = append(items, header, bar, widget.NewSeparator())
	}

	if lines := StockBreakdown(report, unit); len(lines) > 1 {
		breakdownHeader := widget.NewLabel("Stock Breakdown:")
		breakdownHeader.TextStyle = fyne.TextStyle{Bold: true}
		items = append(items, breakdownHeader)
		for _, line := range lines {
			items = append(items, widget.NewLabel(line))
		}
	}

	summary := widget.NewLabel(SummaryLine(report, p.Stocks))
	summary.TextStyle = fyne.TextStyle{Bold: true}
	items = append(items, summary)

	return container.NewVScroll(container.NewVBox(items...))
}

// SummaryLine describes a report in one line, including the estimated
// cost when any stock carries a price.
func SummaryLine(report model.Report, stocks []model.StockItem) string {
	text := fmt.Sprintf(
		"Total: %d bins, %.1f%% utilization, %s, %s",
		report.BinCount, report.Utilization*100, report.Termination, report.Optimality,
	)
	est := model.EstimateCost(report.Solution, stocks)
	if est.EstimatedCost > 0 {
		text += fmt.Sprintf(" | Estimated material cost: %.2f", est.EstimatedCost)
	}
	return text
}

// StockBreakdown groups bins by stock length, in first-seen order, and
// reports the count, cuts and utilization of each group.
func StockBreakdown(report model.Report, unit measure.Unit) []string {
	if len(report.Bins) == 0 {
		return nil
	}

	type lengthStats struct {
		count int
		cuts  int
		used  float64
		total float64
	}

	var order []float64
	stats := make(map[float64]*lengthStats)
	for _, b := range report.Bins {
		s, ok := stats[b.StockLength]
		if !ok {
			s = &lengthStats{}
			stats[b.StockLength] = s
			order = append(order, b.StockLength)
		}
		s.count++
		s.cuts += len(b.Cuts)
		s.used += b.Used
		s.total += b.StockLength
	}

	lines := make([]string, 0, len(order))
	for _, length := range order {
		s := stats[length]
		util := 0.0
		if s.total > 0 {
			util = s.used / s.total * 100
		}
		lines = append(lines, fmt.Sprintf(
			"  %s: %d bar(s), %d cuts, %.1f%% utilization",
			measure.Format(length, unit), s.count, s.cuts, util,
		))
	}
	return lines
}
