package widgets

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/cutbuddy/internal/gcode"
	"github.com/piwi3910/cutbuddy/internal/model"
)

// Preview colors for the stop track.
var (
	colorRapid = color.NRGBA{R: 255, G: 60, B: 60, A: 200}  // Red for rapid moves
	colorFeed  = color.NRGBA{R: 30, G: 120, B: 255, A: 230} // Blue for feed moves
	colorStop  = color.NRGBA{R: 50, G: 160, B: 50, A: 255}  // Green where the saw fires
	colorTrack = color.NRGBA{R: 230, G: 210, B: 175, A: 255}
)

const (
	trackHeight = 18
	moveRow     = 8
)

// StopPreview renders the stop positions of one bar's program above a
// scaled stock bar, with the positioning moves drawn as a track underneath.
type StopPreview struct {
	widget.BaseWidget
	moves     []gcode.GCodeMove
	stops     []float64
	length    float64 // bar length in program units
	maxWidth  float32
	maxHeight float32
}

func NewStopPreview(moves []gcode.GCodeMove, stops []float64, length float64, maxW, maxH float32) *StopPreview {
	sp := &StopPreview{
		moves:     moves,
		stops:     stops,
		length:    length,
		maxWidth:  maxW,
		maxHeight: maxH,
	}
	sp.ExtendBaseWidget(sp)
	return sp
}

// CreateRenderer implements fyne.Widget.
func (sp *StopPreview) CreateRenderer() fyne.WidgetRenderer {
	return newStopPreviewRenderer(sp)
}

func (sp *StopPreview) scale() float32 {
	if sp.length <= 0 {
		return 1
	}
	return sp.maxWidth / float32(sp.length)
}

type stopPreviewRenderer struct {
	sp      *StopPreview
	objects []fyne.CanvasObject
}

func newStopPreviewRenderer(sp *StopPreview) *stopPreviewRenderer {
	r := &stopPreviewRenderer{sp: sp}
	r.rebuild()
	return r
}

func (r *stopPreviewRenderer) rebuild() {
	r.objects = nil

	sp := r.sp
	if sp.length <= 0 {
		return
	}
	scale := sp.scale()
	barW := float32(sp.length) * scale

	bar := canvas.NewRectangle(colorTrack)
	bar.Resize(fyne.NewSize(barW, trackHeight))
	r.objects = append(r.objects, bar)

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.NRGBA{R: 80, G: 80, B: 80, A: 255}
	border.StrokeWidth = 1
	border.Resize(fyne.NewSize(barW, trackHeight))
	r.objects = append(r.objects, border)

	for i, stop := range sp.stops {
		x := float32(stop) * scale
		tick := canvas.NewLine(colorStop)
		tick.StrokeWidth = 2
		tick.Position1 = fyne.NewPos(x, 0)
		tick.Position2 = fyne.NewPos(x, trackHeight)
		r.objects = append(r.objects, tick)

		label := canvas.NewText(fmt.Sprintf("%d", i+1), colorStop)
		label.TextSize = 9
		label.Move(fyne.NewPos(x+2, trackHeight+1))
		r.objects = append(r.objects, label)
	}

	y := float32(trackHeight + 14)
	for _, m := range sp.moves {
		if m.FromX == m.ToX {
			continue
		}
		col := colorFeed
		width := float32(2)
		if m.Type == gcode.MoveRapid {
			col = colorRapid
			width = 1
		}
		line := canvas.NewLine(col)
		line.StrokeWidth = width
		line.Position1 = fyne.NewPos(float32(m.FromX)*scale, y)
		line.Position2 = fyne.NewPos(float32(m.ToX)*scale, y)
		r.objects = append(r.objects, line)
		y += moveRow
		if y > sp.maxHeight {
			break
		}
	}
}

func (r *stopPreviewRenderer) Layout(size fyne.Size)        {}
func (r *stopPreviewRenderer) Refresh()                     { r.rebuild() }
func (r *stopPreviewRenderer) Destroy()                     {}
func (r *stopPreviewRenderer) Objects() []fyne.CanvasObject { return r.objects }

func (r *stopPreviewRenderer) MinSize() fyne.Size {
	sp := r.sp
	if sp.length <= 0 {
		return fyne.NewSize(100, trackHeight)
	}
	h := float32(trackHeight+14) + float32(len(sp.moves))*moveRow
	if h > sp.maxHeight {
		h = sp.maxHeight
	}
	return fyne.NewSize(float32(sp.length)*sp.scale(), h)
}

// RenderGCodePreview generates the program for one bin, reads it back and
// shows where the stop sits for every cut.
func RenderGCodePreview(bin model.Bin, binIndex int, settings model.Settings) fyne.CanvasObject {
	gen := gcode.New(settings)
	profile := gen.Profile()
	code := gen.GenerateBin(bin, binIndex+1)

	var stops []float64
	if groups := gcode.StopPositions(code, profile); len(groups) > 0 {
		stops = groups[0]
	}
	length := bin.StockLength
	if profile.Units == "mm" {
		length *= 25.4
	}

	preview := NewStopPreview(gcode.ParseGCode(code), stops, length, 700, 220)
	source := widget.NewMultiLineEntry()
	source.SetText(code)
	source.Disable()

	return container.NewBorder(
		container.NewVBox(
			widget.NewLabel(fmt.Sprintf("Bin %d on %s: %d stops", binIndex+1, profile.Name, len(stops))),
			preview,
		),
		nil, nil, nil,
		container.NewVScroll(source),
	)
}
