package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/cutbuddy/internal/measure"
	"github.com/piwi3910/cutbuddy/internal/model"
)

// point is a 2D drawing coordinate.
type point struct {
	X, Y float64
}

// segment is one drawn piece of a path with its own arc length.
type segment struct {
	start  point
	end    point
	length float64
}

// ImportDXF imports cuts from a DXF drawing. Every LWPOLYLINE and every
// chain of connected LINE and ARC entities is one member, and its cut length
// is the path length along the drawing. Coordinates are read in unit.
func ImportDXF(path string, unit measure.Unit) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var lengths []float64
	var segments []segment

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			if len(e.Vertices) < 2 {
				result.Warnings = append(result.Warnings,
					"Skipped LWPOLYLINE with fewer than 2 vertices")
				continue
			}
			lengths = append(lengths, lwPolylineLength(e))

		case *entity.Circle:
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped CIRCLE (r=%.3f), closed curves are not linear members", e.Radius))

		case *entity.Arc:
			segments = append(segments, arcSegment(e))

		case *entity.Line:
			start := point{X: e.Start[0], Y: e.Start[1]}
			end := point{X: e.End[0], Y: e.End[1]}
			segments = append(segments, segment{start: start, end: end, length: distance(start, end)})

		default:
			// Unsupported entity types are silently skipped
		}
	}

	lengths = append(lengths, chainSegments(segments, 0.01)...)

	if len(lengths) == 0 {
		result.Errors = append(result.Errors, "No linear members found in DXF file")
		return result
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(lengths)))
	for _, l := range lengths {
		inches := model.Round(unit.ToInches(l), 6)
		if inches < 0.01 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped degenerate member (%.4f %s)", l, unit.Short()))
			continue
		}
		result.Cuts = append(result.Cuts,
			model.NewCutItem(fmt.Sprintf("DXF Member %d", len(result.Cuts)+1), inches, 1))
	}

	return result
}

// lwPolylineLength sums the straight and bulged spans of an open polyline.
func lwPolylineLength(lw *entity.LwPolyline) float64 {
	var total float64
	for i := 0; i+1 < len(lw.Vertices); i++ {
		p1 := point{X: lw.Vertices[i][0], Y: lw.Vertices[i][1]}
		p2 := point{X: lw.Vertices[i+1][0], Y: lw.Vertices[i+1][1]}
		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}
		total += bulgeSpanLength(p1, p2, bulge)
	}
	return total
}

// bulgeSpanLength returns the length of a polyline span. The DXF bulge is the
// tangent of a quarter of the included angle; zero means a straight span.
func bulgeSpanLength(p1, p2 point, bulge float64) float64 {
	chord := distance(p1, p2)
	if math.Abs(bulge) < 1e-9 || chord < 1e-9 {
		return chord
	}
	theta := 4 * math.Atan(math.Abs(bulge))
	radius := chord / (2 * math.Sin(theta/2))
	return radius * theta
}

// arcSegment converts a DXF ARC into a segment between its end points.
// DXF arcs run counter-clockwise from the start angle to the end angle.
func arcSegment(a *entity.Arc) segment {
	cx, cy := a.Circle.Center[0], a.Circle.Center[1]
	r := a.Circle.Radius

	startRad := a.Angle[0] * math.Pi / 180
	endRad := a.Angle[1] * math.Pi / 180
	if endRad <= startRad {
		endRad += 2 * math.Pi
	}

	return segment{
		start:  point{X: cx + r*math.Cos(startRad), Y: cy + r*math.Sin(startRad)},
		end:    point{X: cx + r*math.Cos(endRad), Y: cy + r*math.Sin(endRad)},
		length: r * (endRad - startRad),
	}
}

// chainSegments joins segments that share end points within tolerance and
// returns the total length of every resulting path.
func chainSegments(segs []segment, tolerance float64) []float64 {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var lengths []float64

	for {
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			break
		}

		head := segs[startIdx].start
		tail := segs[startIdx].end
		total := segs[startIdx].length
		used[startIdx] = true

		// Extend from both ends until nothing else connects
		changed := true
		for changed {
			changed = false
			for i, seg := range segs {
				if used[i] {
					continue
				}
				switch {
				case pointsClose(tail, seg.start, tolerance):
					tail = seg.end
				case pointsClose(tail, seg.end, tolerance):
					tail = seg.start
				case pointsClose(head, seg.end, tolerance):
					head = seg.start
				case pointsClose(head, seg.start, tolerance):
					head = seg.end
				default:
					continue
				}
				total += seg.length
				used[i] = true
				changed = true
			}
		}

		lengths = append(lengths, total)
	}

	return lengths
}

func distance(a, b point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// pointsClose checks whether two points are within the given tolerance.
func pointsClose(a, b point, tolerance float64) bool {
	return distance(a, b) <= tolerance
}
