package gcode

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/piwi3910/cutbuddy/internal/model"
)

// MoveType represents the type of stop movement.
type MoveType int

const (
	MoveRapid MoveType = iota // G0: rapid positioning
	MoveFeed                  // G1: feed positioning
)

// GCodeMove represents a single parsed positioning move along the stop axis.
type GCodeMove struct {
	Type  MoveType
	FromX float64
	ToX   float64
	Line  int // 1-based source line
}

var coordRe = regexp.MustCompile(`([XYZAF])([-]?\d+\.?\d*)`)

// stripComment removes semicolon and parenthetical comments from a line.
func stripComment(line string) string {
	if idx := strings.Index(line, ";"); idx >= 0 {
		line = line[:idx]
	}
	if idx := strings.Index(line, "("); idx >= 0 {
		if end := strings.Index(line, ")"); end > idx {
			line = line[:idx] + line[end+1:]
		} else {
			line = line[:idx]
		}
	}
	return strings.TrimSpace(line)
}

// moveKind classifies a stripped, upper-cased line as rapid, feed or neither.
func moveKind(upper string) (MoveType, bool) {
	fields := strings.Fields(upper)
	if len(fields) == 0 {
		return 0, false
	}
	switch fields[0] {
	case "G0", "G00":
		return MoveRapid, true
	case "G1", "G01":
		return MoveFeed, true
	}
	return 0, false
}

// axisValue returns the coordinate given for axis on the line, if any.
func axisValue(upper, axis string) (float64, bool) {
	for _, m := range coordRe.FindAllStringSubmatch(upper, -1) {
		if m[1] != axis {
			continue
		}
		val, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return 0, false
		}
		return val, true
	}
	return 0, false
}

// ParseGCode parses a program into positioning moves along the X axis.
// It tracks absolute position state; lines without a G0/G1 are skipped.
func ParseGCode(code string) []GCodeMove {
	return parseMoves(code, "X")
}

func parseMoves(code, axis string) []GCodeMove {
	var moves []GCodeMove
	cur := 0.0

	for i, line := range strings.Split(code, "\n") {
		upper := strings.ToUpper(stripComment(line))
		kind, ok := moveKind(upper)
		if !ok {
			continue
		}
		next := cur
		if v, ok := axisValue(upper, axis); ok {
			next = v
		}
		moves = append(moves, GCodeMove{Type: kind, FromX: cur, ToX: next, Line: i + 1})
		cur = next
	}

	return moves
}

// StopPositions reads a program back into the stop positions at which the
// profile's cut cycle fires, grouped per loaded bar. A program without load
// prompts yields a single group.
func StopPositions(code string, profile model.GCodeProfile) [][]float64 {
	axis := strings.ToUpper(profile.Axis)
	if axis == "" {
		axis = "X"
	}
	cutCmd := firstCommand(profile.CutCycle)
	loadCmd := firstCommand(profile.LoadStock)

	var groups [][]float64
	var current []float64
	started := false
	pos := 0.0

	for _, line := range strings.Split(code, "\n") {
		upper := strings.ToUpper(stripComment(line))
		if upper == "" {
			continue
		}
		if _, ok := moveKind(upper); ok {
			if v, ok := axisValue(upper, axis); ok {
				pos = v
			}
			continue
		}
		switch {
		case loadCmd != "" && upper == loadCmd:
			if started {
				groups = append(groups, current)
			}
			current = []float64{}
			started = true
		case cutCmd != "" && upper == cutCmd:
			if !started {
				current = []float64{}
				started = true
			}
			current = append(current, pos)
		}
	}
	if started {
		groups = append(groups, current)
	}
	return groups
}

// firstCommand returns the first line of a possibly multi-line command,
// upper-cased and trimmed.
func firstCommand(cmd string) string {
	line := strings.SplitN(cmd, "\n", 2)[0]
	return strings.ToUpper(strings.TrimSpace(line))
}
