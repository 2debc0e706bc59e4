// Package gcode writes and reads positioning programs for CNC saw stops and
// pushers that work along a single linear axis.
package gcode

import (
	"fmt"
	"strings"

	"github.com/piwi3910/cutbuddy/internal/model"
)

const mmPerInch = 25.4

// Generator produces saw-stop programs from a solved cut plan. The stop is
// positioned at the trailing edge of each cut, measured from the left end of
// the bar, and the profile's cut cycle fires once per position.
type Generator struct {
	Settings model.Settings
	profile  model.GCodeProfile
}

func New(settings model.Settings) *Generator {
	return &Generator{
		Settings: settings,
		profile:  model.GetProfile(settings.GCodeProfile),
	}
}

// NewWithProfile uses profile as given instead of looking it up by name.
func NewWithProfile(settings model.Settings, profile model.GCodeProfile) *Generator {
	settings.GCodeProfile = profile.Name
	return &Generator{Settings: settings, profile: profile}
}

// Profile returns the post-processor profile in use.
func (g *Generator) Profile() model.GCodeProfile {
	return g.profile
}

// GenerateBin produces a standalone program for a single bin.
func (g *Generator) GenerateBin(bin model.Bin, binIndex int) string {
	var b strings.Builder

	g.writeHeader(&b, fmt.Sprintf("Bin %d", binIndex), 1, len(bin.Cuts))
	g.writeBin(&b, bin, binIndex)
	g.writeFooter(&b)
	return b.String()
}

// GenerateAll produces one program per bin.
func (g *Generator) GenerateAll(sol model.Solution) []string {
	var codes []string
	for i, bin := range sol.Bins {
		codes = append(codes, g.GenerateBin(bin, i+1))
	}
	return codes
}

// GenerateProgram produces a single program for the whole plan. The operator
// is prompted to load each new bar.
func (g *Generator) GenerateProgram(sol model.Solution) string {
	var b strings.Builder

	g.writeHeader(&b, "Full plan", len(sol.Bins), sol.CutCount())
	for i, bin := range sol.Bins {
		g.writeBin(&b, bin, i+1)
	}
	g.writeFooter(&b)
	return b.String()
}

// Positions returns the stop position of every cut in bin, in profile units.
func (g *Generator) Positions(bin model.Bin) []float64 {
	offsets := bin.Offsets(g.Settings.Kerf)
	positions := make([]float64, len(bin.Cuts))
	for i, c := range bin.Cuts {
		positions[i] = g.toProfileUnits(offsets[i] + c)
	}
	return positions
}

func (g *Generator) writeHeader(b *strings.Builder, title string, bins, cuts int) {
	p := g.profile

	b.WriteString(g.comment(fmt.Sprintf("CutBuddy saw program: %s", title)))
	b.WriteString(g.comment(fmt.Sprintf("Bars: %d, Cuts: %d", bins, cuts)))
	b.WriteString(g.comment(fmt.Sprintf("Kerf: %s %s", g.format(g.toProfileUnits(g.Settings.Kerf)), p.Units)))
	b.WriteString(g.comment(fmt.Sprintf("Profile: %s", p.Name)))
	b.WriteString("\n")

	for _, code := range p.StartCode {
		b.WriteString(code + "\n")
	}

	// Home the stop before the first bar
	b.WriteString(fmt.Sprintf("%s %s%s\n", p.RapidMove, p.Axis, g.format(0)))
	b.WriteString("\n")
}

func (g *Generator) writeBin(b *strings.Builder, bin model.Bin, binIndex int) {
	p := g.profile

	b.WriteString(g.comment(fmt.Sprintf("--- Bin %d: stock %s %s, %d cuts ---",
		binIndex, g.format(g.toProfileUnits(bin.StockLength)), p.Units, len(bin.Cuts))))
	if p.LoadStock != "" {
		b.WriteString(p.LoadStock + "\n")
	}

	for i, pos := range g.Positions(bin) {
		b.WriteString(g.comment(fmt.Sprintf("Cut %d: %s %s", i+1,
			g.format(g.toProfileUnits(bin.Cuts[i])), p.Units)))
		b.WriteString(fmt.Sprintf("%s %s%s\n", p.RapidMove, p.Axis, g.format(pos)))
		if p.CutCycle != "" {
			b.WriteString(p.CutCycle + "\n")
		}
	}

	b.WriteString(g.comment(fmt.Sprintf("Remaining: %s %s", g.format(g.toProfileUnits(bin.Remaining)), p.Units)))
	b.WriteString("\n")
}

func (g *Generator) writeFooter(b *strings.Builder) {
	b.WriteString(g.comment("=== Job complete ==="))
	for _, code := range g.profile.EndCode {
		b.WriteString(code + "\n")
	}
}

// toProfileUnits converts inches to the profile's output units.
func (g *Generator) toProfileUnits(inches float64) float64 {
	if g.profile.Units == "mm" {
		return inches * mmPerInch
	}
	return inches
}

func (g *Generator) comment(text string) string {
	return g.profile.CommentPrefix + " " + text + g.profile.CommentSuffix + "\n"
}

// format formats a coordinate according to the profile's decimal places.
func (g *Generator) format(v float64) string {
	format := fmt.Sprintf("%%.%df", g.profile.DecimalPlaces)
	return fmt.Sprintf(format, v)
}
