package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/piwi3910/cutbuddy/internal/boundary"
	"github.com/piwi3910/cutbuddy/internal/measure"
	"github.com/piwi3910/cutbuddy/internal/model"
	"github.com/piwi3910/cutbuddy/internal/project"
)

// requestFlags are shared by every command that solves a cut list.
type requestFlags struct {
	cuts        []string
	stocks      []string
	kerf        string
	budget      int64
	approx      int64
	mode        string
	unit        string
	maxExact    int
	seed        int64
	profile     string
	projectFile string
}

func (f *requestFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringArrayVarP(&f.cuts, "cut", "c", nil, `Cut length, repeatable; commas separate several ("34 1/2, 2' 10\"")`)
	fl.StringArrayVarP(&f.stocks, "stock", "s", nil, "Stock length, repeatable (default: config stock lengths)")
	fl.StringVarP(&f.kerf, "kerf", "k", "", "Blade kerf (default: config kerf)")
	fl.Int64VarP(&f.budget, "budget", "b", 0, "Exact search time budget in ms (default: config)")
	fl.Int64Var(&f.approx, "approx-budget", 0, "Genetic improver time budget in ms (default: config)")
	fl.StringVarP(&f.mode, "mode", "m", "", "Solver mode: auto, exact, approx or heuristic (default: config)")
	fl.StringVarP(&f.unit, "unit", "u", "", "Unit for bare numbers and text output (default: config)")
	fl.IntVar(&f.maxExact, "max-exact", 0, "Largest cut count solved exactly, 0 = no limit (default: config)")
	fl.Int64Var(&f.seed, "seed", 0, "Genetic improver seed, 0 = time based")
	fl.StringVar(&f.profile, "profile", "", "Saw profile for G-code (default: config)")
	fl.StringVar(&f.projectFile, "project", "", "Read cuts, stock and settings from a saved project")
}

// resolveUnit picks the unit from the flag, falling back to the config.
func (f *requestFlags) resolveUnit(cfg model.AppConfig) (measure.Unit, error) {
	name := f.unit
	if name == "" {
		name = cfg.DefaultUnit
	}
	if name == "" {
		return measure.Inches, nil
	}
	return measure.ParseUnit(name)
}

// build assembles a request and solver settings from config defaults, an
// optional request file and the flags, in that order of precedence.
func (f *requestFlags) build(cmd *cobra.Command, args []string, cfg model.AppConfig) (model.Request, model.Settings, measure.Unit, error) {
	unit, err := f.resolveUnit(cfg)
	if err != nil {
		return model.Request{}, model.Settings{}, "", err
	}

	settings := model.DefaultSettings()
	cfg.ApplyToSettings(&settings)
	req := model.Request{
		Kerf:         settings.Kerf,
		TimeBudgetMs: settings.TimeBudgetMs,
		StockLengths: append([]float64(nil), cfg.DefaultStockLengths...),
	}

	switch {
	case f.projectFile != "":
		p, err := project.LoadProject(f.projectFile)
		if err != nil {
			return model.Request{}, model.Settings{}, "", err
		}
		settings = p.Settings
		req = p.Request()
		if !cmd.Flags().Changed("unit") {
			if u, err := measure.ParseUnit(p.Unit); err == nil {
				unit = u
			}
		}
	case len(args) > 0:
		fileReq, err := loadRequest(args[0])
		if err != nil {
			return model.Request{}, model.Settings{}, "", err
		}
		req = fileReq
	}

	if len(f.cuts) > 0 {
		req.Cuts = nil
		for _, text := range f.cuts {
			lengths, err := parseLengths(text, unit)
			if err != nil {
				return model.Request{}, model.Settings{}, "", err
			}
			req.Cuts = append(req.Cuts, lengths...)
		}
	}
	if len(f.stocks) > 0 {
		req.StockLengths = nil
		for _, text := range f.stocks {
			lengths, err := parseLengths(text, unit)
			if err != nil {
				return model.Request{}, model.Settings{}, "", err
			}
			req.StockLengths = append(req.StockLengths, lengths...)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("kerf") {
		kerf, err := parseKerf(f.kerf, unit)
		if err != nil {
			return model.Request{}, model.Settings{}, "", err
		}
		req.Kerf = kerf
	}
	if flags.Changed("budget") {
		req.TimeBudgetMs = f.budget
		settings.TimeBudgetMs = f.budget
	}
	if flags.Changed("approx-budget") {
		settings.ApproxBudgetMs = f.approx
	}
	if flags.Changed("mode") {
		mode := model.SolverMode(strings.ToLower(f.mode))
		if !mode.Valid() {
			return model.Request{}, model.Settings{}, "", fmt.Errorf("unknown solver mode %q", f.mode)
		}
		settings.Mode = mode
	}
	if flags.Changed("max-exact") {
		settings.MaxCutsForExact = f.maxExact
	}
	if flags.Changed("seed") {
		settings.Seed = f.seed
	}
	if flags.Changed("profile") {
		settings.GCodeProfile = f.profile
	}
	settings.Kerf = req.Kerf
	return req, settings, unit, nil
}

// loadRequest reads a JSON or YAML request file, chosen by extension.
func loadRequest(path string) (model.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Request{}, fmt.Errorf("failed to read request: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var req model.Request
		if err := yaml.Unmarshal(data, &req); err != nil {
			return model.Request{}, fmt.Errorf("failed to parse request YAML: %w", err)
		}
		return req, nil
	}
	return boundary.DecodeRequest(data)
}

// parseLengths reads a comma separated list of measurements. Unlike
// measure.ParseList it rejects the whole list when one entry is unreadable.
func parseLengths(text string, unit measure.Unit) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		m, ok := measure.Parse(part, unit)
		if !ok {
			return nil, fmt.Errorf("could not read length %q", part)
		}
		out = append(out, m.TotalInches)
	}
	return out, nil
}

// parseKerf reads a kerf. Zero is allowed.
func parseKerf(text string, unit measure.Unit) (float64, error) {
	text = strings.TrimSpace(text)
	if v, err := strconv.ParseFloat(text, 64); err == nil {
		if v < 0 {
			return 0, fmt.Errorf("kerf must be 0 or more, got %q", text)
		}
		return unit.ToInches(v), nil
	}
	m, ok := measure.Parse(text, unit)
	if !ok {
		return 0, fmt.Errorf("could not read kerf %q", text)
	}
	return m.TotalInches, nil
}

// projectFromRequest wraps a solved request into a project for the
// document exporters. Repeated lengths become one cut line.
func projectFromRequest(name string, req model.Request, settings model.Settings, unit measure.Unit, report model.Report) model.Project {
	p := model.NewProject()
	p.Name = name
	p.Unit = string(unit)
	p.Settings = settings

	index := map[float64]int{}
	for _, c := range req.Cuts {
		if i, ok := index[c]; ok {
			p.Cuts[i].Quantity++
			continue
		}
		index[c] = len(p.Cuts)
		p.Cuts = append(p.Cuts, model.NewCutItem(measure.Format(c, unit), c, 1))
	}
	for _, s := range req.StockLengths {
		p.Stocks = append(p.Stocks, model.NewStockItem(measure.Format(s, unit), s))
	}
	p.Result = &report
	return p
}
