package ui

import (
	"context"
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/piwi3910/cutbuddy/internal/engine"
	"github.com/piwi3910/cutbuddy/internal/measure"
	"github.com/piwi3910/cutbuddy/internal/model"
)

// showAdvancedSettingsDialog opens a dialog with the solver settings that
// are not shown on the settings tab.
func (a *App) showAdvancedSettingsDialog() {
	s := &a.project.Settings

	intEntry := func(val *int) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(strconv.Itoa(*val))
		e.OnChanged = func(text string) {
			if v, err := strconv.Atoi(text); err == nil && v >= 0 {
				*val = v
			}
		}
		return e
	}

	int64Entry := func(val *int64) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(strconv.FormatInt(*val, 10))
		e.OnChanged = func(text string) {
			if v, err := strconv.ParseInt(text, 10, 64); err == nil {
				*val = v
			}
		}
		return e
	}

	lengthEntry := func(val *float64) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(measure.Value(*val, a.unit()))
		e.OnChanged = func(text string) {
			if v, ok := parseKerf(text, a.unit()); ok {
				*val = v
			}
		}
		return e
	}

	// --- Engine Selection ---
	modeSelect := widget.NewSelect(modeNames(), func(selected string) {
		s.Mode = model.SolverMode(selected)
	})
	modeSelect.SetSelected(string(s.Mode))

	engineSection := widget.NewCard("Engine",
		"Auto runs the exact search for small lists and the genetic improver for large ones",
		container.NewGridWithColumns(2,
			widget.NewLabel("Mode"), modeSelect,
			widget.NewLabel("Max Cuts for Exact (0 = no limit)"), intEntry(&s.MaxCutsForExact),
			widget.NewLabel("Exact Time Budget (ms)"), int64Entry(&s.TimeBudgetMs),
		))

	// --- Genetic Improver ---
	improverSection := widget.NewCard("Genetic Improver",
		"Anytime search used by approx and auto modes",
		container.NewGridWithColumns(2,
			widget.NewLabel("Time Budget (ms)"), int64Entry(&s.ApproxBudgetMs),
			widget.NewLabel("Seed (0 = random)"), int64Entry(&s.Seed),
		))

	// --- Offcuts ---
	offcutSection := widget.NewCard("Offcuts",
		"Remnants at least this long are listed as reusable stock",
		container.NewGridWithColumns(2,
			widget.NewLabel(fmt.Sprintf("Minimum Offcut (%s)", a.unit().Short())), lengthEntry(&s.MinOffcut),
		))

	content := container.NewVScroll(container.NewVBox(
		engineSection,
		improverSection,
		offcutSection,
	))

	d := dialog.NewCustom("Solver Settings", "Close", content, a.window)
	d.SetOnClosed(a.refreshSettingsPanel)
	d.Resize(fyne.NewSize(560, 480))
	d.Show()
}

// ─── Scenario Comparison ───────────────────────────────────

// showCompareDialog solves the cut list under several preset scenarios
// side by side.
func (a *App) showCompareDialog() {
	req := a.project.Request()
	if len(req.Cuts) == 0 || len(req.StockLengths) == 0 {
		dialog.ShowInformation("Nothing to compare", "Add cuts and stock first.", a.window)
		return
	}

	scenarios := engine.BuildDefaultScenarios(a.project.Settings)
	table := container.NewVBox(widget.NewLabel("Solving scenarios..."))
	progress := widget.NewProgressBarInfinite()

	ctx, cancel := context.WithCancel(context.Background())
	d := dialog.NewCustom("Compare Scenarios", "Close",
		container.NewBorder(progress, nil, nil, nil, container.NewVScroll(table)), a.window)
	d.SetOnClosed(cancel)
	d.Resize(fyne.NewSize(760, 420))
	d.Show()

	go func() {
		results, err := engine.CompareScenarios(ctx, scenarios, req.Cuts, req.StockLengths,
			engine.WithLogger(a.logger.Named("compare")))
		fyne.Do(func() {
			progress.Stop()
			progress.Hide()
			table.RemoveAll()
			if err != nil {
				if ctx.Err() == nil {
					a.logger.Warn("scenario comparison failed", zap.Error(err))
				}
				table.Add(widget.NewLabel("Comparison failed: " + err.Error()))
				return
			}
			a.fillComparisonTable(table, results, d)
		})
	}()
}

func (a *App) fillComparisonTable(table *fyne.Container, results []engine.ComparisonResult, d dialog.Dialog) {
	best := engine.BestScenario(results)

	table.Add(container.NewGridWithColumns(6,
		widget.NewLabelWithStyle("Scenario", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Bins", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Waste", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Stock", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Status", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel(""),
	))
	table.Add(widget.NewSeparator())

	for i := range results {
		r := results[i]
		name := r.Scenario.Name
		if i == best {
			name += " (best)"
		}
		table.Add(container.NewGridWithColumns(6,
			widget.NewLabel(name),
			widget.NewLabel(strconv.Itoa(r.BinsUsed)),
			widget.NewLabel(fmt.Sprintf("%.1f%%", r.WastePercent)),
			widget.NewLabel(measure.Format(r.Report.TotalStockLength, a.unit())),
			widget.NewLabel(string(r.Report.Optimality)),
			widget.NewButtonWithIcon("Use", theme.ConfirmIcon(), func() {
				a.edit("Use Scenario", func(p *model.Project) {
					p.Settings = r.Scenario.Settings
				})
				report := r.Report
				a.project.Result = &report
				a.refreshResults()
				a.refreshSettingsPanel()
				d.Hide()
			}),
		))
	}
}

// ─── Offcuts ───────────────────────────────────────────────

// showOffcutsDialog lists the reusable remnants of the current result and
// can add them to the stock list.
func (a *App) showOffcutsDialog() {
	if a.project.Result == nil {
		return
	}
	offcuts := model.DetectOffcuts(a.project.Result.Solution, a.project.Settings.Kerf,
		a.project.Settings.MinOffcut, a.project.Stocks)
	if len(offcuts) == 0 {
		dialog.ShowInformation("Offcuts",
			fmt.Sprintf("No remnants at least %s long.", measure.Format(a.project.Settings.MinOffcut, a.unit())),
			a.window)
		return
	}

	list := container.NewVBox()
	for _, o := range offcuts {
		list.Add(widget.NewLabel(fmt.Sprintf("Bin %d: %s from %s bar, value %s",
			o.BinIndex+1, measure.Format(o.Length, a.unit()),
			measure.Format(o.StockLength, a.unit()), priceLabel(o.Price))))
	}
	list.Add(widget.NewSeparator())
	list.Add(widget.NewLabel("Total: " + measure.Format(model.TotalOffcutLength(offcuts), a.unit())))

	addBtn := widget.NewButtonWithIcon("Add All to Stock", theme.ContentAddIcon(), nil)
	d := dialog.NewCustom("Offcuts", "Close",
		container.NewBorder(nil, container.NewHBox(layout.NewSpacer(), addBtn), nil, nil,
			container.NewVScroll(list)), a.window)
	addBtn.OnTapped = func() {
		result := a.project.Result
		a.edit("Add Offcuts", func(p *model.Project) {
			for _, o := range offcuts {
				p.Stocks = append(p.Stocks, o.ToStockItem())
			}
		})
		// The plan stays valid when stock is only added.
		a.project.Result = result
		a.refreshResults()
		d.Hide()
	}
	d.Resize(fyne.NewSize(520, 400))
	d.Show()
}
