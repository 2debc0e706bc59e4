package ui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/piwi3910/cutbuddy/internal/engine"
	"github.com/piwi3910/cutbuddy/internal/export"
	"github.com/piwi3910/cutbuddy/internal/gcode"
	cutimporter "github.com/piwi3910/cutbuddy/internal/importer"
	"github.com/piwi3910/cutbuddy/internal/measure"
	"github.com/piwi3910/cutbuddy/internal/model"
	"github.com/piwi3910/cutbuddy/internal/project"
	"github.com/piwi3910/cutbuddy/internal/ui/widgets"
	"github.com/piwi3910/cutbuddy/internal/worker"
)

const maxRecentProjects = 10

// App holds all application state and UI references.
type App struct {
	window  fyne.Window
	logger  *zap.Logger
	project model.Project
	config  model.AppConfig

	inventory     model.Inventory
	inventoryPath string
	templates     model.TemplateStore

	history *History
	runner  *worker.Runner
	jobID   worker.JobID
	solving bool

	tabs *container.AppTabs

	// UI references for dynamic updates
	cutsContainer     *fyne.Container
	stockContainer    *fyne.Container
	settingsContainer *fyne.Container
	resultContainer   *fyne.Container
	statusLabel       *widget.Label
}

// NewApp creates the application state. Inventory and templates are read
// from their default locations; a missing or broken file falls back to
// the built-in defaults.
func NewApp(window fyne.Window, logger *zap.Logger, config model.AppConfig) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{
		window:  window,
		logger:  logger,
		config:  config,
		project: config.NewProject(),
		history: NewHistory(),
		runner:  worker.NewRunner(worker.WithLogger(logger)),
	}

	inv, path, err := project.LoadOrCreateInventory()
	if err != nil {
		logger.Warn("inventory unavailable, using defaults", zap.Error(err))
	}
	a.inventory, a.inventoryPath = inv, path

	a.templates, err = project.LoadTemplates(project.DefaultTemplatePath())
	if err != nil {
		logger.Warn("templates unavailable", zap.Error(err))
		a.templates = model.NewTemplateStore()
	}

	go a.consumeEvents()
	return a
}

// Close stops any running solve and releases the worker.
func (a *App) Close() {
	a.runner.Close()
}

func (a *App) unit() measure.Unit {
	u, err := measure.ParseUnit(a.project.Unit)
	if err != nil {
		return measure.Inches
	}
	return u
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	// File Menu
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Project", func() {
			a.newProject(a.config.NewProject())
		}),
		fyne.NewMenuItem("New from Template...", func() {
			a.showNewFromTemplateDialog()
		}),
		fyne.NewMenuItem("Open Project...", func() {
			a.loadProject()
		}),
		fyne.NewMenuItem("Save Project...", func() {
			a.saveProject()
		}),
		fyne.NewMenuItem("Save as Template...", func() {
			a.showSaveTemplateDialog()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Cuts from CSV...", func() {
			a.importCuts(cutimporter.ImportCSV)
		}),
		fyne.NewMenuItem("Import Cuts from Excel...", func() {
			a.importCuts(cutimporter.ImportExcel)
		}),
		fyne.NewMenuItem("Import Cuts from DXF...", func() {
			a.importCuts(cutimporter.ImportDXF)
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PDF Report...", func() {
			a.exportFile("cut-plan.pdf", export.ExportPDF)
		}),
		fyne.NewMenuItem("Export Cut Labels...", func() {
			a.exportFile("labels.pdf", export.ExportLabels)
		}),
		fyne.NewMenuItem("Export Excel Sheet...", func() {
			a.exportFile("cut-plan.xlsx", export.ExportExcel)
		}),
		fyne.NewMenuItem("Export GCode...", func() {
			a.exportGCode()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			a.window.Close()
		}),
	)

	// Edit Menu
	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", func() {
			a.undo()
		}),
		fyne.NewMenuItem("Redo", func() {
			a.redo()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Clear All Cuts", func() {
			a.edit("Clear Cuts", func(p *model.Project) { p.Cuts = nil })
		}),
		fyne.NewMenuItem("Clear All Stock", func() {
			a.edit("Clear Stock", func(p *model.Project) { p.Stocks = nil })
		}),
	)

	// Tools Menu
	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Solve", func() {
			a.runSolve()
		}),
		fyne.NewMenuItem("Cancel Solve", func() {
			a.cancelSolve()
		}),
		fyne.NewMenuItem("Compare Scenarios...", func() {
			a.showCompareDialog()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Blade Inventory...", func() {
			a.showBladeInventoryDialog()
		}),
		fyne.NewMenuItem("Stock Inventory...", func() {
			a.showStockInventoryDialog()
		}),
		fyne.NewMenuItem("Saw Profiles...", func() {
			a.showProfileManager()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Solver Settings...", func() {
			a.showAdvancedSettingsDialog()
		}),
		fyne.NewMenuItem("Preferences...", func() {
			a.showSettingsDialog()
		}),
		fyne.NewMenuItem("Backup / Restore...", func() {
			a.showImportExportDialog()
		}),
	)

	// Help Menu
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() {
			a.showAboutDialog()
		}),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(
		fileMenu,
		editMenu,
		toolsMenu,
		helpMenu,
	))
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About CutBuddy",
		"CutBuddy: Linear Cut List Optimizer\n\n"+
			"Plans how to cut boards, pipe and bar stock from the\n"+
			"lengths you have, with the least material wasted.\n\n"+
			"Version 1.0.0",
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	cutsTab := container.NewTabItem("Cuts", a.buildCutsPanel())
	stockTab := container.NewTabItem("Stock", a.buildStockPanel())
	settingsTab := container.NewTabItem("Settings", a.buildSettingsPanel())
	resultsTab := container.NewTabItem("Results", a.buildResultsPanel())

	a.tabs = container.NewAppTabs(cutsTab, stockTab, settingsTab, resultsTab)
	a.tabs.SetTabLocation(container.TabLocationTop)

	a.statusLabel = widget.NewLabel("Ready")
	toolbar := container.NewHBox(
		newIconButtonWithTooltip(theme.ContentUndoIcon(), "Undo", a.undo),
		newIconButtonWithTooltip(theme.ContentRedoIcon(), "Redo", a.redo),
		widget.NewSeparator(),
		newIconButtonWithTooltip(theme.MediaPlayIcon(), "Solve", a.runSolve),
		newIconButtonWithTooltip(theme.MediaStopIcon(), "Cancel solve", a.cancelSolve),
		layout.NewSpacer(),
		a.statusLabel,
	)

	return container.NewBorder(toolbar, nil, nil, nil, a.tabs)
}

// ─── Editing ───────────────────────────────────────────────

// edit records an undo point, applies fn and drops the stale result.
func (a *App) edit(label string, fn func(p *model.Project)) {
	a.history.Push(MakeSnapshot(a.project, label))
	fn(&a.project)
	a.project.Result = nil
	a.refreshAll()
}

func (a *App) undo() {
	snap, ok := a.history.Undo(MakeSnapshot(a.project, a.history.UndoLabel()))
	if !ok {
		return
	}
	snap.Apply(&a.project)
	a.setStatus("Undid " + snap.Label)
	a.refreshAll()
}

func (a *App) redo() {
	snap, ok := a.history.Redo(MakeSnapshot(a.project, ""))
	if !ok {
		return
	}
	snap.Apply(&a.project)
	a.setStatus("Redone")
	a.refreshAll()
}

func (a *App) newProject(p model.Project) {
	a.cancelSolve()
	a.project = p
	a.history.Clear()
	a.refreshAll()
	a.refreshSettingsPanel()
}

func (a *App) refreshAll() {
	a.refreshCutsList()
	a.refreshStockList()
	a.refreshResults()
}

func (a *App) setStatus(text string) {
	if a.statusLabel != nil {
		a.statusLabel.SetText(text)
	}
}

// ─── Cuts Panel ────────────────────────────────────────────

func (a *App) buildCutsPanel() fyne.CanvasObject {
	a.cutsContainer = container.NewVBox()
	a.refreshCutsList()

	addBtn := widget.NewButtonWithIcon("Add Cut", theme.ContentAddIcon(), func() {
		a.showCutDialog(-1)
	})
	quickBtn := widget.NewButtonWithIcon("Quick Entry", theme.ListIcon(), func() {
		a.showQuickEntryDialog()
	})

	return container.NewBorder(
		container.NewHBox(
			widget.NewLabelWithStyle("Required Cuts", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			layout.NewSpacer(),
			quickBtn,
			addBtn,
		),
		nil, nil, nil,
		container.NewVScroll(a.cutsContainer),
	)
}

func (a *App) refreshCutsList() {
	if a.cutsContainer == nil {
		return
	}
	a.cutsContainer.RemoveAll()

	if len(a.project.Cuts) == 0 {
		a.cutsContainer.Add(widget.NewLabel("No cuts added yet. Click 'Add Cut' to begin."))
		return
	}

	a.cutsContainer.Add(container.NewGridWithColumns(5,
		widget.NewLabelWithStyle("Label", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Length", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Qty", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel(""),
		widget.NewLabel(""),
	))
	a.cutsContainer.Add(widget.NewSeparator())

	for i := range a.project.Cuts {
		idx := i // capture
		c := a.project.Cuts[idx]
		a.cutsContainer.Add(container.NewGridWithColumns(5,
			widget.NewLabel(c.Label),
			widget.NewLabel(measure.Format(c.Length, a.unit())),
			widget.NewLabel(strconv.Itoa(c.Quantity)),
			widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), func() {
				a.showCutDialog(idx)
			}),
			widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
				a.edit("Delete Cut", func(p *model.Project) {
					p.Cuts = append(p.Cuts[:idx], p.Cuts[idx+1:]...)
				})
			}),
		))
	}
}

// showCutDialog adds a cut when idx is negative, otherwise edits it.
func (a *App) showCutDialog(idx int) {
	title, confirm := "Add Cut", "Add"
	c := model.CutItem{Label: fmt.Sprintf("Cut %d", len(a.project.Cuts)+1), Quantity: 1}
	if idx >= 0 {
		title, confirm = "Edit Cut", "Save"
		c = a.project.Cuts[idx]
	}

	labelEntry := widget.NewEntry()
	labelEntry.SetPlaceHolder("Cut name")
	labelEntry.SetText(c.Label)

	lengthEntry := widget.NewEntry()
	lengthEntry.SetPlaceHolder(`e.g. 34 1/2, 2' 10", 88 cm`)
	if c.Length > 0 {
		lengthEntry.SetText(measure.Value(c.Length, a.unit()))
	}

	qtyEntry := widget.NewEntry()
	qtyEntry.SetText(strconv.Itoa(c.Quantity))

	form := dialog.NewForm(title, confirm, "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Label", labelEntry),
			widget.NewFormItem(fmt.Sprintf("Length (%s)", a.unit().Short()), lengthEntry),
			widget.NewFormItem("Quantity", qtyEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			m, ok := measure.Parse(lengthEntry.Text, a.unit())
			q, err := strconv.Atoi(strings.TrimSpace(qtyEntry.Text))
			if !ok || err != nil || q <= 0 {
				dialog.ShowError(fmt.Errorf("length must be a positive measurement and quantity must be > 0"), a.window)
				return
			}
			if idx < 0 {
				a.edit("Add Cut", func(p *model.Project) {
					p.Cuts = append(p.Cuts, model.NewCutItem(labelEntry.Text, m.TotalInches, q))
				})
				return
			}
			a.edit("Edit Cut", func(p *model.Project) {
				p.Cuts[idx].Label = labelEntry.Text
				p.Cuts[idx].Length = m.TotalInches
				p.Cuts[idx].Quantity = q
			})
		},
		a.window,
	)
	form.Resize(fyne.NewSize(420, 260))
	form.Show()
}

// showQuickEntryDialog adds many cuts from free text, one measurement per
// comma or line.
func (a *App) showQuickEntryDialog() {
	entry := widget.NewMultiLineEntry()
	entry.SetPlaceHolder("34 1/2, 34 1/2, 2' 10\"\n60 in")
	entry.SetMinRowsVisible(6)

	form := dialog.NewForm("Quick Entry", "Add", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Lengths", entry)},
		func(ok bool) {
			if !ok {
				return
			}
			lengths := measure.ParseList(entry.Text, a.unit())
			if len(lengths) == 0 {
				dialog.ShowError(fmt.Errorf("no measurements recognized"), a.window)
				return
			}
			a.edit("Quick Entry", func(p *model.Project) {
				p.Cuts = append(p.Cuts, groupLengths(lengths, len(p.Cuts))...)
			})
		},
		a.window,
	)
	form.Resize(fyne.NewSize(460, 320))
	form.Show()
}

// groupLengths folds repeated lengths into cut items with quantities,
// keeping first-seen order.
func groupLengths(lengths []float64, existing int) []model.CutItem {
	var items []model.CutItem
	index := map[float64]int{}
	for _, l := range lengths {
		if i, ok := index[l]; ok {
			items[i].Quantity++
			continue
		}
		index[l] = len(items)
		items = append(items, model.NewCutItem(fmt.Sprintf("Cut %d", existing+len(items)+1), l, 1))
	}
	return items
}

// ─── Stock Panel ───────────────────────────────────────────

func (a *App) buildStockPanel() fyne.CanvasObject {
	a.stockContainer = container.NewVBox()
	a.refreshStockList()

	addBtn := widget.NewButtonWithIcon("Add Stock", theme.ContentAddIcon(), func() {
		a.showStockDialog(-1)
	})
	inventoryBtn := widget.NewButtonWithIcon("From Inventory", theme.StorageIcon(), func() {
		a.showAddStockFromInventory()
	})

	return container.NewBorder(
		container.NewHBox(
			widget.NewLabelWithStyle("Available Stock Lengths", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			layout.NewSpacer(),
			inventoryBtn,
			addBtn,
		),
		nil, nil, nil,
		container.NewVScroll(a.stockContainer),
	)
}

func (a *App) refreshStockList() {
	if a.stockContainer == nil {
		return
	}
	a.stockContainer.RemoveAll()

	if len(a.project.Stocks) == 0 {
		a.stockContainer.Add(widget.NewLabel("No stock defined. Click 'Add Stock' to begin."))
		return
	}

	a.stockContainer.Add(container.NewGridWithColumns(5,
		widget.NewLabelWithStyle("Label", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Length", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Price", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel(""),
		widget.NewLabel(""),
	))
	a.stockContainer.Add(widget.NewSeparator())

	for i := range a.project.Stocks {
		idx := i
		s := a.project.Stocks[idx]
		a.stockContainer.Add(container.NewGridWithColumns(5,
			widget.NewLabel(s.Label),
			widget.NewLabel(measure.Format(s.Length, a.unit())),
			widget.NewLabel(priceLabel(s.Price)),
			widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), func() {
				a.showStockDialog(idx)
			}),
			widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
				a.edit("Delete Stock", func(p *model.Project) {
					p.Stocks = append(p.Stocks[:idx], p.Stocks[idx+1:]...)
				})
			}),
		))
	}
}

// showStockDialog adds a stock length when idx is negative, otherwise edits it.
func (a *App) showStockDialog(idx int) {
	title, confirm := "Add Stock", "Add"
	s := model.StockItem{}
	if idx >= 0 {
		title, confirm = "Edit Stock", "Save"
		s = a.project.Stocks[idx]
	}

	labelEntry := widget.NewEntry()
	labelEntry.SetText(s.Label)

	lengthEntry := widget.NewEntry()
	if s.Length > 0 {
		lengthEntry.SetText(measure.Value(s.Length, a.unit()))
	}

	priceEntry := widget.NewEntry()
	priceEntry.SetText(strconv.FormatFloat(s.Price, 'f', 2, 64))

	// Common lengths for the project unit
	var presetNames []string
	for _, l := range measure.DefaultStockPresets(a.unit()) {
		presetNames = append(presetNames, measure.Format(l, a.unit()))
	}
	presetSelect := widget.NewSelect(presetNames, func(selected string) {
		if m, ok := measure.Parse(selected, a.unit()); ok {
			lengthEntry.SetText(measure.Value(m.TotalInches, a.unit()))
		}
	})
	presetSelect.PlaceHolder = "Select a common length..."

	form := dialog.NewForm(title, confirm, "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Preset Length", presetSelect),
			widget.NewFormItem("Label", labelEntry),
			widget.NewFormItem(fmt.Sprintf("Length (%s)", a.unit().Short()), lengthEntry),
			widget.NewFormItem("Price per Bar", priceEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			m, ok := measure.Parse(lengthEntry.Text, a.unit())
			if !ok {
				dialog.ShowError(fmt.Errorf("length must be a positive measurement"), a.window)
				return
			}
			price, _ := strconv.ParseFloat(strings.TrimSpace(priceEntry.Text), 64)
			if price < 0 {
				price = 0
			}
			if idx < 0 {
				a.edit("Add Stock", func(p *model.Project) {
					item := model.NewStockItem(labelEntry.Text, m.TotalInches)
					item.Price = price
					p.Stocks = append(p.Stocks, item)
				})
				return
			}
			a.edit("Edit Stock", func(p *model.Project) {
				p.Stocks[idx].Label = labelEntry.Text
				p.Stocks[idx].Length = m.TotalInches
				p.Stocks[idx].Price = price
			})
		},
		a.window,
	)
	form.Resize(fyne.NewSize(450, 340))
	form.Show()
}

// ─── Settings Panel ────────────────────────────────────────

func (a *App) buildSettingsPanel() fyne.CanvasObject {
	a.settingsContainer = container.NewVBox()
	a.refreshSettingsPanel()
	return container.NewVScroll(a.settingsContainer)
}

// refreshSettingsPanel rebuilds the settings form from the project.
func (a *App) refreshSettingsPanel() {
	if a.settingsContainer == nil {
		return
	}
	s := &a.project.Settings

	int64Entry := func(val *int64) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(strconv.FormatInt(*val, 10))
		e.OnChanged = func(text string) {
			if v, err := strconv.ParseInt(text, 10, 64); err == nil && v >= 0 {
				*val = v
			}
		}
		return e
	}

	kerfEntry := widget.NewEntry()
	kerfEntry.SetText(measure.Value(s.Kerf, a.unit()))
	kerfEntry.OnChanged = func(text string) {
		if v, ok := parseKerf(text, a.unit()); ok {
			s.Kerf = v
		}
	}

	modeSelect := widget.NewSelect(modeNames(), func(selected string) {
		s.Mode = model.SolverMode(selected)
	})
	modeSelect.SetSelected(string(s.Mode))

	var unitNames []string
	for _, u := range measure.Units {
		unitNames = append(unitNames, string(u))
	}
	unitSelect := widget.NewSelect(unitNames, func(selected string) {
		if selected == a.project.Unit {
			return
		}
		a.project.Unit = selected
		a.refreshCutsList()
		a.refreshStockList()
		a.refreshResults()
		a.refreshSettingsPanel()
	})
	unitSelect.SetSelected(string(a.unit()))

	solverSection := widget.NewCard("Solver", "", container.NewGridWithColumns(2,
		widget.NewLabel("Mode"), modeSelect,
		widget.NewLabel(fmt.Sprintf("Kerf / Blade Width (%s)", a.unit().Short())), kerfEntry,
		widget.NewLabel("Blade"), a.buildBladeSelector(),
		widget.NewLabel("Time Budget (ms)"), int64Entry(&s.TimeBudgetMs),
		widget.NewLabel(""), widget.NewButton("More Solver Settings...", a.showAdvancedSettingsDialog),
	))

	projectSection := widget.NewCard("Project", "", container.NewGridWithColumns(2,
		widget.NewLabel("Display Unit"), unitSelect,
	))

	sawSection := widget.NewCard("Saw / GCode", "", container.NewGridWithColumns(2,
		widget.NewLabel("Saw Profile"), a.buildProfileSelector(),
		widget.NewLabel(""), widget.NewButton("Manage Profiles...", a.showProfileManager),
	))

	a.settingsContainer.RemoveAll()
	a.settingsContainer.Add(solverSection)
	a.settingsContainer.Add(projectSection)
	a.settingsContainer.Add(sawSection)
	a.settingsContainer.Refresh()
}

func (a *App) buildProfileSelector() *widget.Select {
	selector := widget.NewSelect(model.GetProfileNames(), func(selected string) {
		a.project.Settings.GCodeProfile = selected
	})
	selector.SetSelected(a.project.Settings.GCodeProfile)
	return selector
}

func modeNames() []string {
	return []string{
		string(model.ModeAuto),
		string(model.ModeHeuristic),
		string(model.ModeExact),
		string(model.ModeApprox),
	}
}

// ─── Results Panel ─────────────────────────────────────────

func (a *App) buildResultsPanel() fyne.CanvasObject {
	a.resultContainer = container.NewStack()
	a.refreshResults()
	return a.resultContainer
}

func (a *App) refreshResults() {
	if a.resultContainer == nil {
		return
	}
	a.resultContainer.RemoveAll()
	if a.project.Result == nil {
		a.resultContainer.Add(widget.NewLabel("No results yet. Add cuts and stock, then click Solve."))
		a.resultContainer.Refresh()
		return
	}

	bins := widgets.RenderBinResults(a.project, a.unit())
	previewBtn := widget.NewButtonWithIcon("Stop Preview...", theme.VisibilityIcon(), a.showGCodePreview)
	offcutBtn := widget.NewButtonWithIcon("Offcuts...", theme.ContentCutIcon(), a.showOffcutsDialog)

	a.resultContainer.Add(container.NewBorder(
		container.NewHBox(layout.NewSpacer(), offcutBtn, previewBtn),
		nil, nil, nil,
		bins,
	))
	a.resultContainer.Refresh()
}

func (a *App) showGCodePreview() {
	r := a.project.Result
	if r == nil || len(r.Bins) == 0 {
		return
	}
	var names []string
	for i, b := range r.Bins {
		names = append(names, fmt.Sprintf("Bin %d (%s)", i+1, measure.Format(b.StockLength, a.unit())))
	}

	holder := container.NewStack()
	binSelect := widget.NewSelect(names, func(selected string) {
		for i, n := range names {
			if n == selected {
				holder.Objects = []fyne.CanvasObject{
					widgets.RenderGCodePreview(r.Bins[i], i, a.project.Settings),
				}
				holder.Refresh()
				return
			}
		}
	})
	binSelect.SetSelected(names[0])

	d := dialog.NewCustom("Stop Preview", "Close",
		container.NewBorder(binSelect, nil, nil, nil, holder), a.window)
	d.Resize(fyne.NewSize(800, 600))
	d.Show()
}

// ─── Solving ───────────────────────────────────────────────

func (a *App) runSolve() {
	if len(a.project.Cuts) == 0 {
		dialog.ShowInformation("Nothing to solve", "Add at least one cut first.", a.window)
		return
	}
	if len(a.project.Stocks) == 0 {
		dialog.ShowInformation("No stock", "Add at least one stock length first.", a.window)
		return
	}
	a.cancelSolve()

	id, err := a.runner.Submit(context.Background(), a.project.Request(), a.project.Settings)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.jobID = id
	a.solving = true
	a.setStatus("Solving...")
	if a.tabs != nil {
		a.tabs.SelectIndex(3) // Results tab
	}
}

func (a *App) cancelSolve() {
	if !a.solving {
		return
	}
	if err := a.runner.Cancel(a.jobID); err != nil && !errors.Is(err, worker.ErrUnknownJob) {
		a.logger.Warn("cancel failed", zap.Error(err))
	}
	a.solving = false
	a.setStatus("Cancelled")
}

// consumeEvents forwards runner events onto the UI goroutine until the
// runner closes.
func (a *App) consumeEvents() {
	for ev := range a.runner.Events() {
		ev := ev
		fyne.Do(func() { a.handleEvent(ev) })
	}
}

func (a *App) handleEvent(ev worker.Event) {
	if ev.JobID != a.jobID {
		return
	}
	switch ev.Type {
	case worker.EventProgress:
		a.setStatus(fmt.Sprintf("Solving... %d nodes explored", ev.Progress.ExploredNodes))
	case worker.EventImprovement:
		a.project.Result = &model.Report{Solution: *ev.Improvement}
		a.refreshResults()
		a.setStatus(fmt.Sprintf("Solving... best so far %d bins", ev.Improvement.BinCount))
	case worker.EventDone:
		a.solving = false
		a.project.Result = ev.Report
		a.refreshResults()
		a.setStatus(widgets.SummaryLine(*ev.Report, a.project.Stocks))
		a.runner.Forget(ev.JobID)
	case worker.EventError:
		a.solving = false
		a.setStatus("Solve failed")
		a.runner.Forget(ev.JobID)
		if engine.IsValidation(ev.Err) {
			dialog.ShowInformation("Cannot solve", ev.Err.Error(), a.window)
			return
		}
		a.logger.Error("solve failed", zap.Error(ev.Err))
		dialog.ShowError(ev.Err, a.window)
	}
}

// ─── Files ─────────────────────────────────────────────────

func (a *App) saveProject() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		path := writer.URI().Path()
		if err := project.SaveProject(path, a.project); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.rememberProject(path)
	}, a.window)
	d.SetFileName(a.project.Name + project.FileExtension)
	d.Show()
}

func (a *App) loadProject() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		path := reader.URI().Path()
		proj, err := project.LoadProject(path)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.newProject(proj)
		a.rememberProject(path)
	}, a.window)
	d.Show()
}

func (a *App) rememberProject(path string) {
	a.config.AddRecentProject(path, maxRecentProjects)
	if err := a.saveConfig(); err != nil {
		a.logger.Warn("could not save recent projects", zap.Error(err))
	}
}

// exportFile saves the current plan with one of the document exporters.
func (a *App) exportFile(defaultName string, write func(string, model.Project, measure.Unit) error) {
	if a.project.Result == nil || len(a.project.Result.Bins) == 0 {
		dialog.ShowInformation("No results", "Solve the cut list before exporting.", a.window)
		return
	}
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if err := write(path, a.project, a.unit()); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		dialog.ShowInformation("Export Complete", fmt.Sprintf("Saved to %s", path), a.window)
	}, a.window)
	d.SetFileName(defaultName)
	d.Show()
}

func (a *App) exportGCode() {
	if a.project.Result == nil || len(a.project.Result.Bins) == 0 {
		dialog.ShowInformation("No results", "Solve the cut list before exporting GCode.", a.window)
		return
	}
	code := gcode.New(a.project.Settings).GenerateProgram(a.project.Result.Solution)

	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		if _, err := writer.Write([]byte(code)); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		dialog.ShowInformation("Export Complete",
			fmt.Sprintf("GCode saved to %s", writer.URI().Path()), a.window)
	}, a.window)
	d.SetFileName(strings.TrimSuffix(a.project.Name, filepath.Ext(a.project.Name)) + ".nc")
	d.Show()
}

// ─── Import Functions ───────────────────────────────────────

func (a *App) importCuts(read func(string, measure.Unit) cutimporter.ImportResult) {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		a.handleImportResult(read(reader.URI().Path(), a.unit()))
	}, a.window)
}

func (a *App) handleImportResult(result cutimporter.ImportResult) {
	if len(result.Errors) > 0 {
		errorMsg := "Errors encountered during import:\n\n" + strings.Join(result.Errors, "\n")
		dialog.ShowError(errors.New(errorMsg), a.window)
	}
	if len(result.Warnings) > 0 {
		a.logger.Info("import warnings", zap.Strings("warnings", result.Warnings))
	}

	if len(result.Cuts) > 0 {
		a.edit("Import Cuts", func(p *model.Project) {
			p.Cuts = append(p.Cuts, result.Cuts...)
		})

		msg := fmt.Sprintf("Successfully imported %d cuts.", len(result.Cuts))
		if len(result.Errors) > 0 {
			msg += fmt.Sprintf("\n\nHowever, %d rows had errors and were skipped.", len(result.Errors))
		}
		dialog.ShowInformation("Import Complete", msg, a.window)
	}
}
