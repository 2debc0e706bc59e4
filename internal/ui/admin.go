package ui

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/piwi3910/cutbuddy/internal/measure"
	"github.com/piwi3910/cutbuddy/internal/model"
	"github.com/piwi3910/cutbuddy/internal/project"
)

// showSettingsDialog displays the application preferences editor.
func (a *App) showSettingsDialog() {
	cfg := a.config
	unit, err := measure.ParseUnit(cfg.DefaultUnit)
	if err != nil {
		unit = measure.Inches
	}

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

	kerfEntry := widget.NewEntry()
	kerfEntry.SetText(measure.Value(cfg.DefaultKerf, unit))

	stockEntry := widget.NewEntry()
	stockEntry.SetText(formatLengthList(cfg.DefaultStockLengths, unit))
	stockEntry.SetPlaceHolder("8', 10', 12'")

	profileSelect := widget.NewSelect(model.GetProfileNames(), func(selected string) {
		cfg.DefaultGCodeProfile = selected
	})
	profileSelect.SetSelected(cfg.DefaultGCodeProfile)

	modeSelect := widget.NewSelect(modeNames(), func(selected string) {
		cfg.DefaultMode = model.SolverMode(selected)
	})
	modeSelect.SetSelected(string(cfg.DefaultMode))

	var unitNames []string
	for _, u := range measure.Units {
		unitNames = append(unitNames, string(u))
	}
	unitSelect := widget.NewSelect(unitNames, nil)
	unitSelect.SetSelected(string(unit))

	themeSelect := widget.NewSelect([]string{"system", "light", "dark"}, func(selected string) {
		cfg.Theme = selected
	})
	themeSelect.SetSelected(cfg.Theme)

	formItems := []*widget.FormItem{
		widget.NewFormItem("Theme", themeSelect),
		widget.NewFormItem("Default Unit", unitSelect),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Default Kerf", kerfEntry),
		widget.NewFormItem("Default Mode", modeSelect),
		widget.NewFormItem("Default Time Budget (ms)", int64Entry(&cfg.DefaultTimeBudgetMs)),
		widget.NewFormItem("Default Approx Budget (ms)", int64Entry(&cfg.DefaultApproxBudgetMs)),
		widget.NewFormItem("Default Max Cuts for Exact", intEntry(&cfg.DefaultMaxCutsForExact)),
		widget.NewFormItem("Default Stock Lengths", stockEntry),
		widget.NewFormItem("Default Saw Profile", profileSelect),
	}

	d := dialog.NewForm("Preferences", "Save", "Cancel", formItems,
		func(ok bool) {
			if !ok {
				return
			}
			unit := measure.Unit(unitSelect.Selected)
			kerf, ok := parseKerf(kerfEntry.Text, unit)
			if !ok {
				dialog.ShowError(fmt.Errorf("default kerf must be a length of 0 or more"), a.window)
				return
			}
			cfg.DefaultKerf = kerf
			cfg.DefaultUnit = string(unit)
			cfg.DefaultStockLengths = measure.ParseList(stockEntry.Text, unit)

			a.config = cfg
			ApplyTheme(fyne.CurrentApp(), cfg.Theme)
			if err := a.saveConfig(); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save settings: %w", err), a.window)
			} else {
				dialog.ShowInformation("Settings Saved", "Preferences apply to new projects.", a.window)
			}
		},
		a.window,
	)
	d.Resize(fyne.NewSize(520, 560))
	d.Show()
}

func formatLengthList(lengths []float64, unit measure.Unit) string {
	parts := make([]string, len(lengths))
	for i, l := range lengths {
		parts[i] = measure.Format(l, unit)
	}
	return strings.Join(parts, ", ")
}

// ─── Templates ─────────────────────────────────────────────

func (a *App) showSaveTemplateDialog() {
	nameEntry := widget.NewEntry()
	nameEntry.SetText(a.project.Name)
	descEntry := widget.NewMultiLineEntry()
	descEntry.SetPlaceHolder("What is this cut list for?")

	form := dialog.NewForm("Save as Template", "Save", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem("Description", descEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			name := strings.TrimSpace(nameEntry.Text)
			if name == "" {
				dialog.ShowError(fmt.Errorf("template name is required"), a.window)
				return
			}
			a.templates.Add(model.NewProjectTemplate(name, descEntry.Text, a.project))
			if err := project.SaveTemplates(project.DefaultTemplatePath(), a.templates); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save templates: %w", err), a.window)
				return
			}
			a.setStatus(fmt.Sprintf("Template %q saved", name))
		},
		a.window,
	)
	form.Resize(fyne.NewSize(420, 280))
	form.Show()
}

func (a *App) showNewFromTemplateDialog() {
	names := a.templates.Names()
	if len(names) == 0 {
		dialog.ShowInformation("No Templates",
			"No templates saved yet. Use File > Save as Template first.", a.window)
		return
	}

	info := widget.NewLabel("")
	info.Wrapping = fyne.TextWrapWord
	templateSelect := widget.NewSelect(names, func(selected string) {
		if t := a.templates.FindByName(selected); t != nil {
			info.SetText(fmt.Sprintf("%s\n%d cut lines, %d stock lengths",
				t.Description, len(t.Cuts), len(t.Stocks)))
		}
	})
	templateSelect.SetSelected(names[0])

	nameEntry := widget.NewEntry()
	nameEntry.SetText("Untitled")

	var form dialog.Dialog
	deleteBtn := widget.NewButton("Delete Template", func() {
		t := a.templates.FindByName(templateSelect.Selected)
		if t == nil {
			return
		}
		a.templates.Remove(t.ID)
		if err := project.SaveTemplates(project.DefaultTemplatePath(), a.templates); err != nil {
			dialog.ShowError(err, a.window)
		}
		form.Hide()
	})

	form = dialog.NewForm("New from Template", "Create", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Template", templateSelect),
			widget.NewFormItem("", info),
			widget.NewFormItem("Project Name", nameEntry),
			widget.NewFormItem("", deleteBtn),
		},
		func(ok bool) {
			if !ok {
				return
			}
			t := a.templates.FindByName(templateSelect.Selected)
			if t == nil {
				return
			}
			a.newProject(t.ToProject(nameEntry.Text))
		},
		a.window,
	)
	form.Resize(fyne.NewSize(460, 320))
	form.Show()
}

// ─── Backup ────────────────────────────────────────────────

// showImportExportDialog displays the backup and restore dialog.
func (a *App) showImportExportDialog() {
	exportBtn := widget.NewButton("Export All Data...", func() {
		d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			writer.Close()
			path := writer.URI().Path()
			backup := project.BackupData{
				Config:    a.config,
				Inventory: a.inventory,
				Templates: a.templates,
				Profiles:  model.CustomProfiles,
			}
			if err := project.ExportAllData(path, backup); err != nil {
				dialog.ShowError(err, a.window)
			} else {
				dialog.ShowInformation("Export Complete",
					fmt.Sprintf("All application data exported to:\n%s", path), a.window)
			}
		}, a.window)
		d.SetFileName("cutbuddy-backup.json")
		d.Show()
	})

	importBtn := widget.NewButton("Import All Data...", func() {
		dialog.ShowConfirm("Import Data",
			"Importing data will replace your preferences, inventory, templates and saw profiles.\n\nAre you sure you want to continue?",
			func(ok bool) {
				if !ok {
					return
				}
				d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
					if err != nil || reader == nil {
						return
					}
					defer reader.Close()
					backup, err := project.ImportAllData(reader.URI().Path())
					if err != nil {
						dialog.ShowError(err, a.window)
						return
					}
					a.restoreBackup(backup)
					dialog.ShowInformation("Import Complete",
						fmt.Sprintf("Data imported successfully from backup created at %s.", backup.CreatedAt), a.window)
				}, a.window)
				d.Show()
			},
			a.window,
		)
	})

	content := container.NewVBox(
		widget.NewLabel("Export all application data (preferences, inventory, templates, saw profiles)\nto a backup file, or import from a previously exported backup."),
		widget.NewSeparator(),
		exportBtn,
		widget.NewSeparator(),
		importBtn,
	)

	d := dialog.NewCustom("Backup / Restore", "Close", content, a.window)
	d.Resize(fyne.NewSize(480, 260))
	d.Show()
}

// restoreBackup applies a backup and writes every part back to disk.
func (a *App) restoreBackup(backup project.BackupData) {
	a.config = backup.Config
	a.inventory = backup.Inventory
	a.templates = backup.Templates

	model.CustomProfiles = nil
	for _, p := range backup.Profiles {
		if err := model.AddCustomProfile(p); err != nil {
			a.logger.Warn("skipping profile from backup", zap.String("profile", p.Name), zap.Error(err))
		}
	}

	if err := a.saveConfig(); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save imported settings: %w", err), a.window)
	}
	a.saveInventory()
	if err := project.SaveTemplates(project.DefaultTemplatePath(), a.templates); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save imported templates: %w", err), a.window)
	}
	a.persistCustomProfiles(a.window)

	ApplyTheme(fyne.CurrentApp(), a.config.Theme)
	a.refreshSettingsPanel()
}

// saveConfig persists the current app config to disk.
func (a *App) saveConfig() error {
	return project.SaveAppConfig(project.DefaultConfigPath(), a.config)
}
