package ui

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/cutbuddy/internal/measure"
	"github.com/piwi3910/cutbuddy/internal/model"
	"github.com/piwi3910/cutbuddy/internal/project"
)

// ─── Blade Inventory Dialog ────────────────────────────────

func (a *App) showBladeInventoryDialog() {
	bladeList := container.NewVBox()
	var refreshList func()

	refreshList = func() {
		bladeList.RemoveAll()

		if len(a.inventory.Blades) == 0 {
			bladeList.Add(widget.NewLabel("No blades defined."))
			return
		}

		bladeList.Add(container.NewGridWithColumns(4,
			widget.NewLabelWithStyle("Name", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("Kerf", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabel(""),
			widget.NewLabel(""),
		))
		bladeList.Add(widget.NewSeparator())

		for i := range a.inventory.Blades {
			idx := i
			b := a.inventory.Blades[idx]
			bladeList.Add(container.NewGridWithColumns(4,
				widget.NewLabel(b.Name),
				widget.NewLabel(measure.Format(b.Kerf, a.unit())),
				widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), func() {
					a.showBladeDialog(idx, refreshList)
				}),
				widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
					a.inventory.Blades = append(a.inventory.Blades[:idx], a.inventory.Blades[idx+1:]...)
					a.saveInventory()
					refreshList()
				}),
			))
		}
	}
	refreshList()

	toolbar := container.NewHBox(
		widget.NewButtonWithIcon("Add Blade", theme.ContentAddIcon(), func() {
			a.showBladeDialog(-1, refreshList)
		}),
		layout.NewSpacer(),
		widget.NewButtonWithIcon("Import...", theme.FolderOpenIcon(), func() {
			a.importInventory(refreshList)
		}),
		widget.NewButtonWithIcon("Export...", theme.DocumentSaveIcon(), func() {
			a.exportInventory()
		}),
	)

	d := dialog.NewCustom("Blade Inventory", "Close",
		container.NewBorder(toolbar, nil, nil, nil, container.NewVScroll(bladeList)), a.window)
	d.Resize(fyne.NewSize(600, 450))
	d.Show()
}

// showBladeDialog adds a blade when idx is negative, otherwise edits it.
func (a *App) showBladeDialog(idx int, onDone func()) {
	title, confirm := "Add Blade", "Add"
	blade := model.BladeProfile{Name: "New Blade", Kerf: a.project.Settings.Kerf}
	if idx >= 0 {
		title, confirm = "Edit Blade", "Save"
		blade = a.inventory.Blades[idx]
	}

	nameEntry := widget.NewEntry()
	nameEntry.SetText(blade.Name)
	kerfEntry := widget.NewEntry()
	kerfEntry.SetText(measure.Value(blade.Kerf, a.unit()))
	kerfEntry.SetPlaceHolder("e.g. 1/8 or 3 mm")

	form := dialog.NewForm(title, confirm, "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem(fmt.Sprintf("Kerf (%s)", a.unit().Short()), kerfEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			kerf, ok := parseKerf(kerfEntry.Text, a.unit())
			if !ok {
				dialog.ShowError(fmt.Errorf("kerf must be a length of 0 or more"), a.window)
				return
			}
			name := strings.TrimSpace(nameEntry.Text)
			if idx < 0 {
				a.inventory.Blades = append(a.inventory.Blades, model.NewBladeProfile(name, kerf))
			} else {
				a.inventory.Blades[idx].Name = name
				a.inventory.Blades[idx].Kerf = kerf
			}
			a.saveInventory()
			onDone()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(400, 220))
	form.Show()
}

// ─── Stock Inventory Dialog ────────────────────────────────

func (a *App) showStockInventoryDialog() {
	stockList := container.NewVBox()
	var refreshList func()

	refreshList = func() {
		stockList.RemoveAll()

		if len(a.inventory.Stocks) == 0 {
			stockList.Add(widget.NewLabel("No stock presets defined."))
			return
		}

		stockList.Add(container.NewGridWithColumns(6,
			widget.NewLabelWithStyle("Name", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("Length", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("Material", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("Price/Bar", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabel(""),
			widget.NewLabel(""),
		))
		stockList.Add(widget.NewSeparator())

		for i := range a.inventory.Stocks {
			idx := i
			s := a.inventory.Stocks[idx]
			stockList.Add(container.NewGridWithColumns(6,
				widget.NewLabel(s.Name),
				widget.NewLabel(measure.Format(s.Length, a.unit())),
				widget.NewLabel(s.Material),
				widget.NewLabel(priceLabel(s.Price)),
				widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), func() {
					a.showStockPresetDialog(idx, refreshList)
				}),
				widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
					a.inventory.Stocks = append(a.inventory.Stocks[:idx], a.inventory.Stocks[idx+1:]...)
					a.saveInventory()
					refreshList()
				}),
			))
		}
	}
	refreshList()

	toolbar := container.NewHBox(
		widget.NewButtonWithIcon("Add Stock Preset", theme.ContentAddIcon(), func() {
			a.showStockPresetDialog(-1, refreshList)
		}),
		layout.NewSpacer(),
		widget.NewButtonWithIcon("Import...", theme.FolderOpenIcon(), func() {
			a.importInventory(refreshList)
		}),
		widget.NewButtonWithIcon("Export...", theme.DocumentSaveIcon(), func() {
			a.exportInventory()
		}),
	)

	d := dialog.NewCustom("Stock Inventory", "Close",
		container.NewBorder(toolbar, nil, nil, nil, container.NewVScroll(stockList)), a.window)
	d.Resize(fyne.NewSize(700, 500))
	d.Show()
}

// showStockPresetDialog adds a preset when idx is negative, otherwise edits it.
func (a *App) showStockPresetDialog(idx int, onDone func()) {
	title, confirm := "Add Stock Preset", "Add"
	preset := model.StockPreset{Name: "New Stock", Length: 96, Material: "SPF"}
	if idx >= 0 {
		title, confirm = "Edit Stock Preset", "Save"
		preset = a.inventory.Stocks[idx]
	}

	nameEntry := widget.NewEntry()
	nameEntry.SetText(preset.Name)
	lengthEntry := widget.NewEntry()
	lengthEntry.SetText(measure.Value(preset.Length, a.unit()))
	lengthEntry.SetPlaceHolder(`e.g. 8' or 2.4 m`)
	materialEntry := widget.NewEntry()
	materialEntry.SetText(preset.Material)
	materialEntry.SetPlaceHolder("e.g., SPF, Oak, Aluminium")
	priceEntry := widget.NewEntry()
	priceEntry.SetText(strconv.FormatFloat(preset.Price, 'f', 2, 64))

	form := dialog.NewForm(title, confirm, "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem(fmt.Sprintf("Length (%s)", a.unit().Short()), lengthEntry),
			widget.NewFormItem("Material", materialEntry),
			widget.NewFormItem("Price per Bar", priceEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			m, ok := measure.Parse(lengthEntry.Text, a.unit())
			if !ok {
				dialog.ShowError(fmt.Errorf("could not read length %q", lengthEntry.Text), a.window)
				return
			}
			price, _ := strconv.ParseFloat(strings.TrimSpace(priceEntry.Text), 64)
			if price < 0 {
				price = 0
			}
			if idx < 0 {
				a.inventory.Stocks = append(a.inventory.Stocks,
					model.NewStockPresetWithPrice(nameEntry.Text, m.TotalInches, materialEntry.Text, price))
			} else {
				a.inventory.Stocks[idx].Name = nameEntry.Text
				a.inventory.Stocks[idx].Length = m.TotalInches
				a.inventory.Stocks[idx].Material = materialEntry.Text
				a.inventory.Stocks[idx].Price = price
			}
			a.saveInventory()
			onDone()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(400, 320))
	form.Show()
}

// ─── Import / Export ───────────────────────────────────────

func (a *App) importInventory(onDone func()) {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		merged, err := project.ImportInventory(reader.URI().Path(), a.inventory)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.inventory = merged
		a.saveInventory()
		onDone()
		dialog.ShowInformation("Import Complete",
			fmt.Sprintf("Inventory now contains %d blades and %d stock presets.",
				len(a.inventory.Blades), len(a.inventory.Stocks)),
			a.window)
	}, a.window)
}

func (a *App) exportInventory() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()

		if err := project.SaveInventory(writer.URI().Path(), a.inventory); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		dialog.ShowInformation("Export Complete",
			fmt.Sprintf("Inventory exported to %s", writer.URI().Path()), a.window)
	}, a.window)
	d.SetFileName("inventory.json")
	d.Show()
}

// ─── Inventory Integration Helpers ─────────────────────────

func (a *App) saveInventory() {
	if a.inventoryPath == "" {
		return
	}
	if err := project.SaveInventory(a.inventoryPath, a.inventory); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save inventory: %w", err), a.window)
	}
}

// showAddStockFromInventory adds a project stock length from a saved preset.
func (a *App) showAddStockFromInventory() {
	if len(a.inventory.Stocks) == 0 {
		dialog.ShowInformation("No Presets",
			"No stock presets defined. Use Tools > Stock Inventory to add presets.",
			a.window)
		return
	}

	names := a.inventory.StockNames()
	stockSelect := widget.NewSelect(names, nil)
	stockSelect.SetSelected(names[0])

	form := dialog.NewForm("Add from Inventory", "Add", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Stock Preset", stockSelect)},
		func(ok bool) {
			if !ok {
				return
			}
			preset := a.inventory.FindStockByName(stockSelect.Selected)
			if preset == nil {
				return
			}
			a.edit("Add Stock", func(p *model.Project) {
				p.Stocks = append(p.Stocks, preset.ToStockItem())
			})
		},
		a.window,
	)
	form.Resize(fyne.NewSize(400, 200))
	form.Show()
}

// buildBladeSelector loads a saved blade's kerf into the project settings.
func (a *App) buildBladeSelector() fyne.CanvasObject {
	names := a.inventory.BladeNames()
	if len(names) == 0 {
		return widget.NewLabel("No blades. Use Tools > Blade Inventory to add some.")
	}

	bladeSelect := widget.NewSelect(names, func(selected string) {
		blade := a.inventory.FindBladeByName(selected)
		if blade == nil {
			return
		}
		a.edit("Change Blade", func(p *model.Project) {
			blade.ApplyToSettings(&p.Settings)
		})
		a.refreshSettingsPanel()
	})
	bladeSelect.PlaceHolder = "Load kerf from blade..."
	return bladeSelect
}

// parseKerf reads a kerf phrase. Unlike cut lengths, zero is allowed.
func parseKerf(text string, unit measure.Unit) (float64, bool) {
	text = strings.TrimSpace(text)
	if v, err := strconv.ParseFloat(text, 64); err == nil {
		if v < 0 {
			return 0, false
		}
		return unit.ToInches(v), true
	}
	m, ok := measure.Parse(text, unit)
	if !ok {
		return 0, false
	}
	return m.TotalInches, true
}

func priceLabel(price float64) string {
	if price <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f", price)
}
