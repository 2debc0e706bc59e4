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

	"github.com/piwi3910/cutbuddy/internal/gcode"
	"github.com/piwi3910/cutbuddy/internal/model"
	"github.com/piwi3910/cutbuddy/internal/project"
)

// sampleBin is the bar used by the profile preview.
var sampleBin = model.Bin{StockLength: 96, Cuts: []float64{36, 24.5}, Used: 60.625, Remaining: 35.375}

// showProfileManager opens the saw profile manager where users can view,
// create, duplicate, edit, delete, import and export profiles.
func (a *App) showProfileManager() {
	w := fyne.CurrentApp().NewWindow("Saw Profile Manager")
	w.Resize(fyne.NewSize(700, 500))

	var listWidget *widget.List
	selectedIdx := -1
	profiles := model.AllProfiles()

	detailContainer := container.NewVBox(
		widget.NewLabel("Select a profile to view details."),
	)

	reset := func() {
		profiles = model.AllProfiles()
		selectedIdx = -1
		listWidget.Refresh()
		listWidget.UnselectAll()
		detailContainer.RemoveAll()
		detailContainer.Add(widget.NewLabel("Select a profile to view details."))
		detailContainer.Refresh()
		a.refreshSettingsPanel()
	}

	listWidget = widget.NewList(
		func() int {
			return len(profiles)
		},
		func() fyne.CanvasObject {
			return container.NewHBox(
				widget.NewIcon(theme.DocumentIcon()),
				widget.NewLabel("Profile Name"),
				layout.NewSpacer(),
				widget.NewLabel("(built-in)"),
			)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			box := obj.(*fyne.Container)
			p := profiles[id]
			box.Objects[1].(*widget.Label).SetText(p.Name)
			if p.BuiltIn {
				box.Objects[3].(*widget.Label).SetText("(built-in)")
			} else {
				box.Objects[3].(*widget.Label).SetText("(custom)")
			}
		},
	)

	listWidget.OnSelected = func(id widget.ListItemID) {
		selectedIdx = id
		a.showProfileDetail(detailContainer, profiles[id], w, reset)
	}

	selected := func(action string) (model.GCodeProfile, bool) {
		if selectedIdx < 0 || selectedIdx >= len(profiles) {
			dialog.ShowInformation("No Selection", "Select a profile to "+action+".", w)
			return model.GCodeProfile{}, false
		}
		return profiles[selectedIdx], true
	}

	newBtn := widget.NewButtonWithIcon("New", theme.ContentAddIcon(), func() {
		a.promptProfileName(w, "New Saw Profile", "", func(name string) error {
			return model.AddCustomProfile(model.NewCustomProfile(name))
		}, reset)
	})

	duplicateBtn := widget.NewButtonWithIcon("Duplicate", theme.ContentCopyIcon(), func() {
		src, ok := selected("duplicate")
		if !ok {
			return
		}
		a.promptProfileName(w, "Duplicate Profile", src.Name+" (Copy)", func(name string) error {
			return model.AddCustomProfile(duplicateProfile(src, name))
		}, reset)
	})

	importBtn := widget.NewButtonWithIcon("Import", theme.FolderOpenIcon(), func() {
		a.importProfileDialog(w, reset)
	})

	exportBtn := widget.NewButtonWithIcon("Export", theme.DocumentSaveIcon(), func() {
		if p, ok := selected("export"); ok {
			a.exportProfileDialog(p, w)
		}
	})

	deleteBtn := widget.NewButtonWithIcon("Delete", theme.DeleteIcon(), func() {
		p, ok := selected("delete")
		if !ok {
			return
		}
		if p.BuiltIn {
			dialog.ShowInformation("Cannot Delete", "Built-in profiles cannot be deleted.", w)
			return
		}
		dialog.ShowConfirm("Delete Profile", fmt.Sprintf("Delete custom profile %q?", p.Name),
			func(ok bool) {
				if !ok {
					return
				}
				if err := model.RemoveCustomProfile(p.Name); err != nil {
					dialog.ShowError(err, w)
					return
				}
				a.persistCustomProfiles(w)
				reset()
			}, w)
	})

	toolbar := container.NewHBox(newBtn, duplicateBtn, importBtn, exportBtn, deleteBtn)

	listPanel := container.NewBorder(
		widget.NewLabelWithStyle("Profiles", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		toolbar,
		nil, nil,
		listWidget,
	)
	detailPanel := container.NewBorder(
		widget.NewLabelWithStyle("Profile Details", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		nil, nil, nil,
		container.NewVScroll(detailContainer),
	)

	split := container.NewHSplit(listPanel, detailPanel)
	split.SetOffset(0.35)

	w.SetContent(split)
	w.Show()
}

func (a *App) showProfileDetail(c *fyne.Container, p model.GCodeProfile, w fyne.Window, onChanged func()) {
	c.RemoveAll()

	bold := fyne.TextStyle{Bold: true}
	info := container.NewVBox(
		widget.NewLabelWithStyle(p.Name, fyne.TextAlignLeading, bold),
		widget.NewLabel(p.Description),
		widget.NewSeparator(),
		container.NewGridWithColumns(2,
			widget.NewLabel("Units:"), widget.NewLabel(p.Units),
			widget.NewLabel("Decimal Places:"), widget.NewLabel(strconv.Itoa(p.DecimalPlaces)),
			widget.NewLabel("Stop Axis:"), widget.NewLabel(p.Axis),
			widget.NewLabel("Rapid Move:"), widget.NewLabel(p.RapidMove),
			widget.NewLabel("Feed Move:"), widget.NewLabel(p.FeedMove),
			widget.NewLabel("Load Stock:"), widget.NewLabel(p.LoadStock),
			widget.NewLabel("Comment:"), widget.NewLabel(fmt.Sprintf("%q %q", p.CommentPrefix, p.CommentSuffix)),
		),
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Cut Cycle", fyne.TextAlignLeading, bold),
		widget.NewLabel(p.CutCycle),
		widget.NewLabelWithStyle("Start Code", fyne.TextAlignLeading, bold),
		widget.NewLabel(strings.Join(p.StartCode, "\n")),
		widget.NewLabelWithStyle("End Code", fyne.TextAlignLeading, bold),
		widget.NewLabel(strings.Join(p.EndCode, "\n")),
	)

	if p.BuiltIn {
		c.Add(widget.NewLabel("Built-in profiles are read-only. Duplicate to customize."))
	} else {
		c.Add(widget.NewButtonWithIcon("Edit Profile", theme.DocumentCreateIcon(), func() {
			a.showEditProfileDialog(p, onChanged)
		}))
	}
	c.Add(info)
	c.Refresh()
}

// promptProfileName asks for a profile name and hands it to create.
func (a *App) promptProfileName(w fyne.Window, title, initial string, create func(string) error, onCreated func()) {
	nameEntry := widget.NewEntry()
	nameEntry.SetText(initial)
	nameEntry.SetPlaceHolder("My Saw Profile")

	form := dialog.NewForm(title, "Create", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Profile Name", nameEntry)},
		func(ok bool) {
			if !ok {
				return
			}
			name := strings.TrimSpace(nameEntry.Text)
			if name == "" {
				dialog.ShowError(fmt.Errorf("profile name cannot be empty"), w)
				return
			}
			if err := create(name); err != nil {
				dialog.ShowError(err, w)
				return
			}
			a.persistCustomProfiles(w)
			onCreated()
		},
		w,
	)
	form.Resize(fyne.NewSize(400, 150))
	form.Show()
}

// duplicateProfile copies src under a new name as a custom profile.
func duplicateProfile(src model.GCodeProfile, name string) model.GCodeProfile {
	dup := src
	dup.Name = name
	dup.BuiltIn = false
	dup.Description = "Copy of " + src.Name
	dup.StartCode = append([]string(nil), src.StartCode...)
	dup.EndCode = append([]string(nil), src.EndCode...)
	return dup
}

func (a *App) showEditProfileDialog(p model.GCodeProfile, onSaved func()) {
	editWindow := fyne.CurrentApp().NewWindow("Edit Profile: " + p.Name)

	nameEntry := widget.NewEntry()
	nameEntry.SetText(p.Name)
	descEntry := widget.NewEntry()
	descEntry.SetText(p.Description)
	unitsSelect := widget.NewSelect([]string{"inches", "mm"}, nil)
	unitsSelect.SetSelected(p.Units)
	decimalEntry := widget.NewEntry()
	decimalEntry.SetText(strconv.Itoa(p.DecimalPlaces))

	axisEntry := widget.NewEntry()
	axisEntry.SetText(p.Axis)
	rapidEntry := widget.NewEntry()
	rapidEntry.SetText(p.RapidMove)
	feedEntry := widget.NewEntry()
	feedEntry.SetText(p.FeedMove)
	loadEntry := widget.NewEntry()
	loadEntry.SetText(p.LoadStock)
	cutCycleEntry := widget.NewMultiLineEntry()
	cutCycleEntry.SetText(p.CutCycle)
	cutCycleEntry.SetMinRowsVisible(3)

	commentPrefixEntry := widget.NewEntry()
	commentPrefixEntry.SetText(p.CommentPrefix)
	commentSuffixEntry := widget.NewEntry()
	commentSuffixEntry.SetText(p.CommentSuffix)

	startCodeEntry := widget.NewMultiLineEntry()
	startCodeEntry.SetText(strings.Join(p.StartCode, "\n"))
	startCodeEntry.SetMinRowsVisible(4)
	endCodeEntry := widget.NewMultiLineEntry()
	endCodeEntry.SetText(strings.Join(p.EndCode, "\n"))
	endCodeEntry.SetMinRowsVisible(4)

	build := func() (model.GCodeProfile, error) {
		name := strings.TrimSpace(nameEntry.Text)
		if name == "" {
			return model.GCodeProfile{}, fmt.Errorf("profile name cannot be empty")
		}
		decimals, err := strconv.Atoi(strings.TrimSpace(decimalEntry.Text))
		if err != nil || decimals < 0 || decimals > 10 {
			return model.GCodeProfile{}, fmt.Errorf("decimal places must be a number between 0 and 10")
		}
		if strings.TrimSpace(cutCycleEntry.Text) == "" {
			return model.GCodeProfile{}, fmt.Errorf("cut cycle cannot be empty")
		}
		return model.GCodeProfile{
			Name:          name,
			Description:   descEntry.Text,
			Units:         unitsSelect.Selected,
			StartCode:     splitLines(startCodeEntry.Text),
			Axis:          strings.ToUpper(strings.TrimSpace(axisEntry.Text)),
			RapidMove:     strings.TrimSpace(rapidEntry.Text),
			FeedMove:      strings.TrimSpace(feedEntry.Text),
			CutCycle:      strings.Join(splitLines(cutCycleEntry.Text), "\n"),
			LoadStock:     strings.TrimSpace(loadEntry.Text),
			EndCode:       splitLines(endCodeEntry.Text),
			CommentPrefix: commentPrefixEntry.Text,
			CommentSuffix: commentSuffixEntry.Text,
			DecimalPlaces: decimals,
		}, nil
	}

	previewEntry := widget.NewMultiLineEntry()
	previewEntry.Disable()
	previewEntry.SetMinRowsVisible(12)
	updatePreview := func() {
		draft, err := build()
		if err != nil {
			previewEntry.SetText(err.Error())
			return
		}
		previewEntry.SetText(gcode.NewWithProfile(a.project.Settings, draft).GenerateBin(sampleBin, 1))
	}
	updatePreview()

	generalTab := container.NewTabItem("General", container.NewGridWithColumns(2,
		widget.NewLabel("Name"), nameEntry,
		widget.NewLabel("Description"), descEntry,
		widget.NewLabel("Units"), unitsSelect,
		widget.NewLabel("Decimal Places"), decimalEntry,
		widget.NewLabel("Comment Prefix"), commentPrefixEntry,
		widget.NewLabel("Comment Suffix"), commentSuffixEntry,
	))
	motionTab := container.NewTabItem("Stop / Saw", container.NewVBox(
		container.NewGridWithColumns(2,
			widget.NewLabel("Stop Axis"), axisEntry,
			widget.NewLabel("Rapid Move Command"), rapidEntry,
			widget.NewLabel("Feed Move Command"), feedEntry,
			widget.NewLabel("Load Stock Prompt"), loadEntry,
		),
		widget.NewLabelWithStyle("Cut Cycle (one command per line)", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		cutCycleEntry,
	))
	codeTab := container.NewTabItem("Start/End Code", container.NewVBox(
		widget.NewLabelWithStyle("Start Code (one command per line)", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		startCodeEntry,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("End Code (one command per line)", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		endCodeEntry,
	))
	previewTab := container.NewTabItem("Preview", container.NewBorder(
		widget.NewButtonWithIcon("Refresh Preview", theme.ViewRefreshIcon(), updatePreview),
		nil, nil, nil,
		previewEntry,
	))

	saveBtn := widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), func() {
		updated, err := build()
		if err != nil {
			dialog.ShowError(err, editWindow)
			return
		}
		if updated.Name != p.Name {
			_ = model.RemoveCustomProfile(p.Name)
		}
		if err := model.AddCustomProfile(updated); err != nil {
			dialog.ShowError(err, editWindow)
			return
		}
		a.persistCustomProfiles(editWindow)
		onSaved()
		editWindow.Close()
	})
	saveBtn.Importance = widget.HighImportance

	editWindow.SetContent(container.NewBorder(
		nil,
		container.NewHBox(layout.NewSpacer(), saveBtn),
		nil, nil,
		container.NewAppTabs(generalTab, motionTab, codeTab, previewTab),
	))
	editWindow.Resize(fyne.NewSize(600, 500))
	editWindow.Show()
}

func (a *App) importProfileDialog(w fyne.Window, onImported func()) {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		profile, err := project.ImportProfile(reader.URI().Path())
		if err != nil {
			dialog.ShowError(fmt.Errorf("failed to import profile: %w", err), w)
			return
		}
		if err := model.AddCustomProfile(profile); err != nil {
			dialog.ShowError(err, w)
			return
		}
		a.persistCustomProfiles(w)
		onImported()
		dialog.ShowInformation("Import Complete",
			fmt.Sprintf("Profile %q imported successfully.", profile.Name), w)
	}, w)
}

func (a *App) exportProfileDialog(p model.GCodeProfile, w fyne.Window) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()

		if err := project.ExportProfile(writer.URI().Path(), p); err != nil {
			dialog.ShowError(fmt.Errorf("failed to export profile: %w", err), w)
			return
		}
		dialog.ShowInformation("Export Complete",
			fmt.Sprintf("Profile %q exported successfully.", p.Name), w)
	}, w)
	d.SetFileName(profileFileName(p.Name))
	d.Show()
}

// persistCustomProfiles saves the current custom profiles to disk.
func (a *App) persistCustomProfiles(w fyne.Window) {
	if err := project.SaveCustomProfiles(project.DefaultProfilesPath(), model.CustomProfiles); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save profiles: %w", err), w)
	}
}

func profileFileName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_") + "_profile.json"
}

// splitLines splits a multiline string into trimmed, non-empty lines.
func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
