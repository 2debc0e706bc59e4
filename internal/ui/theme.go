package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// CutBuddyTheme wraps the default Fyne theme with compact sizing overrides
// for a dense cut-list layout.
type CutBuddyTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
	system  bool
}

// NewCutBuddyTheme follows the system light/dark setting.
func NewCutBuddyTheme() *CutBuddyTheme {
	return &CutBuddyTheme{
		base:   theme.DefaultTheme(),
		system: true,
	}
}

// NewCutBuddyThemeWithVariant pins the theme to a light or dark variant.
func NewCutBuddyThemeWithVariant(variant fyne.ThemeVariant) *CutBuddyTheme {
	return &CutBuddyTheme{
		base:    theme.DefaultTheme(),
		variant: variant,
	}
}

// ThemeFor maps a preference value ("light", "dark", "system") to a theme.
func ThemeFor(name string) *CutBuddyTheme {
	switch name {
	case "light":
		return NewCutBuddyThemeWithVariant(theme.VariantLight)
	case "dark":
		return NewCutBuddyThemeWithVariant(theme.VariantDark)
	default:
		return NewCutBuddyTheme()
	}
}

// ApplyTheme installs the theme named by a preference value.
func ApplyTheme(app fyne.App, name string) {
	if app == nil {
		return
	}
	app.Settings().SetTheme(ThemeFor(name))
}

// Color delegates to the base theme, with the pinned variant if any.
func (t *CutBuddyTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if !t.system {
		variant = t.variant
	}
	return t.base.Color(name, variant)
}

// Font delegates to the base theme.
func (t *CutBuddyTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

// Icon delegates to the base theme.
func (t *CutBuddyTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns compact sizing overrides.
func (t *CutBuddyTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 12
	case theme.SizeNameCaptionText:
		return 9
	case theme.SizeNameHeadingText:
		return 20
	case theme.SizeNameSubHeadingText:
		return 15
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameInlineIcon:
		return 16
	default:
		return t.base.Size(name)
	}
}
