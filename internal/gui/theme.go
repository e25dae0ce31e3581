package gui

import (
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"codeberg.org/snonux/gptranslate/internal/config"
)

// ResolveVariant returns the variant to render for a theme mode. Auto
// follows the system variant.
func ResolveVariant(mode string, system fyne.ThemeVariant) fyne.ThemeVariant {
	switch strings.ToLower(mode) {
	case config.ThemeDark:
		return theme.VariantDark
	case config.ThemeLight:
		return theme.VariantLight
	default:
		return system
	}
}

// modeTheme wraps the default theme and pins the colour variant.
type modeTheme struct {
	fyne.Theme
	mode string
}

func newModeTheme(mode string) fyne.Theme {
	return &modeTheme{Theme: theme.DefaultTheme(), mode: mode}
}

func (t *modeTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	return t.Theme.Color(name, ResolveVariant(t.mode, variant))
}
