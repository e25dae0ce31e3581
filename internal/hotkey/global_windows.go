package hotkey

import (
	"fyne.io/fyne/v2"
	xhotkey "golang.design/x/hotkey"
)

var globalModifiers = []struct {
	mod    fyne.KeyModifier
	global xhotkey.Modifier
}{
	{fyne.KeyModifierControl, xhotkey.ModCtrl},
	{fyne.KeyModifierAlt, xhotkey.ModAlt},
	{fyne.KeyModifierShift, xhotkey.ModShift},
	{fyne.KeyModifierSuper, xhotkey.ModWin},
}
