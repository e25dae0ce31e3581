package hotkey

import (
	"fyne.io/fyne/v2"
	xhotkey "golang.design/x/hotkey"
)

// X11 reports Alt as Mod1 and Super as Mod4.
var globalModifiers = []struct {
	mod    fyne.KeyModifier
	global xhotkey.Modifier
}{
	{fyne.KeyModifierControl, xhotkey.ModCtrl},
	{fyne.KeyModifierAlt, xhotkey.Mod1},
	{fyne.KeyModifierShift, xhotkey.ModShift},
	{fyne.KeyModifierSuper, xhotkey.Mod4},
}
