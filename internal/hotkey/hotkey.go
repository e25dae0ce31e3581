package hotkey

import (
	"errors"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/rs/zerolog/log"
)

// Spec is a parsed key combination.
type Spec struct {
	Modifiers fyne.KeyModifier
	Key       fyne.KeyName
}

// ErrGlobalUnsupported means the key combination cannot be grabbed system
// wide on this platform.
var ErrGlobalUnsupported = errors.New("global hotkey not supported")

// Default is used when the configured hotkey cannot be parsed.
var Default = Spec{Modifiers: fyne.KeyModifierControl | fyne.KeyModifierAlt, Key: fyne.KeyC}

var modifierNames = map[string]fyne.KeyModifier{
	"ctrl":             fyne.KeyModifierControl,
	"control":          fyne.KeyModifierControl,
	"commandorcontrol": fyne.KeyModifierControl,
	"alt":              fyne.KeyModifierAlt,
	"option":           fyne.KeyModifierAlt,
	"shift":            fyne.KeyModifierShift,
	"super":            fyne.KeyModifierSuper,
	"command":          fyne.KeyModifierSuper,
	"cmd":              fyne.KeyModifierSuper,
	"meta":             fyne.KeyModifierSuper,
}

var namedKeys = map[string]fyne.KeyName{
	"f1":        fyne.KeyF1,
	"f2":        fyne.KeyF2,
	"f3":        fyne.KeyF3,
	"f4":        fyne.KeyF4,
	"f5":        fyne.KeyF5,
	"f6":        fyne.KeyF6,
	"f7":        fyne.KeyF7,
	"f8":        fyne.KeyF8,
	"f9":        fyne.KeyF9,
	"f10":       fyne.KeyF10,
	"f11":       fyne.KeyF11,
	"f12":       fyne.KeyF12,
	"space":     fyne.KeySpace,
	"tab":       fyne.KeyTab,
	"escape":    fyne.KeyEscape,
	"enter":     fyne.KeyReturn,
	"backspace": fyne.KeyBackspace,
	"insert":    fyne.KeyInsert,
	"delete":    fyne.KeyDelete,
	"home":      fyne.KeyHome,
	"end":       fyne.KeyEnd,
	"pageup":    fyne.KeyPageUp,
	"pagedown":  fyne.KeyPageDown,
	"left":      fyne.KeyLeft,
	"right":     fyne.KeyRight,
	"up":        fyne.KeyUp,
	"down":      fyne.KeyDown,
}

// Parse reads a '+' separated accelerator. Every part but the last is a
// modifier; the last is the key. Matching is case insensitive.
func Parse(s string) (Spec, error) {
	parts := strings.Split(s, "+")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	var spec Spec
	for _, part := range parts[:len(parts)-1] {
		mod, ok := modifierNames[strings.ToLower(part)]
		if !ok {
			return Spec{}, fmt.Errorf("unknown modifier %q in hotkey %q", part, s)
		}
		spec.Modifiers |= mod
	}

	key, ok := parseKey(parts[len(parts)-1])
	if !ok {
		return Spec{}, fmt.Errorf("unknown key %q in hotkey %q", parts[len(parts)-1], s)
	}
	spec.Key = key
	return spec, nil
}

// ParseOrDefault parses s and falls back to Ctrl+Alt+C on error.
func ParseOrDefault(s string) Spec {
	spec, err := Parse(s)
	if err != nil {
		log.Warn().Err(err).Str("hotkey", s).Msg("invalid hotkey, using default Ctrl+Alt+C")
		return Default
	}
	return spec
}

func parseKey(part string) (fyne.KeyName, bool) {
	if len(part) == 1 {
		c := strings.ToUpper(part)[0]
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			return fyne.KeyName(string(c)), true
		}
		return "", false
	}
	key, ok := namedKeys[strings.ToLower(part)]
	return key, ok
}

// Shortcut converts the spec into a shortcut that can be added to a canvas.
func (s Spec) Shortcut() *desktop.CustomShortcut {
	return &desktop.CustomShortcut{KeyName: s.Key, Modifier: s.Modifiers}
}

// Matches reports whether a typed shortcut is this key combination.
func (s Spec) Matches(cs *desktop.CustomShortcut) bool {
	return cs != nil && cs.KeyName == s.Key && cs.Modifier == s.Modifiers
}

// String renders the spec as "Ctrl+Alt+C".
func (s Spec) String() string {
	var parts []string
	if s.Modifiers&fyne.KeyModifierControl != 0 {
		parts = append(parts, "Ctrl")
	}
	if s.Modifiers&fyne.KeyModifierAlt != 0 {
		parts = append(parts, "Alt")
	}
	if s.Modifiers&fyne.KeyModifierShift != 0 {
		parts = append(parts, "Shift")
	}
	if s.Modifiers&fyne.KeyModifierSuper != 0 {
		parts = append(parts, "Super")
	}
	parts = append(parts, string(s.Key))
	return strings.Join(parts, "+")
}
