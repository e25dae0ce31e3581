package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// CustomMultiLineEntry extends widget.Entry with Escape and Ctrl+Enter
// callbacks
type CustomMultiLineEntry struct {
	widget.Entry
	onEscape   func()
	onSubmit   func()
	onShortcut func(*desktop.CustomShortcut) bool
}

// NewCustomMultiLineEntry creates a new custom multi-line entry
func NewCustomMultiLineEntry() *CustomMultiLineEntry {
	entry := &CustomMultiLineEntry{}
	entry.MultiLine = true
	entry.Wrapping = fyne.TextWrapWord
	entry.ExtendBaseWidget(entry)
	return entry
}

// TypedKey handles key events
func (e *CustomMultiLineEntry) TypedKey(key *fyne.KeyEvent) {
	if key.Name == fyne.KeyEscape && e.onEscape != nil {
		e.onEscape()
		return
	}
	e.Entry.TypedKey(key)
}

// TypedShortcut submits on Ctrl+Enter. Other custom shortcuts go to the
// shortcut callback first, since a focused entry swallows window shortcuts.
func (e *CustomMultiLineEntry) TypedShortcut(s fyne.Shortcut) {
	if cs, ok := s.(*desktop.CustomShortcut); ok {
		if e.onSubmit != nil && isSubmitShortcut(cs) {
			e.onSubmit()
			return
		}
		if e.onShortcut != nil && e.onShortcut(cs) {
			return
		}
	}
	e.Entry.TypedShortcut(s)
}

func isSubmitShortcut(cs *desktop.CustomShortcut) bool {
	return cs.Modifier == fyne.KeyModifierShortcutDefault &&
		(cs.KeyName == fyne.KeyReturn || cs.KeyName == fyne.KeyEnter)
}

// SetOnEscape sets the callback for when Escape is pressed
func (e *CustomMultiLineEntry) SetOnEscape(f func()) {
	e.onEscape = f
}

// SetOnSubmit sets the callback for Ctrl+Enter
func (e *CustomMultiLineEntry) SetOnSubmit(f func()) {
	e.onSubmit = f
}

// SetOnShortcut sets the callback offered custom shortcuts; it reports
// whether it handled the shortcut
func (e *CustomMultiLineEntry) SetOnShortcut(f func(*desktop.CustomShortcut) bool) {
	e.onShortcut = f
}
