package gui

import (
	"fyne.io/fyne/v2"
)

// systemClipboard adapts the fyne clipboard for the processor. It must be
// used from a background goroutine; the calls are moved onto the UI thread.
type systemClipboard struct {
	cb fyne.Clipboard
}

func newSystemClipboard(app fyne.App) *systemClipboard {
	return &systemClipboard{cb: app.Clipboard()}
}

func (c *systemClipboard) ReadText() (string, error) {
	var text string
	fyne.DoAndWait(func() {
		text = c.cb.Content()
	})
	return text, nil
}

func (c *systemClipboard) WriteText(text string) error {
	fyne.DoAndWait(func() {
		c.cb.SetContent(text)
	})
	return nil
}
