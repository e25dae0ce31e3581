package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// setupTray installs the system tray menu. It reports false when the
// driver has no tray.
func (a *Application) setupTray() bool {
	desk, ok := a.app.(desktop.App)
	if !ok {
		return false
	}

	quit := fyne.NewMenuItem("Quit", a.quit)
	quit.IsQuit = true

	menu := fyne.NewMenu("gptranslate",
		fyne.NewMenuItem("Open", a.showWindow),
		fyne.NewMenuItem("Translate clipboard", func() {
			a.showWindow()
			a.onPasteAndTranslate()
		}),
		fyne.NewMenuItemSeparator(),
		quit,
	)
	desk.SetSystemTrayMenu(menu)
	desk.SetSystemTrayIcon(GetAppIcon())
	return true
}
