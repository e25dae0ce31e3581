package gui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
	"github.com/rs/zerolog/log"

	"codeberg.org/snonux/gptranslate/internal"
	"codeberg.org/snonux/gptranslate/internal/config"
	"codeberg.org/snonux/gptranslate/internal/hotkey"
	"codeberg.org/snonux/gptranslate/internal/processor"
	"codeberg.org/snonux/gptranslate/internal/translation"
)

const (
	appID           = "org.codeberg.snonux.gptranslate"
	shutdownTimeout = 2 * time.Second
)

// Options configures the desktop application
type Options struct {
	// App defaults to a new fyne application
	App fyne.App
	// Clipboard defaults to the system clipboard
	Clipboard processor.Clipboard
	// StartHidden keeps the window in the tray on start (login item)
	StartHidden bool
	// Log is shown in the log dialog when set
	Log *LogViewer
	// RegisterHotkey grabs the hotkey system wide; defaults to
	// hotkey.RegisterGlobal. On error the hotkey becomes a window shortcut.
	RegisterHotkey RegisterHotkeyFunc
}

// HotkeyRegistration is a system-wide hotkey grab.
type HotkeyRegistration interface {
	Unregister() error
}

// RegisterHotkeyFunc grabs spec system wide and calls fn on every press.
type RegisterHotkeyFunc func(spec hotkey.Spec, fn func()) (HotkeyRegistration, error)

func registerGlobalHotkey(spec hotkey.Spec, fn func()) (HotkeyRegistration, error) {
	g, err := hotkey.RegisterGlobal(spec, fn)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Application represents the main GUI application
type Application struct {
	// Fyne components
	app    fyne.App
	window fyne.Window

	proc      *processor.Processor
	clipboard processor.Clipboard
	logView   *LogViewer

	startHidden bool
	hasTray     bool

	// UI elements
	sourceEntry   *CustomMultiLineEntry
	resultEntry   *widget.Entry
	languageLabel *widget.Label
	statusLabel   *widget.Label

	translateButton *ttwidget.Button
	pasteButton     *ttwidget.Button
	copyButton      *ttwidget.Button
	historyButton   *ttwidget.Button
	settingsButton  *ttwidget.Button
	logButton       *ttwidget.Button

	// Hotkey grabbed system wide, or registered on the window canvas
	// when the grab failed
	hotkey         hotkey.Spec
	registerGlobal RegisterHotkeyFunc
	global         HotkeyRegistration
	shortcut       *desktop.CustomShortcut

	// Background processing
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
	busy   int
}

// New creates a new GUI application
func New(proc *processor.Processor, opts Options) *Application {
	myApp := opts.App
	if myApp == nil {
		myApp = app.NewWithID(appID)
	}
	myApp.SetIcon(GetAppIcon())

	ctx, cancel := context.WithCancel(context.Background())

	a := &Application{
		app:            myApp,
		proc:           proc,
		clipboard:      opts.Clipboard,
		logView:        opts.Log,
		startHidden:    opts.StartHidden,
		registerGlobal: opts.RegisterHotkey,
		ctx:            ctx,
		cancel:         cancel,
	}
	if a.clipboard == nil {
		a.clipboard = newSystemClipboard(myApp)
	}
	if a.registerGlobal == nil {
		a.registerGlobal = registerGlobalHotkey
	}

	a.setupUI()
	a.hasTray = a.setupTray()

	cfg := proc.Config()
	a.applyTheme(cfg.Theme)
	a.registerHotkey(cfg.Hotkey)

	proc.OnConfigChange(func(old, updated *config.Config) {
		fyne.Do(func() {
			a.applyConfig(old, updated)
		})
	})

	return a
}

// setupUI creates the main user interface
func (a *Application) setupUI() {
	a.window = a.app.NewWindow(fmt.Sprintf("gptranslate v%s", internal.Version))
	a.window.SetIcon(GetAppIcon())
	a.window.Resize(fyne.NewSize(760, 560))

	a.sourceEntry = NewCustomMultiLineEntry()
	a.sourceEntry.SetPlaceHolder("Text to translate... (Ctrl+Enter translates, Escape hides)")
	a.sourceEntry.SetOnSubmit(a.onTranslate)
	a.sourceEntry.SetOnEscape(a.onEscape)
	a.sourceEntry.SetOnShortcut(func(cs *desktop.CustomShortcut) bool {
		if a.shortcut == nil || !a.hotkey.Matches(cs) {
			return false
		}
		a.onHotkey(cs)
		return true
	})

	a.resultEntry = widget.NewMultiLineEntry()
	a.resultEntry.Wrapping = fyne.TextWrapWord
	a.resultEntry.SetPlaceHolder("Translation")

	a.languageLabel = widget.NewLabel("")
	a.languageLabel.TextStyle = fyne.TextStyle{Italic: true}

	a.statusLabel = widget.NewLabel("Ready")

	// Tooltips are set once the tooltip layer exists
	a.translateButton = ttwidget.NewButtonWithIcon("Translate", theme.ConfirmIcon(), a.onTranslate)
	a.translateButton.Importance = widget.HighImportance
	a.pasteButton = ttwidget.NewButtonWithIcon("", theme.ContentPasteIcon(), a.onPasteAndTranslate)
	a.copyButton = ttwidget.NewButtonWithIcon("", theme.ContentCopyIcon(), a.onCopy)
	a.historyButton = ttwidget.NewButtonWithIcon("", theme.HistoryIcon(), a.onShowHistory)
	a.settingsButton = ttwidget.NewButtonWithIcon("", theme.SettingsIcon(), a.onShowSettings)
	a.logButton = ttwidget.NewButtonWithIcon("", theme.ListIcon(), a.onShowLog)
	if a.logView == nil {
		a.logButton.Hide()
	}

	toolbar := container.NewHBox(
		a.translateButton,
		a.pasteButton,
		a.copyButton,
		widget.NewSeparator(),
		a.historyButton,
		a.settingsButton,
		a.logButton,
	)

	panes := container.NewVSplit(
		container.NewBorder(widget.NewLabel("Original"), nil, nil, nil, a.sourceEntry),
		container.NewBorder(container.NewHBox(widget.NewLabel("Translation"), a.languageLabel), nil, nil, nil, a.resultEntry),
	)
	panes.SetOffset(0.45)

	content := container.NewBorder(
		container.NewVBox(toolbar, widget.NewSeparator()),
		a.statusLabel,
		nil, nil,
		panes,
	)

	// Add the tooltip layer to enable tooltips
	a.window.SetContent(fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas()))
	a.setupTooltips()

	a.window.SetCloseIntercept(a.onClose)
}

// setupTooltips sets up all tooltips after the tooltip layer has been created
func (a *Application) setupTooltips() {
	a.translateButton.SetToolTip("Translate the original text (Ctrl+Enter)")
	a.pasteButton.SetToolTip("Paste the clipboard and translate")
	a.copyButton.SetToolTip("Copy the translation")
	a.historyButton.SetToolTip("Translation history")
	a.settingsButton.SetToolTip("Settings")
	a.logButton.SetToolTip("Log messages")
}

// Run starts the GUI application and blocks until it quits
func (a *Application) Run() {
	if a.startHidden && a.hasTray {
		log.Info().Msg("started hidden in the tray")
		a.app.Run()
	} else {
		a.window.ShowAndRun()
	}
	a.cancel()
	a.releaseGlobalHotkey()

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownTimeout):
		log.Warn().Msg("background work still running at exit")
	}
}

func (a *Application) showWindow() {
	a.window.Show()
	a.window.RequestFocus()
}

func (a *Application) onClose() {
	if a.hasTray && a.proc.Config().MinimizeToTray {
		a.window.Hide()
		return
	}
	a.quit()
}

func (a *Application) onEscape() {
	if a.hasTray {
		a.window.Hide()
		return
	}
	a.window.Canvas().Unfocus()
}

func (a *Application) quit() {
	a.cancel()
	a.app.Quit()
}

// applyConfig reacts to saved settings. Must run on the UI thread.
func (a *Application) applyConfig(old, updated *config.Config) {
	if old.Theme != updated.Theme {
		a.applyTheme(updated.Theme)
	}
	if old.Hotkey != updated.Hotkey {
		a.registerHotkey(updated.Hotkey)
	}
}

func (a *Application) applyTheme(mode string) {
	a.app.Settings().SetTheme(newModeTheme(mode))
}

// registerHotkey replaces the current hotkey with the configured one. It
// grabs the key system wide and falls back to a shortcut on the window.
// Must run on the UI thread.
func (a *Application) registerHotkey(spec string) {
	a.releaseGlobalHotkey()
	if a.shortcut != nil {
		a.window.Canvas().RemoveShortcut(a.shortcut)
		a.shortcut = nil
	}

	a.hotkey = hotkey.ParseOrDefault(spec)
	global, err := a.registerGlobal(a.hotkey, func() { a.onHotkey(nil) })
	if err == nil {
		a.global = global
		log.Info().Str("hotkey", a.hotkey.String()).Msg("global hotkey registered")
		return
	}

	log.Warn().Err(err).Str("hotkey", a.hotkey.String()).Msg("global hotkey unavailable, hotkey only works in the window")
	a.shortcut = a.hotkey.Shortcut()
	a.window.Canvas().AddShortcut(a.shortcut, a.onHotkey)
}

func (a *Application) releaseGlobalHotkey() {
	if a.global == nil {
		return
	}
	if err := a.global.Unregister(); err != nil {
		log.Warn().Err(err).Str("hotkey", a.hotkey.String()).Msg("failed to release global hotkey")
	}
	a.global = nil
}

// onHotkey captures the clipboard after the copy landed, brings the window
// up and translates.
func (a *Application) onHotkey(fyne.Shortcut) {
	a.runInBackground(func() func() {
		text, err := a.proc.CaptureClipboard(a.ctx, a.clipboard)
		return func() {
			a.showWindow()
			if err != nil {
				a.handleClipboardError(err)
				return
			}
			a.sourceEntry.SetText(text)
			a.translate(text)
		}
	})
}

func (a *Application) onPasteAndTranslate() {
	a.runInBackground(func() func() {
		text, err := a.proc.ReadClipboard(a.clipboard)
		return func() {
			if err != nil {
				a.handleClipboardError(err)
				return
			}
			a.sourceEntry.SetText(text)
			a.translate(text)
		}
	})
}

func (a *Application) onTranslate() {
	a.translate(a.sourceEntry.Text)
}

// translate runs the translation in the background. Must be called on the
// UI thread.
func (a *Application) translate(text string) {
	if strings.TrimSpace(text) == "" {
		a.updateStatus("Nothing to translate")
		return
	}

	a.startBusy("Translating...")
	a.runInBackground(func() func() {
		resp, err := a.proc.Translate(a.ctx, text)
		return func() {
			a.endBusy()
			switch {
			case errors.Is(err, translation.ErrDuplicateRequest):
				// The earlier request for the same text is still running
			case errors.Is(err, context.Canceled):
			case err != nil:
				a.showError(err)
			default:
				a.showTranslation(resp.OriginalText, resp.TranslatedText, resp.DetectedLanguage, resp.TargetLanguage)
				a.updateStatus("Ready")
			}
		}
	})
}

func (a *Application) onCopy() {
	text := a.resultEntry.Text
	if text == "" {
		a.updateStatus("Nothing to copy")
		return
	}

	a.runInBackground(func() func() {
		err := a.proc.CopyToClipboard(a.clipboard, text)
		return func() {
			if err != nil {
				a.showError(err)
				return
			}
			a.updateStatus("Translation copied to clipboard")
		}
	})
}

// runInBackground runs work off the UI thread and applies the returned
// update on it.
func (a *Application) runInBackground(work func() (update func())) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		update := work()
		if update != nil {
			fyne.Do(update)
		}
	}()
}

func (a *Application) onShowLog() {
	if a.logView == nil {
		return
	}
	d := dialog.NewCustom("Log", "Close", a.logView.View(), a.window)
	d.Show()
}

// showTranslation fills both panes and the language label
func (a *Application) showTranslation(original, translated, detected, target string) {
	a.sourceEntry.SetText(original)
	a.resultEntry.SetText(translated)
	a.languageLabel.SetText(fmt.Sprintf("%s → %s", detected, target))
}

func (a *Application) handleClipboardError(err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	if errors.Is(err, processor.ErrClipboardEmpty) {
		a.updateStatus("Clipboard is empty")
		return
	}
	a.showError(err)
}

func (a *Application) startBusy(message string) {
	a.mu.Lock()
	a.busy++
	a.mu.Unlock()

	a.translateButton.Disable()
	a.updateStatus(message)
}

func (a *Application) endBusy() {
	a.mu.Lock()
	a.busy--
	idle := a.busy <= 0
	a.mu.Unlock()

	if idle {
		a.translateButton.Enable()
	}
}

func (a *Application) updateStatus(message string) {
	a.statusLabel.SetText(message)
}

func (a *Application) showError(err error) {
	dialog.ShowError(err, a.window)
	a.updateStatus("Error: " + err.Error())
}
