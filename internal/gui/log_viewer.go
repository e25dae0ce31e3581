package gui

import (
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// LogViewer keeps the most recent log lines and shows them in a read-only
// text area. It is an io.Writer so it can be attached to the logger before
// the window exists.
type LogViewer struct {
	mu          sync.Mutex
	messages    []string
	maxMessages int
	partial     string

	logEntry *widget.Entry
}

// NewLogViewer creates a log viewer that keeps up to maxMessages lines
func NewLogViewer(maxMessages int) *LogViewer {
	if maxMessages <= 0 {
		maxMessages = 1000
	}
	return &LogViewer{maxMessages: maxMessages}
}

// Write implements io.Writer
func (v *LogViewer) Write(p []byte) (int, error) {
	v.mu.Lock()
	text := v.partial + string(p)
	lines := strings.Split(text, "\n")
	v.partial = lines[len(lines)-1]
	for _, line := range lines[:len(lines)-1] {
		if line = strings.TrimRight(line, "\r"); line != "" {
			v.addLocked(line)
		}
	}
	entry := v.logEntry
	content := v.textLocked()
	v.mu.Unlock()

	if entry != nil {
		fyne.Do(func() {
			entry.SetText(content)
		})
	}
	return len(p), nil
}

func (v *LogViewer) addLocked(message string) {
	// Prepend to messages (newest first)
	v.messages = append([]string{message}, v.messages...)
	if len(v.messages) > v.maxMessages {
		v.messages = v.messages[:v.maxMessages]
	}
}

func (v *LogViewer) textLocked() string {
	return strings.Join(v.messages, "\n")
}

// Messages returns the kept lines, newest first
func (v *LogViewer) Messages() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.messages...)
}

// Clear clears all log messages
func (v *LogViewer) Clear() {
	v.mu.Lock()
	v.messages = nil
	entry := v.logEntry
	v.mu.Unlock()

	if entry != nil {
		fyne.Do(func() {
			entry.SetText("")
		})
	}
}

// View builds the widget showing the log. Must be called on the UI thread.
func (v *LogViewer) View() fyne.CanvasObject {
	entry := widget.NewMultiLineEntry()
	entry.Wrapping = fyne.TextWrapWord
	entry.Disable()

	v.mu.Lock()
	entry.SetText(v.textLocked())
	v.logEntry = entry
	v.mu.Unlock()

	scroll := container.NewScroll(entry)
	scroll.SetMinSize(fyne.NewSize(700, 400))
	return container.NewBorder(widget.NewLabel("Log messages (newest first):"), nil, nil, nil, scroll)
}
