package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"codeberg.org/snonux/gptranslate/internal"
	"codeberg.org/snonux/gptranslate/internal/history"
)

// historyTitle is the first line of a history row.
func historyTitle(e history.Entry) string {
	return fmt.Sprintf("%s  %s → %s",
		e.Timestamp.Local().Format("2006-01-02 15:04"), e.DetectedLanguage, e.TargetLanguage)
}

// historySummary is the second line of a history row.
func historySummary(e history.Entry) string {
	return internal.Abbreviate(internal.SingleLine(e.OriginalText), 60) + "  ⇒  " +
		internal.Abbreviate(internal.SingleLine(e.TranslatedText), 60)
}

// onShowHistory lists past translations; picking one shows it again
func (a *Application) onShowHistory() {
	a.runInBackground(func() func() {
		entries, err := a.proc.History()
		return func() {
			if err != nil {
				a.showError(err)
				return
			}
			a.showHistoryDialog(entries)
		}
	})
}

func (a *Application) showHistoryDialog(entries []history.Entry) {
	var d dialog.Dialog

	list := widget.NewList(
		func() int { return len(entries) },
		func() fyne.CanvasObject {
			title := widget.NewLabel("")
			title.TextStyle = fyne.TextStyle{Bold: true}
			return container.NewVBox(title, widget.NewLabel(""))
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			box := obj.(*fyne.Container)
			box.Objects[0].(*widget.Label).SetText(historyTitle(entries[id]))
			box.Objects[1].(*widget.Label).SetText(historySummary(entries[id]))
		},
	)
	list.OnSelected = func(id widget.ListItemID) {
		e := entries[id]
		a.showTranslation(e.OriginalText, e.TranslatedText, e.DetectedLanguage, e.TargetLanguage)
		d.Hide()
	}

	clearBtn := widget.NewButtonWithIcon("Clear", theme.DeleteIcon(), func() {
		dialog.ShowConfirm("Clear history", "Delete all saved translations?", func(ok bool) {
			if ok {
				d.Hide()
			}
			a.confirmClearHistory(ok)
		}, a.window)
	})
	clearBtn.Importance = widget.DangerImportance

	archiveBtn := widget.NewButtonWithIcon("Archive", theme.FolderIcon(), func() {
		d.Hide()
		a.runInBackground(func() func() {
			archived, err := a.proc.ArchiveHistory()
			return func() {
				switch {
				case err != nil:
					a.showError(err)
				case archived == "":
					a.updateStatus("History cleared")
				default:
					a.updateStatus("History archived to " + archived)
				}
			}
		})
	})

	if len(entries) == 0 {
		clearBtn.Disable()
		archiveBtn.Disable()
	}

	var body fyne.CanvasObject = list
	if len(entries) == 0 {
		body = widget.NewLabel("No translations yet")
	}

	content := container.NewBorder(nil, container.NewHBox(clearBtn, archiveBtn), nil, nil, body)
	d = dialog.NewCustom(fmt.Sprintf("History (%d)", len(entries)), "Close", content, a.window)
	d.Resize(fyne.NewSize(720, 520))
	d.Show()
}

// confirmClearHistory deletes the saved history when the user confirmed.
func (a *Application) confirmClearHistory(ok bool) {
	if !ok {
		return
	}
	a.runInBackground(func() func() {
		err := a.proc.ClearHistory()
		return func() {
			if err != nil {
				a.showError(err)
				return
			}
			a.updateStatus("History cleared")
		}
	})
}
