// Package gui implements the desktop shell of gptranslate using the Fyne
// toolkit.
//
// The main window has an original and a translation pane, a toolbar with
// tooltip buttons and a status line. The configured hotkey is registered
// as a window shortcut: it reads the clipboard, brings the window up and
// translates. Closing the window hides it in the system tray when the tray
// is available and minimize_to_tray is set. Settings and history are edited
// in dialogs; every operation goes through processor.Processor.
package gui
