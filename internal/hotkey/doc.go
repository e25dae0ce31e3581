// Package hotkey parses accelerator strings such as "CommandOrControl+Alt+C"
// into fyne shortcuts and grabs them system wide where the platform allows.
package hotkey
