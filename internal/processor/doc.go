// Package processor is the command layer shared by the desktop shell and
// the CLI. It owns the configuration and the translation service. Every
// successful translation is written to the history.
package processor
