// Package history keeps the bounded list of past translations in
// history.json, newest first.
package history
