// Package batch reads texts for non-interactive translation runs.
package batch
