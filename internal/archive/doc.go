// Package archive moves data files into a timestamped archive directory.
package archive
