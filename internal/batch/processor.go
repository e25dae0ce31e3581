package batch

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Entry is one text to translate, with the line it came from.
type Entry struct {
	Line int
	Text string
}

// ReadBatchFile reads texts from a file, one per line.
// Supported syntax:
// - blank lines and lines starting with '#' are skipped
// - a literal "\n" inside a line becomes a line break
func ReadBatchFile(filename string) ([]Entry, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	defer f.Close()

	return ReadBatch(f)
}

// ReadBatch reads batch entries from r.
func ReadBatch(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, Entry{
			Line: lineNo,
			Text: strings.ReplaceAll(line, `\n`, "\n"),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch input: %w", err)
	}

	return entries, nil
}
