package archive

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrNothingToArchive is returned when the file to archive does not exist.
var ErrNothingToArchive = errors.New("nothing to archive")

// ArchiveFile moves path into an archive directory next to it, named
// <base>-<timestamp><ext>, and returns the new location.
func ArchiveFile(path string) (string, error) {
	// Check if the file exists
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %s does not exist", ErrNothingToArchive, path)
	}

	// Get parent directory and create archive path
	parentDir := filepath.Dir(path)
	archiveDir := filepath.Join(parentDir, "archive")

	// Create archive directory if it doesn't exist
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(filepath.Base(path), ext)

	// Generate timestamp
	timestamp := time.Now().Format("20060102-150405")
	archivePath := filepath.Join(archiveDir, fmt.Sprintf("%s-%s%s", base, timestamp, ext))

	// Check if archive already exists (unlikely but possible)
	if _, err := os.Stat(archivePath); err == nil {
		// Add microseconds to make it unique
		timestamp = time.Now().Format("20060102-150405.000000")
		archivePath = filepath.Join(archiveDir, fmt.Sprintf("%s-%s%s", base, timestamp, ext))
	}

	if err := os.Rename(path, archivePath); err != nil {
		return "", fmt.Errorf("failed to archive %s: %w", path, err)
	}

	log.Info().Str("archive", archivePath).Msg("file archived")
	return archivePath, nil
}
