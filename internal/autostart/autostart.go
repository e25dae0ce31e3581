package autostart

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog/log"
)

// Flag is passed to the binary when it is started on login.
const Flag = "--autostart"

const desktopFile = "gptranslate.desktop"

// ErrUnsupported is returned on platforms without a login item backend.
var ErrUnsupported = errors.New("autostart is not supported on this platform")

// Manager writes and removes the XDG autostart entry.
type Manager struct {
	dir  string
	exec string
}

// New returns a manager for the current user and executable. It fails with
// ErrUnsupported outside Linux and the BSDs.
func New() (*Manager, error) {
	switch runtime.GOOS {
	case "linux", "freebsd", "openbsd", "netbsd":
	default:
		return nil, ErrUnsupported
	}

	dir, err := autostartDir()
	if err != nil {
		return nil, err
	}
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("cannot determine executable path: %w", err)
	}
	return NewManager(dir, exe), nil
}

// NewManager creates a manager writing into dir for the binary at exec.
func NewManager(dir, exec string) *Manager {
	return &Manager{dir: dir, exec: exec}
}

// Path returns the location of the desktop entry.
func (m *Manager) Path() string {
	return filepath.Join(m.dir, desktopFile)
}

// Apply enables or disables the entry.
func (m *Manager) Apply(enabled bool) error {
	if enabled {
		return m.Enable()
	}
	return m.Disable()
}

// Enable writes the desktop entry.
func (m *Manager) Enable() error {
	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return fmt.Errorf("failed to create autostart directory: %w", err)
	}
	if err := os.WriteFile(m.Path(), []byte(m.entry()), 0644); err != nil {
		return fmt.Errorf("failed to write autostart entry: %w", err)
	}
	log.Info().Str("path", m.Path()).Msg("autostart enabled")
	return nil
}

// Disable removes the desktop entry if present.
func (m *Manager) Disable() error {
	err := os.Remove(m.Path())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove autostart entry: %w", err)
	}
	if err == nil {
		log.Info().Str("path", m.Path()).Msg("autostart disabled")
	}
	return nil
}

// Enabled reports whether the desktop entry exists.
func (m *Manager) Enabled() bool {
	_, err := os.Stat(m.Path())
	return err == nil
}

func (m *Manager) entry() string {
	var sb strings.Builder
	sb.WriteString("[Desktop Entry]\n")
	sb.WriteString("Type=Application\n")
	sb.WriteString("Name=GPTranslate\n")
	sb.WriteString("Comment=Translate clipboard text with a hotkey\n")
	fmt.Fprintf(&sb, "Exec=%s %s\n", quoteExec(m.exec), Flag)
	sb.WriteString("Terminal=false\n")
	sb.WriteString("X-GNOME-Autostart-enabled=true\n")
	return sb.String()
}

// quoteExec quotes a path for the Exec key when it contains reserved
// characters.
func quoteExec(path string) string {
	if !strings.ContainsAny(path, " \t\"'\\$`") {
		return path
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "`", "\\`", `$`, `\$`)
	return `"` + r.Replace(path) + `"`
}

func autostartDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "autostart"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "autostart"), nil
}
