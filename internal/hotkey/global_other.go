//go:build !linux && !darwin && !windows

package hotkey

// Global is a key combination grabbed system wide.
type Global struct{}

// RegisterGlobal always fails here; callers fall back to a window shortcut.
func RegisterGlobal(Spec, func()) (*Global, error) {
	return nil, ErrGlobalUnsupported
}

// Unregister is a no-op.
func (*Global) Unregister() error {
	return nil
}
