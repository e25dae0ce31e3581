package hotkey

import (
	"testing"

	"fyne.io/fyne/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xhotkey "golang.design/x/hotkey"
)

func TestGlobalCombo(t *testing.T) {
	tests := []struct {
		in   string
		mods []xhotkey.Modifier
		key  xhotkey.Key
	}{
		{"Ctrl+Alt+C", []xhotkey.Modifier{xhotkey.ModCtrl, xhotkey.Mod1}, xhotkey.KeyC},
		{"Shift+Super+5", []xhotkey.Modifier{xhotkey.ModShift, xhotkey.Mod4}, xhotkey.Key5},
		{"Ctrl+Shift+F9", []xhotkey.Modifier{xhotkey.ModCtrl, xhotkey.ModShift}, xhotkey.KeyF9},
		{"Alt+Space", []xhotkey.Modifier{xhotkey.Mod1}, xhotkey.KeySpace},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			spec, err := Parse(tt.in)
			require.NoError(t, err)

			mods, key, err := spec.globalCombo()
			require.NoError(t, err)
			assert.Equal(t, tt.mods, mods)
			assert.Equal(t, tt.key, key)
		})
	}
}

func TestGlobalComboBareKey(t *testing.T) {
	mods, key, err := Spec{Key: fyne.KeyF1}.globalCombo()
	require.NoError(t, err)
	assert.Empty(t, mods)
	assert.Equal(t, xhotkey.KeyF1, key)
}

func TestGlobalComboUnsupportedKey(t *testing.T) {
	for _, in := range []string{"Ctrl+Home", "Alt+PageDown", "Ctrl+Backspace"} {
		spec, err := Parse(in)
		require.NoError(t, err)

		_, _, err = spec.globalCombo()
		assert.ErrorIs(t, err, ErrGlobalUnsupported, in)

		_, err = RegisterGlobal(spec, func() {})
		assert.ErrorIs(t, err, ErrGlobalUnsupported, in)
	}
}
