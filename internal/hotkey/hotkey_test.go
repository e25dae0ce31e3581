package hotkey

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Spec
	}{
		{"CommandOrControl+Alt+C", Spec{fyne.KeyModifierControl | fyne.KeyModifierAlt, fyne.KeyC}},
		{"ctrl+shift+t", Spec{fyne.KeyModifierControl | fyne.KeyModifierShift, fyne.KeyT}},
		{"Cmd + Option + 5", Spec{fyne.KeyModifierSuper | fyne.KeyModifierAlt, fyne.Key5}},
		{"Meta+F12", Spec{fyne.KeyModifierSuper, fyne.KeyF12}},
		{"Control+Space", Spec{fyne.KeyModifierControl, fyne.KeySpace}},
		{"Alt+PageDown", Spec{fyne.KeyModifierAlt, fyne.KeyPageDown}},
		{"Shift+Enter", Spec{fyne.KeyModifierShift, fyne.KeyReturn}},
		{"F1", Spec{0, fyne.KeyF1}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRejects(t *testing.T) {
	for _, in := range []string{"", "Ctrl+", "Hyper+C", "Ctrl+Alt+F13", "Ctrl+é", "Ctrl+Alt+!"} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			assert.Error(t, err)
		})
	}
}

func TestParseOrDefault(t *testing.T) {
	assert.Equal(t, Default, ParseOrDefault("Nonsense+Q"))
	assert.Equal(t, "Ctrl+Alt+C", ParseOrDefault("CommandOrControl+Alt+C").String())
}

func TestShortcut(t *testing.T) {
	sc := ParseOrDefault("Ctrl+Shift+X").Shortcut()
	assert.Equal(t, fyne.KeyX, sc.KeyName)
	assert.Equal(t, fyne.KeyModifierControl|fyne.KeyModifierShift, sc.Modifier)
}

func TestMatches(t *testing.T) {
	spec := Default
	assert.True(t, spec.Matches(spec.Shortcut()))
	assert.False(t, spec.Matches(&desktop.CustomShortcut{KeyName: fyne.KeyC, Modifier: fyne.KeyModifierControl}))
	assert.False(t, spec.Matches(nil))
}
