//go:build linux || darwin || windows

package hotkey

import (
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
	"github.com/rs/zerolog/log"
	xhotkey "golang.design/x/hotkey"
)

// Keys the system-wide grab can express on every platform. Keys missing
// here only work as a window shortcut.
var globalKeys = map[fyne.KeyName]xhotkey.Key{
	fyne.KeyA:      xhotkey.KeyA,
	fyne.KeyB:      xhotkey.KeyB,
	fyne.KeyC:      xhotkey.KeyC,
	fyne.KeyD:      xhotkey.KeyD,
	fyne.KeyE:      xhotkey.KeyE,
	fyne.KeyF:      xhotkey.KeyF,
	fyne.KeyG:      xhotkey.KeyG,
	fyne.KeyH:      xhotkey.KeyH,
	fyne.KeyI:      xhotkey.KeyI,
	fyne.KeyJ:      xhotkey.KeyJ,
	fyne.KeyK:      xhotkey.KeyK,
	fyne.KeyL:      xhotkey.KeyL,
	fyne.KeyM:      xhotkey.KeyM,
	fyne.KeyN:      xhotkey.KeyN,
	fyne.KeyO:      xhotkey.KeyO,
	fyne.KeyP:      xhotkey.KeyP,
	fyne.KeyQ:      xhotkey.KeyQ,
	fyne.KeyR:      xhotkey.KeyR,
	fyne.KeyS:      xhotkey.KeyS,
	fyne.KeyT:      xhotkey.KeyT,
	fyne.KeyU:      xhotkey.KeyU,
	fyne.KeyV:      xhotkey.KeyV,
	fyne.KeyW:      xhotkey.KeyW,
	fyne.KeyX:      xhotkey.KeyX,
	fyne.KeyY:      xhotkey.KeyY,
	fyne.KeyZ:      xhotkey.KeyZ,
	fyne.Key0:      xhotkey.Key0,
	fyne.Key1:      xhotkey.Key1,
	fyne.Key2:      xhotkey.Key2,
	fyne.Key3:      xhotkey.Key3,
	fyne.Key4:      xhotkey.Key4,
	fyne.Key5:      xhotkey.Key5,
	fyne.Key6:      xhotkey.Key6,
	fyne.Key7:      xhotkey.Key7,
	fyne.Key8:      xhotkey.Key8,
	fyne.Key9:      xhotkey.Key9,
	fyne.KeyF1:     xhotkey.KeyF1,
	fyne.KeyF2:     xhotkey.KeyF2,
	fyne.KeyF3:     xhotkey.KeyF3,
	fyne.KeyF4:     xhotkey.KeyF4,
	fyne.KeyF5:     xhotkey.KeyF5,
	fyne.KeyF6:     xhotkey.KeyF6,
	fyne.KeyF7:     xhotkey.KeyF7,
	fyne.KeyF8:     xhotkey.KeyF8,
	fyne.KeyF9:     xhotkey.KeyF9,
	fyne.KeyF10:    xhotkey.KeyF10,
	fyne.KeyF11:    xhotkey.KeyF11,
	fyne.KeyF12:    xhotkey.KeyF12,
	fyne.KeySpace:  xhotkey.KeySpace,
	fyne.KeyTab:    xhotkey.KeyTab,
	fyne.KeyEscape: xhotkey.KeyEscape,
	fyne.KeyReturn: xhotkey.KeyReturn,
	fyne.KeyDelete: xhotkey.KeyDelete,
	fyne.KeyLeft:   xhotkey.KeyLeft,
	fyne.KeyRight:  xhotkey.KeyRight,
	fyne.KeyUp:     xhotkey.KeyUp,
	fyne.KeyDown:   xhotkey.KeyDown,
}

// globalCombo maps the spec onto the modifiers and key of a system-wide grab.
func (s Spec) globalCombo() ([]xhotkey.Modifier, xhotkey.Key, error) {
	key, ok := globalKeys[s.Key]
	if !ok {
		return nil, 0, fmt.Errorf("%w: key %s", ErrGlobalUnsupported, s.Key)
	}

	var mods []xhotkey.Modifier
	for _, m := range globalModifiers {
		if s.Modifiers&m.mod != 0 {
			mods = append(mods, m.global)
		}
	}
	return mods, key, nil
}

// Global is a key combination grabbed system wide.
type Global struct {
	spec Spec
	hk   *xhotkey.Hotkey
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// RegisterGlobal grabs spec for the whole desktop session and calls fn on
// every key press until Unregister. fn runs on a background goroutine.
func RegisterGlobal(spec Spec, fn func()) (*Global, error) {
	mods, key, err := spec.globalCombo()
	if err != nil {
		return nil, err
	}

	hk := xhotkey.New(mods, key)
	if err := hk.Register(); err != nil {
		return nil, fmt.Errorf("register global hotkey %s: %w", spec, err)
	}

	g := &Global{
		spec: spec,
		hk:   hk,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go g.listen(fn)
	return g, nil
}

func (g *Global) listen(fn func()) {
	defer close(g.done)

	keydown := g.hk.Keydown()
	for {
		select {
		case <-g.stop:
			return
		case _, ok := <-keydown:
			if !ok {
				return
			}
			log.Debug().Str("hotkey", g.spec.String()).Msg("global hotkey pressed")
			fn()
		}
	}
}

// Unregister releases the grab and stops the listener. Safe to call twice.
func (g *Global) Unregister() error {
	var err error
	g.once.Do(func() {
		err = g.hk.Unregister()
		close(g.stop)
		<-g.done
	})
	return err
}
