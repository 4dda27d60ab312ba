package hotkey

import (
	"fmt"
	"strings"

	"golang.design/x/hotkey"
)

// Binding is a parsed key combination such as ctrl+shift+escape.
type Binding struct {
	Modifiers []string
	Key       string
}

func (b Binding) String() string {
	return strings.Join(append(append([]string{}, b.Modifiers...), b.Key), "+")
}

var keyNames = map[string]hotkey.Key{
	"space": hotkey.KeySpace, "return": hotkey.KeyReturn, "enter": hotkey.KeyReturn,
	"escape": hotkey.KeyEscape, "esc": hotkey.KeyEscape, "delete": hotkey.KeyDelete, "tab": hotkey.KeyTab,
	"left": hotkey.KeyLeft, "right": hotkey.KeyRight, "up": hotkey.KeyUp, "down": hotkey.KeyDown,

	"f1": hotkey.KeyF1, "f2": hotkey.KeyF2, "f3": hotkey.KeyF3, "f4": hotkey.KeyF4,
	"f5": hotkey.KeyF5, "f6": hotkey.KeyF6, "f7": hotkey.KeyF7, "f8": hotkey.KeyF8,
	"f9": hotkey.KeyF9, "f10": hotkey.KeyF10, "f11": hotkey.KeyF11, "f12": hotkey.KeyF12,

	"0": hotkey.Key0, "1": hotkey.Key1, "2": hotkey.Key2, "3": hotkey.Key3, "4": hotkey.Key4,
	"5": hotkey.Key5, "6": hotkey.Key6, "7": hotkey.Key7, "8": hotkey.Key8, "9": hotkey.Key9,

	"a": hotkey.KeyA, "b": hotkey.KeyB, "c": hotkey.KeyC, "d": hotkey.KeyD, "e": hotkey.KeyE,
	"f": hotkey.KeyF, "g": hotkey.KeyG, "h": hotkey.KeyH, "i": hotkey.KeyI, "j": hotkey.KeyJ,
	"k": hotkey.KeyK, "l": hotkey.KeyL, "m": hotkey.KeyM, "n": hotkey.KeyN, "o": hotkey.KeyO,
	"p": hotkey.KeyP, "q": hotkey.KeyQ, "r": hotkey.KeyR, "s": hotkey.KeyS, "t": hotkey.KeyT,
	"u": hotkey.KeyU, "v": hotkey.KeyV, "w": hotkey.KeyW, "x": hotkey.KeyX, "y": hotkey.KeyY,
	"z": hotkey.KeyZ,
}

var modifierAliases = map[string]string{
	"ctrl":    "ctrl",
	"control": "ctrl",
	"shift":   "shift",
	"alt":     "alt",
	"super":   "super",
	"win":     "super",
}

// ParseBinding parses "f1" or "ctrl+shift+escape". The last element is the key.
func ParseBinding(spec string) (Binding, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(spec)), "+")
	key := strings.TrimSpace(parts[len(parts)-1])
	if key == "" {
		return Binding{}, fmt.Errorf("invalid binding %q: missing key", spec)
	}
	if _, ok := keyNames[key]; !ok {
		return Binding{}, fmt.Errorf("invalid binding %q: unknown key %q", spec, key)
	}

	b := Binding{Key: key}
	for _, p := range parts[:len(parts)-1] {
		mod, ok := modifierAliases[strings.TrimSpace(p)]
		if !ok {
			return Binding{}, fmt.Errorf("invalid binding %q: unknown modifier %q", spec, p)
		}
		b.Modifiers = append(b.Modifiers, mod)
	}
	return b, nil
}

func (b Binding) hotkey() (*hotkey.Hotkey, error) {
	mods := make([]hotkey.Modifier, 0, len(b.Modifiers))
	for _, m := range b.Modifiers {
		mod, ok := platformModifiers[m]
		if !ok {
			return nil, fmt.Errorf("modifier %q is not supported on this platform", m)
		}
		mods = append(mods, mod)
	}
	return hotkey.New(mods, keyNames[b.Key]), nil
}
