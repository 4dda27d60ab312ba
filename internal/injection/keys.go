package injection

import (
	"fmt"
	"strings"
)

// Shortcut is a parsed key combination such as ctrl+shift+v.
type Shortcut struct {
	Modifiers []string
	Key       string
}

func (s Shortcut) String() string {
	return strings.Join(append(append([]string{}, s.Modifiers...), s.Key), "+")
}

var modifierAliases = map[string]string{
	"ctrl":    "ctrl",
	"control": "ctrl",
	"shift":   "shift",
	"alt":     "alt",
	"super":   "super",
	"logo":    "super",
	"win":     "super",
}

// ParseShortcut parses "ctrl+shift+v" style strings. The last element is the key.
func ParseShortcut(spec string) (Shortcut, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(spec)), "+")
	if len(parts) == 0 || parts[len(parts)-1] == "" {
		return Shortcut{}, fmt.Errorf("invalid shortcut %q: missing key", spec)
	}

	var s Shortcut
	for _, p := range parts[:len(parts)-1] {
		mod, ok := modifierAliases[strings.TrimSpace(p)]
		if !ok {
			return Shortcut{}, fmt.Errorf("invalid shortcut %q: unknown modifier %q", spec, p)
		}
		s.Modifiers = append(s.Modifiers, mod)
	}
	s.Key = strings.TrimSpace(parts[len(parts)-1])
	if _, isMod := modifierAliases[s.Key]; isMod {
		return Shortcut{}, fmt.Errorf("invalid shortcut %q: key cannot be a modifier", spec)
	}
	return s, nil
}

// Linux input event codes used by ydotool.
var evdevCodes = map[string]int{
	"ctrl": 29, "shift": 42, "alt": 56, "super": 125,
	"q": 16, "w": 17, "e": 18, "r": 19, "t": 20, "y": 21, "u": 22, "i": 23, "o": 24, "p": 25,
	"a": 30, "s": 31, "d": 32, "f": 33, "g": 34, "h": 35, "j": 36, "k": 37, "l": 38,
	"z": 44, "x": 45, "c": 46, "v": 47, "b": 48, "n": 49, "m": 50,
	"enter": 28, "space": 57, "tab": 15, "insert": 110,
}

// xdotool and wtype use X keysym names for these.
var keysymNames = map[string]string{
	"enter":  "Return",
	"space":  "space",
	"tab":    "Tab",
	"insert": "Insert",
}

func keysym(key string) string {
	if name, ok := keysymNames[key]; ok {
		return name
	}
	return key
}
