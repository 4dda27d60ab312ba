package injection

import (
	"context"
	"fmt"
	"os/exec"
	"time"
)

// Backend emits a key combination to the focused window.
type Backend interface {
	Name() string
	Available() error
	Press(ctx context.Context, s Shortcut, timeout time.Duration) error
}

// NewBackend returns the keystroke backend registered under name.
func NewBackend(name string) (Backend, error) {
	switch name {
	case "ydotool":
		return NewYdotoolBackend(), nil
	case "wtype":
		return &wtypeBackend{}, nil
	case "xdotool":
		return &xdotoolBackend{}, nil
	default:
		return nil, fmt.Errorf("unknown keystroke backend: %s", name)
	}
}

type wtypeBackend struct{}

func (w *wtypeBackend) Name() string { return "wtype" }

func (w *wtypeBackend) Available() error {
	if _, err := exec.LookPath("wtype"); err != nil {
		return fmt.Errorf("wtype not found: %w (install wtype package)", err)
	}
	return nil
}

func (w *wtypeBackend) Press(ctx context.Context, s Shortcut, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := exec.CommandContext(ctx, "wtype", wtypeArgs(s)...).Run(); err != nil {
		return fmt.Errorf("wtype failed: %w", err)
	}
	return nil
}

// wtypeArgs builds "-M ctrl -M shift -k v -m shift -m ctrl".
func wtypeArgs(s Shortcut) []string {
	var args []string
	for _, m := range s.Modifiers {
		args = append(args, "-M", wtypeModifier(m))
	}
	args = append(args, "-k", keysym(s.Key))
	for i := len(s.Modifiers) - 1; i >= 0; i-- {
		args = append(args, "-m", wtypeModifier(s.Modifiers[i]))
	}
	return args
}

func wtypeModifier(m string) string {
	if m == "super" {
		return "logo"
	}
	return m
}

type xdotoolBackend struct{}

func (x *xdotoolBackend) Name() string { return "xdotool" }

func (x *xdotoolBackend) Available() error {
	if _, err := exec.LookPath("xdotool"); err != nil {
		return fmt.Errorf("xdotool not found: %w (install xdotool package)", err)
	}
	return nil
}

func (x *xdotoolBackend) Press(ctx context.Context, s Shortcut, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := exec.CommandContext(ctx, "xdotool", xdotoolArgs(s)...).Run(); err != nil {
		return fmt.Errorf("xdotool failed: %w", err)
	}
	return nil
}

func xdotoolArgs(s Shortcut) []string {
	keys := append(append([]string{}, s.Modifiers...), keysym(s.Key))
	combo := ""
	for i, k := range keys {
		if i > 0 {
			combo += "+"
		}
		combo += k
	}
	return []string{"key", "--clearmodifiers", combo}
}
