package injection

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

// fakeClipboard records every write and can be told to fail.
type fakeClipboard struct {
	content  string
	readErr  error
	writeErr error
	writes   []string
}

func (c *fakeClipboard) Read() (string, error) {
	if c.readErr != nil {
		return "", c.readErr
	}
	return c.content, nil
}

func (c *fakeClipboard) Write(text string) error {
	c.writes = append(c.writes, text)
	if c.writeErr != nil {
		return c.writeErr
	}
	c.content = text
	return nil
}

// fakeBackend captures the clipboard content at the moment of the keystroke.
type fakeBackend struct {
	name        string
	unavailable error
	pressErr    error
	clipboard   *fakeClipboard
	pressed     []Shortcut
	clipAtPress []string
}

func (b *fakeBackend) Name() string     { return b.name }
func (b *fakeBackend) Available() error { return b.unavailable }

func (b *fakeBackend) Press(ctx context.Context, s Shortcut, timeout time.Duration) error {
	b.pressed = append(b.pressed, s)
	if b.clipboard != nil {
		b.clipAtPress = append(b.clipAtPress, b.clipboard.content)
	}
	return b.pressErr
}

func newTestInjector(clip *fakeClipboard, backends ...Backend) *Injector {
	shortcut, _ := ParseShortcut("ctrl+shift+v")
	return newInjector(DefaultConfig(), shortcut, clip, backends)
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	if config.PasteShortcut != "ctrl+shift+v" {
		t.Errorf("PasteShortcut = %s", config.PasteShortcut)
	}
	if !reflect.DeepEqual(config.Backends, []string{"ydotool", "wtype", "xdotool"}) {
		t.Errorf("Backends = %v", config.Backends)
	}
	if config.KeystrokeTimeout != 3*time.Second {
		t.Errorf("KeystrokeTimeout = %v", config.KeystrokeTimeout)
	}
}

func TestInjector_RestoresNonEmptyClipboard(t *testing.T) {
	clip := &fakeClipboard{content: "previous"}
	backend := &fakeBackend{name: "fake", clipboard: clip}
	injector := newTestInjector(clip, backend)

	if err := injector.Inject(context.Background(), "你好"); err != nil {
		t.Fatalf("Inject() error = %v", err)
	}

	if len(backend.pressed) != 1 {
		t.Fatalf("expected one paste keystroke, got %d", len(backend.pressed))
	}
	if backend.clipAtPress[0] != "你好" {
		t.Errorf("clipboard at paste = %q, want %q", backend.clipAtPress[0], "你好")
	}
	if clip.content != "previous" {
		t.Errorf("clipboard after inject = %q, want restored %q", clip.content, "previous")
	}
	if !reflect.DeepEqual(clip.writes, []string{"你好", "previous"}) {
		t.Errorf("writes = %v", clip.writes)
	}
}

func TestInjector_EmptyClipboardLeavesText(t *testing.T) {
	clip := &fakeClipboard{}
	backend := &fakeBackend{name: "fake", clipboard: clip}
	injector := newTestInjector(clip, backend)

	if err := injector.Inject(context.Background(), "dictated"); err != nil {
		t.Fatalf("Inject() error = %v", err)
	}

	if clip.content != "dictated" {
		t.Errorf("clipboard = %q, want the transcribed text left in place", clip.content)
	}
	if len(clip.writes) != 1 {
		t.Errorf("expected no restore write, got writes %v", clip.writes)
	}
}

func TestInjector_ReadFailureTreatedAsEmpty(t *testing.T) {
	clip := &fakeClipboard{content: "hidden", readErr: errors.New("no display")}
	backend := &fakeBackend{name: "fake", clipboard: clip}
	injector := newTestInjector(clip, backend)

	err := injector.Inject(context.Background(), "text")

	var stepErr *StepError
	if !errors.As(err, &stepErr) || stepErr.Step != StepClipboardRead {
		t.Fatalf("expected clipboard read StepError, got %v", err)
	}
	if len(backend.pressed) != 1 {
		t.Error("paste should still be attempted after a read failure")
	}
	if clip.content != "text" {
		t.Errorf("clipboard = %q, want %q (no restore)", clip.content, "text")
	}
}

func TestInjector_ContinuesPastFailures(t *testing.T) {
	clip := &fakeClipboard{content: "orig", writeErr: errors.New("denied")}
	backend := &fakeBackend{name: "fake", pressErr: errors.New("no uinput")}
	injector := newTestInjector(clip, backend)

	err := injector.Inject(context.Background(), "text")
	if err == nil {
		t.Fatal("Inject() should report failures")
	}

	steps := map[Step]bool{}
	for _, e := range err.(interface{ Unwrap() []error }).Unwrap() {
		var stepErr *StepError
		if errors.As(e, &stepErr) {
			steps[stepErr.Step] = true
		}
	}
	for _, want := range []Step{StepClipboardWrite, StepPaste, StepClipboardRestore} {
		if !steps[want] {
			t.Errorf("missing step error %s in %v", want, err)
		}
	}
	if len(clip.writes) != 2 {
		t.Errorf("expected write and restore attempts, got %v", clip.writes)
	}
}

func TestInjector_BackendFallback(t *testing.T) {
	clip := &fakeClipboard{}
	missing := &fakeBackend{name: "missing", unavailable: errors.New("not installed")}
	broken := &fakeBackend{name: "broken", pressErr: errors.New("boom")}
	working := &fakeBackend{name: "working"}
	injector := newTestInjector(clip, missing, broken, working)

	if err := injector.Inject(context.Background(), "text"); err != nil {
		t.Fatalf("Inject() error = %v", err)
	}
	if len(missing.pressed) != 0 {
		t.Error("unavailable backend should not be used")
	}
	if len(broken.pressed) != 1 || len(working.pressed) != 1 {
		t.Errorf("expected fallback from broken to working, got %d/%d", len(broken.pressed), len(working.pressed))
	}
}

func TestInjector_NoBackends(t *testing.T) {
	clip := &fakeClipboard{}
	injector := newTestInjector(clip)

	err := injector.Inject(context.Background(), "text")
	var stepErr *StepError
	if !errors.As(err, &stepErr) || stepErr.Step != StepPaste {
		t.Errorf("expected paste StepError, got %v", err)
	}
}

func TestNewInjector(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "defaults", config: DefaultConfig()},
		{name: "bad shortcut", config: Config{PasteShortcut: "ctrl+", Backends: []string{"wtype"}}, wantErr: true},
		{name: "unknown backend", config: Config{PasteShortcut: "ctrl+v", Backends: []string{"robot"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInjector(tt.config, &fakeClipboard{})
			if (err != nil) != tt.wantErr {
				t.Errorf("NewInjector() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseShortcut(t *testing.T) {
	tests := []struct {
		spec    string
		want    Shortcut
		wantErr bool
	}{
		{spec: "ctrl+shift+v", want: Shortcut{Modifiers: []string{"ctrl", "shift"}, Key: "v"}},
		{spec: "Control+V", want: Shortcut{Modifiers: []string{"ctrl"}, Key: "v"}},
		{spec: "shift+insert", want: Shortcut{Modifiers: []string{"shift"}, Key: "insert"}},
		{spec: "v", want: Shortcut{Key: "v"}},
		{spec: "", wantErr: true},
		{spec: "ctrl+", wantErr: true},
		{spec: "hyper+v", wantErr: true},
		{spec: "ctrl+shift", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := ParseShortcut(tt.spec)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseShortcut(%q) error = %v, wantErr %v", tt.spec, err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseShortcut(%q) = %+v, want %+v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestBackendArgs(t *testing.T) {
	s := Shortcut{Modifiers: []string{"ctrl", "shift"}, Key: "v"}

	t.Run("ydotool", func(t *testing.T) {
		got, err := ydotoolArgs(s)
		if err != nil {
			t.Fatal(err)
		}
		want := []string{"key", "29:1", "42:1", "47:1", "47:0", "42:0", "29:0"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("ydotoolArgs() = %v, want %v", got, want)
		}
	})

	t.Run("ydotool unknown key", func(t *testing.T) {
		if _, err := ydotoolArgs(Shortcut{Key: "f13"}); err == nil {
			t.Error("expected error for unmapped key")
		}
	})

	t.Run("wtype", func(t *testing.T) {
		want := []string{"-M", "ctrl", "-M", "shift", "-k", "v", "-m", "shift", "-m", "ctrl"}
		if got := wtypeArgs(s); !reflect.DeepEqual(got, want) {
			t.Errorf("wtypeArgs() = %v, want %v", got, want)
		}
	})

	t.Run("xdotool", func(t *testing.T) {
		want := []string{"key", "--clearmodifiers", "ctrl+shift+v"}
		if got := xdotoolArgs(s); !reflect.DeepEqual(got, want) {
			t.Errorf("xdotoolArgs() = %v, want %v", got, want)
		}
	})
}

func TestNewBackend(t *testing.T) {
	for _, name := range []string{"ydotool", "wtype", "xdotool"} {
		b, err := NewBackend(name)
		if err != nil {
			t.Errorf("NewBackend(%s) error = %v", name, err)
			continue
		}
		if b.Name() != name {
			t.Errorf("Name() = %s, want %s", b.Name(), name)
		}
	}
	if _, err := NewBackend("invalid"); err == nil {
		t.Error("NewBackend(invalid) should fail")
	}
}

func TestYdotoolSocketDiscovery(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", dir)
	t.Setenv(ydotoolSocketEnv, filepath.Join(dir, "missing.sock"))

	paths := ydotoolSocketCandidates()
	if paths[0] != filepath.Join(dir, "missing.sock") {
		t.Errorf("env socket should be tried first, got %v", paths)
	}

	sock := filepath.Join(dir, ".ydotool_socket")
	if err := os.WriteFile(sock, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	if got := findSocket(paths); got != sock {
		t.Errorf("findSocket() = %q, want %q", got, sock)
	}
	if got := findSocket([]string{filepath.Join(dir, "nope")}); got != "" {
		t.Errorf("findSocket() = %q, want empty", got)
	}
}
