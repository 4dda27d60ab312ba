package injection

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

// Step identifies which part of the paste sequence failed.
type Step string

const (
	StepClipboardRead    Step = "clipboard_read"
	StepClipboardWrite   Step = "clipboard_write"
	StepPaste            Step = "paste"
	StepClipboardRestore Step = "clipboard_restore"
)

// StepError wraps a failure in one step of Inject.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Config for text injection
type Config struct {
	PasteShortcut    string        // key combination sent to the focused window
	Backends         []string      // keystroke backends, tried in order
	KeystrokeTimeout time.Duration // timeout for one keystroke command
}

// DefaultConfig returns sensible defaults for injection
func DefaultConfig() Config {
	return Config{
		PasteShortcut:    "ctrl+shift+v",
		Backends:         []string{"ydotool", "wtype", "xdotool"},
		KeystrokeTimeout: 3 * time.Second,
	}
}

// Injector pastes text into the focused application through the clipboard.
type Injector struct {
	config    Config
	shortcut  Shortcut
	clipboard Clipboard
	backends  []Backend
}

func NewInjector(config Config, clipboard Clipboard) (*Injector, error) {
	shortcut, err := ParseShortcut(config.PasteShortcut)
	if err != nil {
		return nil, err
	}

	backends := make([]Backend, 0, len(config.Backends))
	for _, name := range config.Backends {
		b, err := NewBackend(name)
		if err != nil {
			return nil, err
		}
		backends = append(backends, b)
	}

	return newInjector(config, shortcut, clipboard, backends), nil
}

func newInjector(config Config, shortcut Shortcut, clipboard Clipboard, backends []Backend) *Injector {
	return &Injector{
		config:    config,
		shortcut:  shortcut,
		clipboard: clipboard,
		backends:  backends,
	}
}

// Inject runs save, set, paste, restore. A failing step is recorded and the
// sequence carries on; the returned error joins every *StepError.
//
// Known limitations, kept as-is: the restore runs immediately after the paste
// keystroke without waiting for the target application to read the clipboard,
// and when the clipboard was empty beforehand the text is left on it.
func (i *Injector) Inject(ctx context.Context, text string) error {
	var errs []error

	original, err := i.clipboard.Read()
	if err != nil {
		log.Printf("Injection: clipboard read failed, treating as empty: %v", err)
		errs = append(errs, &StepError{Step: StepClipboardRead, Err: err})
		original = ""
	}

	if err := i.clipboard.Write(text); err != nil {
		log.Printf("Injection: clipboard write failed: %v", err)
		errs = append(errs, &StepError{Step: StepClipboardWrite, Err: err})
	}

	if err := i.paste(ctx); err != nil {
		log.Printf("Injection: paste failed: %v", err)
		errs = append(errs, &StepError{Step: StepPaste, Err: err})
	}

	if original != "" {
		if err := i.clipboard.Write(original); err != nil {
			log.Printf("Injection: clipboard restore failed: %v", err)
			errs = append(errs, &StepError{Step: StepClipboardRestore, Err: err})
		}
	}

	return errors.Join(errs...)
}

// paste sends the shortcut through the first backend that is available and succeeds.
func (i *Injector) paste(ctx context.Context) error {
	if len(i.backends) == 0 {
		return fmt.Errorf("no keystroke backends configured")
	}

	var errs []error
	for _, b := range i.backends {
		if err := b.Available(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", b.Name(), err))
			continue
		}
		if err := b.Press(ctx, i.shortcut, i.config.KeystrokeTimeout); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", b.Name(), err))
			continue
		}
		log.Printf("Injection: sent %s via %s", i.shortcut, b.Name())
		return nil
	}
	return fmt.Errorf("all keystroke backends failed: %w", errors.Join(errs...))
}

// CheckAvailable reports whether clipboard access and at least one keystroke backend work.
func (i *Injector) CheckAvailable() error {
	if err := checkClipboardAvailable(); err != nil {
		return err
	}
	for _, b := range i.backends {
		if b.Available() == nil {
			return nil
		}
	}
	return fmt.Errorf("no keystroke backend available")
}
