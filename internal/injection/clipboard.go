package injection

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Clipboard reads and writes the system text clipboard.
type Clipboard interface {
	Read() (string, error)
	Write(text string) error
}

type systemClipboard struct{}

// SystemClipboard uses whichever of wl-clipboard, xclip or xsel is installed.
func SystemClipboard() Clipboard {
	return systemClipboard{}
}

func (systemClipboard) Read() (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("read clipboard: %w", err)
	}
	return text, nil
}

func (systemClipboard) Write(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

func checkClipboardAvailable() error {
	if clipboard.Unsupported {
		return fmt.Errorf("no clipboard utility found (install wl-clipboard, xclip or xsel)")
	}
	return nil
}
