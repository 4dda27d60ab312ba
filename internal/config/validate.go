package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/holdtalk/holdtalk/internal/hotkey"
	"github.com/holdtalk/holdtalk/internal/injection"
	"github.com/holdtalk/holdtalk/internal/language"
	"github.com/holdtalk/holdtalk/internal/recording"
	"github.com/holdtalk/holdtalk/internal/server"
)

// Validate checks the settings used by the client and the shape of [server].
func (c *Config) Validate() error {
	if c.Recording.MinDuration < 0 {
		return fmt.Errorf("invalid recording.min_duration: %v", c.Recording.MinDuration)
	}
	if len(c.Recording.Command) == 0 || c.Recording.Command[0] == "" {
		return fmt.Errorf("invalid recording.command: empty")
	}
	if !containsPlaceholder(c.Recording.Command) {
		return fmt.Errorf("invalid recording.command: missing %s placeholder", recording.OutputPlaceholder)
	}

	if err := validateEndpoint(c.Transcription.Endpoint); err != nil {
		return err
	}

	trigger, err := hotkey.ParseBinding(c.Hotkeys.Trigger)
	if err != nil {
		return fmt.Errorf("invalid hotkeys.trigger: %w", err)
	}
	exit, err := hotkey.ParseBinding(c.Hotkeys.Exit)
	if err != nil {
		return fmt.Errorf("invalid hotkeys.exit: %w", err)
	}
	if trigger.String() == exit.String() {
		return fmt.Errorf("invalid hotkeys: trigger and exit are both %s", trigger)
	}
	if c.Hotkeys.RepeatWindow < 0 {
		return fmt.Errorf("invalid hotkeys.repeat_window: %v", c.Hotkeys.RepeatWindow)
	}

	if _, err := injection.ParseShortcut(c.Injection.PasteShortcut); err != nil {
		return fmt.Errorf("invalid injection.paste_shortcut: %w", err)
	}
	if len(c.Injection.Backends) == 0 {
		return fmt.Errorf("invalid injection.backends: empty (must have at least one backend)")
	}
	validBackends := map[string]bool{"ydotool": true, "wtype": true, "xdotool": true}
	for _, backend := range c.Injection.Backends {
		if !validBackends[backend] {
			return fmt.Errorf("invalid injection.backends: unknown backend %q (must be ydotool, wtype, or xdotool)", backend)
		}
	}
	if c.Injection.KeystrokeTimeout <= 0 {
		return fmt.Errorf("invalid injection.keystroke_timeout: %v", c.Injection.KeystrokeTimeout)
	}

	validTypes := map[string]bool{"desktop": true, "log": true, "none": true}
	if !validTypes[c.Notifications.Type] {
		return fmt.Errorf("invalid notifications.type: %s (must be desktop, log, or none)", c.Notifications.Type)
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("invalid server.addr: empty")
	}
	if !strings.HasPrefix(c.Server.Path, "/") {
		return fmt.Errorf("invalid server.path: %q (must start with /)", c.Server.Path)
	}
	switch c.Server.Backend {
	case "openai", "whisper-cpp":
	default:
		return fmt.Errorf("unsupported server.backend: %s (must be openai or whisper-cpp)", c.Server.Backend)
	}
	if !language.IsValidCode(c.Server.Language) {
		return fmt.Errorf("invalid server.language: %s (use empty string for auto-detect or ISO-639-1 codes like 'zh', 'en')", c.Server.Language)
	}
	if !server.ValidConvert(c.Server.Convert) {
		return fmt.Errorf("invalid server.convert: %s (use t2s, s2t, tw2s, hk2s... or empty to disable)", c.Server.Convert)
	}
	if c.Server.Threads < 0 {
		return fmt.Errorf("invalid server.threads: %d", c.Server.Threads)
	}

	return nil
}

// ValidateServer checks what `holdtalk serve` needs beyond Validate.
func (c *Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}

	switch c.Server.Backend {
	case "openai":
		if c.resolveAPIKey() == "" && c.Server.BaseURL == "" {
			return fmt.Errorf("OpenAI API key required: not found in config (server.api_key) or environment variable (OPENAI_API_KEY)")
		}
		if c.Server.Model == "" {
			return fmt.Errorf("invalid server.model: empty")
		}
	case "whisper-cpp":
		modelPath := c.resolveModelPath()
		if modelPath == "" {
			return fmt.Errorf("server.model_path required for whisper-cpp (or set server.model to a downloaded model, see 'holdtalk model list')")
		}
		if _, err := os.Stat(modelPath); err != nil {
			return fmt.Errorf("invalid server.model_path: %w", err)
		}
	}
	return nil
}

func containsPlaceholder(command []string) bool {
	for _, arg := range command {
		if strings.Contains(arg, recording.OutputPlaceholder) {
			return true
		}
	}
	return false
}

func validateEndpoint(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid transcription.endpoint: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid transcription.endpoint: %q (must be an http or https URL)", endpoint)
	}
	return nil
}
