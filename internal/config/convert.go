package config

import (
	"os"

	"github.com/holdtalk/holdtalk/internal/hotkey"
	"github.com/holdtalk/holdtalk/internal/injection"
	"github.com/holdtalk/holdtalk/internal/models/whisper"
	"github.com/holdtalk/holdtalk/internal/notify"
	"github.com/holdtalk/holdtalk/internal/recording"
	"github.com/holdtalk/holdtalk/internal/server"
	"github.com/holdtalk/holdtalk/internal/session"
	"github.com/holdtalk/holdtalk/internal/transcriber"
)

func (c *Config) outputPath() string {
	if c.Recording.OutputFile != "" {
		return c.Recording.OutputFile
	}
	return recording.DefaultOutputPath()
}

func (c *Config) ToRecordingConfig() recording.Config {
	return recording.Config{
		Command:    append([]string(nil), c.Recording.Command...),
		OutputPath: c.outputPath(),
	}
}

func (c *Config) ToSessionConfig() session.Config {
	return session.Config{
		OutputPath:  c.outputPath(),
		MinDuration: c.Recording.MinDuration,
	}
}

func (c *Config) ToTranscriberConfig() transcriber.Config {
	return transcriber.Config{
		Endpoint: c.Transcription.Endpoint,
	}
}

func (c *Config) ToHotkeyConfig() hotkey.Config {
	return hotkey.Config{
		Trigger:      c.Hotkeys.Trigger,
		Exit:         c.Hotkeys.Exit,
		RepeatWindow: c.Hotkeys.RepeatWindow,
	}
}

func (c *Config) ToInjectionConfig() injection.Config {
	return injection.Config{
		PasteShortcut:    c.Injection.PasteShortcut,
		Backends:         append([]string(nil), c.Injection.Backends...),
		KeystrokeTimeout: c.Injection.KeystrokeTimeout,
	}
}

func (c *Config) ToServerSettings() server.Settings {
	return server.Settings{
		Backend:       c.Server.Backend,
		Model:         c.Server.Model,
		Language:      c.Server.Language,
		APIKey:        c.resolveAPIKey(),
		BaseURL:       c.Server.BaseURL,
		WhisperBinary: c.Server.WhisperBinary,
		ModelPath:     c.resolveModelPath(),
		Threads:       c.Server.Threads,
		Convert:       c.Server.Convert,
	}
}

// Notifier returns the notifier selected by [notifications].
func (c *Config) Notifier() notify.Notifier {
	if !c.Notifications.Enabled {
		return notify.Nop{}
	}
	n, err := notify.New(c.Notifications.Type)
	if err != nil {
		return notify.Log{}
	}
	return n
}

// resolveAPIKey prefers server.api_key over OPENAI_API_KEY.
func (c *Config) resolveAPIKey() string {
	if c.Server.APIKey != "" {
		return c.Server.APIKey
	}
	return os.Getenv("OPENAI_API_KEY")
}

// resolveModelPath prefers server.model_path. For whisper-cpp an empty path
// falls back to the downloaded checkpoint named by server.model.
func (c *Config) resolveModelPath() string {
	if c.Server.ModelPath != "" || c.Server.Backend != "whisper-cpp" {
		return c.Server.ModelPath
	}
	if _, ok := whisper.Lookup(c.Server.Model); !ok {
		return ""
	}
	store, err := whisper.DefaultStore()
	if err != nil {
		return ""
	}
	path, _ := store.Path(c.Server.Model)
	return path
}
