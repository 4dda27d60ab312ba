package config

import (
	"github.com/holdtalk/holdtalk/internal/hotkey"
	"github.com/holdtalk/holdtalk/internal/injection"
	"github.com/holdtalk/holdtalk/internal/recording"
	"github.com/holdtalk/holdtalk/internal/server"
	"github.com/holdtalk/holdtalk/internal/session"
	"github.com/holdtalk/holdtalk/internal/transcriber"
)

// DefaultConfig returns the configuration written on first run.
func DefaultConfig() *Config {
	rec := recording.DefaultConfig()
	hk := hotkey.DefaultConfig()
	inj := injection.DefaultConfig()

	return &Config{
		Recording: RecordingConfig{
			OutputFile:  "",
			MinDuration: session.DefaultMinDuration,
			Command:     rec.Command,
		},
		Transcription: TranscriptionConfig{
			Endpoint: transcriber.DefaultEndpoint,
		},
		Hotkeys: HotkeysConfig{
			Trigger:      hk.Trigger,
			Exit:         hk.Exit,
			RepeatWindow: hk.RepeatWindow,
		},
		Injection: InjectionConfig{
			PasteShortcut:    inj.PasteShortcut,
			Backends:         inj.Backends,
			KeystrokeTimeout: inj.KeystrokeTimeout,
		},
		Notifications: NotificationsConfig{
			Enabled: true,
			Type:    "desktop",
		},
		Server: ServerConfig{
			Addr:          server.DefaultAddr,
			Path:          server.DefaultPath,
			Backend:       "openai",
			Model:         "whisper-1",
			Language:      server.DefaultLanguage,
			WhisperBinary: "whisper-cli",
			Convert:       server.DefaultConvert,
		},
	}
}
