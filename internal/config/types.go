package config

import "time"

type Config struct {
	Recording     RecordingConfig     `toml:"recording"`
	Transcription TranscriptionConfig `toml:"transcription"`
	Hotkeys       HotkeysConfig       `toml:"hotkeys"`
	Injection     InjectionConfig     `toml:"injection"`
	Notifications NotificationsConfig `toml:"notifications"`
	Server        ServerConfig        `toml:"server"`
}

type RecordingConfig struct {
	OutputFile  string   `toml:"output_file"`  // empty = ~/.cache/holdtalk/recording.wav
	MinDuration float64  `toml:"min_duration"` // seconds
	Command     []string `toml:"command"`      // capture command, {output} is replaced by output_file
}

type TranscriptionConfig struct {
	Endpoint string `toml:"endpoint"`
}

type HotkeysConfig struct {
	Trigger      string        `toml:"trigger"`
	Exit         string        `toml:"exit"`
	RepeatWindow time.Duration `toml:"repeat_window"`
}

type InjectionConfig struct {
	PasteShortcut    string        `toml:"paste_shortcut"`
	Backends         []string      `toml:"backends"`
	KeystrokeTimeout time.Duration `toml:"keystroke_timeout"`
}

type NotificationsConfig struct {
	Enabled bool   `toml:"enabled"`
	Type    string `toml:"type"` // "desktop", "log", "none"
}

// ServerConfig configures `holdtalk serve`. It is hot-reloaded.
type ServerConfig struct {
	Addr          string `toml:"addr"`
	Path          string `toml:"path"`
	Backend       string `toml:"backend"` // "openai" or "whisper-cpp"
	Model         string `toml:"model"`
	Language      string `toml:"language"`
	APIKey        string `toml:"api_key"`
	BaseURL       string `toml:"base_url"`
	WhisperBinary string `toml:"whisper_binary"`
	ModelPath     string `toml:"model_path"`
	Threads       int    `toml:"threads"` // 0 = auto: NumCPU-1
	Convert       string `toml:"convert"` // OpenCC conversion of the transcript, "" to disable
}
