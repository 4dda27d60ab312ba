package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/holdtalk/holdtalk/internal/language"
)

func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "holdtalk", "config.toml"), nil
}

// Load reads the config from the default path, creating it with defaults on first run.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(configPath)
}

// LoadFile reads the config at configPath, creating it with defaults if missing.
// Keys absent from the file keep their default values.
func LoadFile(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Printf("Config: no config file found at %s, creating with defaults", configPath)
		if err := SaveDefaultConfig(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat config file %s: %w", configPath, err)
	}

	log.Printf("Config: loading configuration from %s", configPath)
	config := DefaultConfig()
	meta, err := toml.DecodeFile(configPath, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		log.Printf("Config: ignoring unknown keys: %v", undecoded)
	}

	config.applyThreadsDefault()
	config.expandPaths()
	config.Server.Language = language.Normalize(config.Server.Language)

	log.Printf("Config: configuration loaded successfully")
	return config, nil
}

// Save writes c to configPath, replacing any existing file.
func Save(configPath string, c *Config) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString("# holdtalk configuration\n\n"); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// applyThreadsDefault sets default threads for local transcription if not explicitly set
func (c *Config) applyThreadsDefault() {
	if c.Server.Threads == 0 {
		threads := runtime.NumCPU() - 1
		if threads < 1 {
			threads = 1
		}
		c.Server.Threads = threads
	}
}

func (c *Config) expandPaths() {
	c.Recording.OutputFile = expandHome(c.Recording.OutputFile)
	c.Server.ModelPath = expandHome(c.Server.ModelPath)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

func SaveDefaultConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	configContent := `# holdtalk configuration
# This file is automatically generated with defaults.
# The client reads it once at startup; "holdtalk serve" reloads [server] on change.

# Audio capture
[recording]
  output_file = ""             # Recording path (empty = ~/.cache/holdtalk/recording.wav)
  min_duration = 1.0           # Clips shorter than this many seconds are discarded
  command = ["ffmpeg", "-y", "-f", "alsa", "-i", "plughw:0,0", "{output}"]

# Transcription service used by the client
[transcription]
  endpoint = "http://localhost:8000/transcribe/"

# Global hotkeys
[hotkeys]
  trigger = "f1"               # Hold to record, release to transcribe
  exit = "ctrl+shift+escape"   # Stop holdtalk
  repeat_window = "40ms"       # Key autorepeat filter (0 disables)

# Pasting the transcription
[injection]
  paste_shortcut = "ctrl+shift+v"
  backends = ["ydotool", "wtype", "xdotool"]   # Keystroke tools, first available wins
  keystroke_timeout = "3s"

[notifications]
  enabled = true
  type = "desktop"             # "desktop", "log", "none"

# holdtalk serve
[server]
  addr = ":8000"
  path = "/transcribe/"
  backend = "openai"           # "openai" or "whisper-cpp"
  model = "whisper-1"
  language = "zh"              # Empty for auto-detect
  api_key = ""                 # Or set OPENAI_API_KEY
  base_url = ""                # OpenAI-compatible API root (empty = api.openai.com)
  whisper_binary = "whisper-cli"
  model_path = ""              # ggml model for whisper-cpp
  threads = 0                  # whisper-cpp threads (0 = auto)
`

	if _, err := file.WriteString(configContent); err != nil {
		return fmt.Errorf("failed to write config content: %w", err)
	}

	return nil
}
