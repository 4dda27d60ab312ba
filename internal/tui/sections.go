package tui

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/holdtalk/holdtalk/internal/config"
	"github.com/holdtalk/holdtalk/internal/hotkey"
	"github.com/holdtalk/holdtalk/internal/injection"
	"github.com/holdtalk/holdtalk/internal/language"
)

func editRecording(cfg *config.Config) error {
	minDuration := strconv.FormatFloat(cfg.Recording.MinDuration, 'f', -1, 64)
	outputFile := cfg.Recording.OutputFile
	command := strings.Join(cfg.Recording.Command, " ")

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Minimum Duration (seconds)").
				Description("Shorter recordings are discarded without transcription.").
				Placeholder("1.0").
				Value(&minDuration).
				Validate(validateSeconds),
			huh.NewInput().
				Title("Recording File").
				Description("Where the capture is written. Empty = ~/.cache/holdtalk/recording.wav").
				Placeholder("(default)").
				Value(&outputFile),
			huh.NewInput().
				Title("Capture Command").
				Description("Space separated; {output} is replaced by the recording file.").
				Value(&command).
				Validate(validateCommand),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.Recording.MinDuration, _ = strconv.ParseFloat(strings.TrimSpace(minDuration), 64)
	cfg.Recording.OutputFile = strings.TrimSpace(outputFile)
	cfg.Recording.Command = strings.Fields(command)
	return nil
}

func editTranscription(cfg *config.Config) error {
	endpoint := cfg.Transcription.Endpoint

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Transcription Endpoint").
				Description("URL the recording is uploaded to (holdtalk serve listens on :8000/transcribe/).").
				Placeholder("http://localhost:8000/transcribe/").
				Value(&endpoint).
				Validate(validateEndpoint),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.Transcription.Endpoint = strings.TrimSpace(endpoint)
	return nil
}

func editHotkeys(cfg *config.Config) error {
	trigger := cfg.Hotkeys.Trigger
	exit := cfg.Hotkeys.Exit
	repeatWindow := cfg.Hotkeys.RepeatWindow.String()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Push-to-talk Key").
				Description("Hold to record, release to transcribe (e.g. 'f1', 'ctrl+space').").
				Value(&trigger).
				Validate(validateBinding),
			huh.NewInput().
				Title("Exit Key").
				Description("Stops holdtalk.").
				Value(&exit).
				Validate(validateBinding),
			huh.NewInput().
				Title("Key Repeat Window").
				Description("Release events followed by a press within this window are ignored. 0 disables.").
				Placeholder("40ms").
				Value(&repeatWindow).
				Validate(validateDuration),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.Hotkeys.Trigger = strings.TrimSpace(trigger)
	cfg.Hotkeys.Exit = strings.TrimSpace(exit)
	cfg.Hotkeys.RepeatWindow, _ = time.ParseDuration(strings.TrimSpace(repeatWindow))
	return nil
}

func editInjection(cfg *config.Config) error {
	shortcut := cfg.Injection.PasteShortcut
	backends := append([]string(nil), cfg.Injection.Backends...)
	timeout := cfg.Injection.KeystrokeTimeout.String()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Paste Shortcut").
				Description("Sent to the focused window after the text is copied.").
				Placeholder("ctrl+shift+v").
				Value(&shortcut).
				Validate(func(s string) error {
					_, err := injection.ParseShortcut(s)
					return err
				}),
			huh.NewMultiSelect[string]().
				Title("Keystroke Backends").
				Description("The first available one sends the shortcut.").
				Options(
					huh.NewOption("ydotool (Wayland and X11, needs ydotoold)", "ydotool"),
					huh.NewOption("wtype (Wayland)", "wtype"),
					huh.NewOption("xdotool (X11)", "xdotool"),
				).
				Value(&backends).
				Validate(func(s []string) error {
					if len(s) == 0 {
						return fmt.Errorf("select at least one backend")
					}
					return nil
				}),
			huh.NewInput().
				Title("Keystroke Timeout").
				Placeholder("3s").
				Value(&timeout).
				Validate(validatePositiveDuration),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.Injection.PasteShortcut = strings.TrimSpace(shortcut)
	cfg.Injection.Backends = orderBackends(backends)
	cfg.Injection.KeystrokeTimeout, _ = time.ParseDuration(strings.TrimSpace(timeout))
	return nil
}

func editNotifications(cfg *config.Config) error {
	enabled := cfg.Notifications.Enabled
	notifType := cfg.Notifications.Type
	if notifType == "" {
		notifType = "desktop"
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Enable notifications?").
				Description("Show recording and transcription status changes").
				Value(&enabled),
			huh.NewSelect[string]().
				Title("Notification Type").
				Options(
					huh.NewOption("Desktop notifications (notify-send)", "desktop"),
					huh.NewOption("Log to console only", "log"),
					huh.NewOption("None (silent)", "none"),
				).
				Value(&notifType),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.Notifications.Enabled = enabled
	cfg.Notifications.Type = notifType
	return nil
}

func editServer(cfg *config.Config) error {
	backend := cfg.Server.Backend
	lang := cfg.Server.Language
	addr := cfg.Server.Addr
	model := cfg.Server.Model
	apiKey := cfg.Server.APIKey
	baseURL := cfg.Server.BaseURL
	modelPath := cfg.Server.ModelPath
	threads := strconv.Itoa(cfg.Server.Threads)
	convert := cfg.Server.Convert

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Server Backend").
				Options(
					huh.NewOption("OpenAI Whisper API (or compatible)", "openai"),
					huh.NewOption("whisper.cpp (local)", "whisper-cpp"),
				).
				Value(&backend),
			huh.NewSelect[string]().
				Title("Language").
				Description("Spoken language passed to the backend").
				Options(languageOptions(lang)...).
				Filtering(true).
				Value(&lang),
			huh.NewSelect[string]().
				Title("Chinese Script").
				Description("Conversion applied to every transcript").
				Options(
					huh.NewOption("Traditional to Simplified", "t2s"),
					huh.NewOption("Simplified to Traditional", "s2t"),
					huh.NewOption("Simplified to Taiwan", "s2tw"),
					huh.NewOption("Off", ""),
				).
				Value(&convert),
			huh.NewInput().
				Title("Listen Address").
				Placeholder(":8000").
				Value(&addr).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("address is required")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Model").
				Placeholder("whisper-1").
				Value(&model),
			huh.NewInput().
				Title("API Key").
				Description("Empty = use OPENAI_API_KEY").
				EchoMode(huh.EchoModePassword).
				Value(&apiKey),
			huh.NewInput().
				Title("Base URL").
				Description("OpenAI-compatible API root. Empty = api.openai.com").
				Value(&baseURL),
		).WithHideFunc(func() bool { return backend != "openai" }),
		huh.NewGroup(
			huh.NewInput().
				Title("Model Path").
				Description("ggml model file for whisper-cli").
				Value(&modelPath),
			huh.NewInput().
				Title("Threads").
				Description("0 = number of CPUs minus one").
				Value(&threads).
				Validate(func(s string) error {
					if n, err := strconv.Atoi(strings.TrimSpace(s)); err != nil || n < 0 {
						return fmt.Errorf("must be a non-negative number")
					}
					return nil
				}),
		).WithHideFunc(func() bool { return backend != "whisper-cpp" }),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.Server.Backend = backend
	cfg.Server.Language = lang
	cfg.Server.Convert = convert
	cfg.Server.Addr = strings.TrimSpace(addr)
	cfg.Server.Model = strings.TrimSpace(model)
	cfg.Server.APIKey = strings.TrimSpace(apiKey)
	cfg.Server.BaseURL = strings.TrimSpace(baseURL)
	cfg.Server.ModelPath = strings.TrimSpace(modelPath)
	cfg.Server.Threads, _ = strconv.Atoi(strings.TrimSpace(threads))
	return nil
}

// languageOptions lists auto-detect first, then every known language.
func languageOptions(current string) []huh.Option[string] {
	autoLabel := "Auto-detect"
	if current == "" {
		autoLabel += " (current)"
	}
	options := []huh.Option[string]{huh.NewOption(autoLabel, "")}

	for _, lang := range language.List() {
		label := lang.Label()
		if lang.Code == current {
			label += " (current)"
		}
		options = append(options, huh.NewOption(label, lang.Code))
	}
	return options
}

func languageLabel(code string) string {
	if code == "" {
		return language.Auto.Name
	}
	return language.FromCode(code).Name
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:7] + "..." + key[len(key)-4:]
}

// orderBackends keeps the preference order ydotool, wtype, xdotool.
func orderBackends(selected []string) []string {
	var ordered []string
	for _, name := range []string{"ydotool", "wtype", "xdotool"} {
		for _, s := range selected {
			if s == name {
				ordered = append(ordered, name)
				break
			}
		}
	}
	return ordered
}

func validateSeconds(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if v < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func validateCommand(s string) error {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return fmt.Errorf("command is required")
	}
	if !strings.Contains(s, "{output}") {
		return fmt.Errorf("command must contain {output}")
	}
	return nil
}

func validateEndpoint(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("must be an http or https URL")
	}
	return nil
}

func validateBinding(s string) error {
	_, err := hotkey.ParseBinding(s)
	return err
}

func validateDuration(s string) error {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid duration format (use '40ms', '0s', etc.)")
	}
	if d < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func validatePositiveDuration(s string) error {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid duration format (use '3s', '500ms', etc.)")
	}
	if d <= 0 {
		return fmt.Errorf("must be greater than zero")
	}
	return nil
}
