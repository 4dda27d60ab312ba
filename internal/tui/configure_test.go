package tui

import (
	"strings"
	"testing"

	"github.com/holdtalk/holdtalk/internal/config"
)

func TestLanguageOptions_AutoFirst(t *testing.T) {
	options := languageOptions("zh")
	if len(options) < 2 {
		t.Fatalf("expected auto-detect plus languages, got %d options", len(options))
	}
	if options[0].Value != "" || !strings.HasPrefix(options[0].Key, "Auto-detect") {
		t.Errorf("first option = %q/%q, want auto-detect", options[0].Key, options[0].Value)
	}

	var current int
	for _, opt := range options {
		if strings.HasSuffix(opt.Key, "(current)") {
			current++
			if opt.Value != "zh" {
				t.Errorf("current marker on %q, want zh", opt.Value)
			}
		}
	}
	if current != 1 {
		t.Errorf("expected exactly one current option, got %d", current)
	}
}

func TestLanguageOptions_AutoCurrent(t *testing.T) {
	options := languageOptions("")
	if options[0].Key != "Auto-detect (current)" {
		t.Errorf("first option = %q", options[0].Key)
	}
}

func TestLanguageLabel(t *testing.T) {
	if got := languageLabel(""); got != "Auto-detect" {
		t.Errorf("languageLabel(\"\") = %q", got)
	}
	if got := languageLabel("zh"); got != "Chinese" {
		t.Errorf("languageLabel(zh) = %q", got)
	}
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"short", "***"},
		{"sk-1234567890abcdef", "sk-1234...cdef"},
	}
	for _, tt := range tests {
		if got := maskAPIKey(tt.key); got != tt.want {
			t.Errorf("maskAPIKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestOrderBackends(t *testing.T) {
	got := orderBackends([]string{"xdotool", "ydotool"})
	if strings.Join(got, ",") != "ydotool,xdotool" {
		t.Errorf("orderBackends() = %v", got)
	}
	if got := orderBackends(nil); len(got) != 0 {
		t.Errorf("orderBackends(nil) = %v", got)
	}
}

func TestValidators(t *testing.T) {
	tests := []struct {
		name    string
		fn      func(string) error
		input   string
		wantErr bool
	}{
		{"seconds", validateSeconds, "1.5", false},
		{"seconds zero", validateSeconds, "0", false},
		{"seconds negative", validateSeconds, "-1", true},
		{"seconds text", validateSeconds, "one", true},
		{"command", validateCommand, "ffmpeg -y -f alsa -i default {output}", false},
		{"command empty", validateCommand, "  ", true},
		{"command without output", validateCommand, "arecord out.wav", true},
		{"endpoint", validateEndpoint, "http://localhost:8000/transcribe/", false},
		{"endpoint no scheme", validateEndpoint, "localhost:8000", true},
		{"binding", validateBinding, "ctrl+space", false},
		{"binding unknown", validateBinding, "ctrl+banana", true},
		{"duration", validateDuration, "40ms", false},
		{"duration zero", validateDuration, "0s", false},
		{"duration negative", validateDuration, "-1s", true},
		{"positive duration", validatePositiveDuration, "3s", false},
		{"positive duration zero", validatePositiveDuration, "0s", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSummaryLines(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.APIKey = "sk-1234567890abcdef"

	summary := strings.Join(summaryLines(cfg), "\n")
	for _, want := range []string{
		"http://localhost:8000/transcribe/",
		"hold f1, exit ctrl+shift+escape",
		"ctrl+shift+v via ydotool -> wtype -> xdotool",
		"openai on :8000/transcribe/, Chinese",
		"sk-1234...cdef",
	} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
	if strings.Contains(summary, "1234567890ab") {
		t.Error("summary leaks the API key")
	}

	cfg.Notifications.Enabled = false
	if !strings.Contains(strings.Join(summaryLines(cfg), "\n"), "disabled") {
		t.Error("summary should show disabled notifications")
	}
}

func TestSectionOptions(t *testing.T) {
	cfg := config.DefaultConfig()
	options := sectionOptions(cfg)
	if len(options) != 8 {
		t.Fatalf("expected 8 sections, got %d", len(options))
	}
	if options[len(options)-2].Value != SectionSaveExit || options[len(options)-1].Value != SectionDiscardExit {
		t.Error("save and discard should be last")
	}
	if got := formatNotificationsLabel(cfg); got != "Notifications (desktop)" {
		t.Errorf("formatNotificationsLabel() = %q", got)
	}
}
