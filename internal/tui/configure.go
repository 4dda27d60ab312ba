package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/holdtalk/holdtalk/internal/config"
	"github.com/muesli/termenv"
)

// ConfigureResult holds the configuration result from the TUI
type ConfigureResult struct {
	Config    *config.Config
	Cancelled bool
}

// ConfigSection represents a configuration section
type ConfigSection string

const (
	SectionRecording     ConfigSection = "recording"
	SectionTranscription ConfigSection = "transcription"
	SectionHotkeys       ConfigSection = "hotkeys"
	SectionInjection     ConfigSection = "injection"
	SectionNotifications ConfigSection = "notifications"
	SectionServer        ConfigSection = "server"
	SectionSaveExit      ConfigSection = "save_exit"
	SectionDiscardExit   ConfigSection = "discard_exit"
)

// Run shows the configuration menu until the user saves or discards.
// The returned config is a modified copy of cfg.
func Run(cfg *config.Config) (*ConfigureResult, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	working := *cfg

	for {
		clearScreen()
		fmt.Println(Logo())
		fmt.Println()

		section, err := selectSection(&working)
		if err != nil {
			return &ConfigureResult{Cancelled: true}, nil
		}

		switch section {
		case SectionSaveExit:
			if err := working.Validate(); err != nil {
				fmt.Println(StyleError.Render("Invalid configuration: " + err.Error()))
				waitForEnter()
				continue
			}
			confirmed, err := showSummary(&working)
			if err != nil {
				return &ConfigureResult{Cancelled: true}, nil
			}
			if confirmed {
				return &ConfigureResult{Config: &working}, nil
			}

		case SectionDiscardExit:
			return &ConfigureResult{Cancelled: true}, nil

		// A section aborted with esc leaves working untouched.
		case SectionRecording:
			_ = editRecording(&working)
		case SectionTranscription:
			_ = editTranscription(&working)
		case SectionHotkeys:
			_ = editHotkeys(&working)
		case SectionInjection:
			_ = editInjection(&working)
		case SectionNotifications:
			_ = editNotifications(&working)
		case SectionServer:
			_ = editServer(&working)
		}
	}
}

func sectionOptions(cfg *config.Config) []huh.Option[ConfigSection] {
	return []huh.Option[ConfigSection]{
		huh.NewOption(fmt.Sprintf("Recording (min %.1fs)", cfg.Recording.MinDuration), SectionRecording),
		huh.NewOption("Transcription ("+cfg.Transcription.Endpoint+")", SectionTranscription),
		huh.NewOption(fmt.Sprintf("Hotkeys (hold %s, exit %s)", cfg.Hotkeys.Trigger, cfg.Hotkeys.Exit), SectionHotkeys),
		huh.NewOption("Injection ("+strings.Join(cfg.Injection.Backends, " -> ")+")", SectionInjection),
		huh.NewOption(formatNotificationsLabel(cfg), SectionNotifications),
		huh.NewOption(fmt.Sprintf("Server (%s, %s)", cfg.Server.Backend, languageLabel(cfg.Server.Language)), SectionServer),
		huh.NewOption("Save & Exit", SectionSaveExit),
		huh.NewOption("Discard & Exit", SectionDiscardExit),
	}
}

func formatNotificationsLabel(cfg *config.Config) string {
	if !cfg.Notifications.Enabled {
		return "Notifications (disabled)"
	}
	return "Notifications (" + cfg.Notifications.Type + ")"
}

func selectSection(cfg *config.Config) (ConfigSection, error) {
	var selected ConfigSection
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[ConfigSection]().
				Title("Configuration Menu").
				Description("↑/↓ navigate • enter select • esc cancel").
				Options(sectionOptions(cfg)...).
				Value(&selected),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return "", err
	}

	return selected, nil
}

func showSummary(cfg *config.Config) (bool, error) {
	fmt.Println()
	fmt.Println(StyleBox.Render(strings.Join(summaryLines(cfg), "\n")))
	fmt.Println()

	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save this configuration?").
				Affirmative("Save").
				Negative("Cancel").
				Value(&confirmed),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return false, err
	}

	return confirmed, nil
}

func summaryLines(cfg *config.Config) []string {
	row := func(label, value string) string {
		return fmt.Sprintf("%s %s", StyleLabel.Render(label), value)
	}

	lines := []string{
		StyleHeader.Render("Configuration Summary"),
		row("Min duration:", fmt.Sprintf("%.2fs", cfg.Recording.MinDuration)),
		row("Capture:", strings.Join(cfg.Recording.Command, " ")),
		row("Endpoint:", cfg.Transcription.Endpoint),
		row("Hotkeys:", fmt.Sprintf("hold %s, exit %s", cfg.Hotkeys.Trigger, cfg.Hotkeys.Exit)),
		row("Paste:", cfg.Injection.PasteShortcut+" via "+strings.Join(cfg.Injection.Backends, " -> ")),
	}

	if cfg.Notifications.Enabled {
		lines = append(lines, row("Notifications:", cfg.Notifications.Type))
	} else {
		lines = append(lines, row("Notifications:", "disabled"))
	}

	server := fmt.Sprintf("%s on %s%s, %s", cfg.Server.Backend, cfg.Server.Addr, cfg.Server.Path, languageLabel(cfg.Server.Language))
	switch cfg.Server.Backend {
	case "openai":
		server += ", model " + cfg.Server.Model
		if cfg.Server.APIKey != "" {
			server += ", key " + maskAPIKey(cfg.Server.APIKey)
		}
	case "whisper-cpp":
		server += ", model " + cfg.Server.ModelPath
	}
	lines = append(lines, row("Server:", server))

	return lines
}

// clearScreen clears the terminal screen
func clearScreen() {
	output := termenv.NewOutput(os.Stdout)
	output.ClearScreen()
}

func waitForEnter() {
	fmt.Println(StyleSubtle.Render("Press enter to continue"))
	fmt.Scanln()
}

func getTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(ColorMuted)
	t.Focused.Base = lipgloss.NewStyle().BorderForeground(ColorPrimary)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(ColorSecondary)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(ColorText)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(ColorError)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(ColorMuted)
	t.Blurred.Description = lipgloss.NewStyle().Foreground(ColorMuted)

	return t
}
