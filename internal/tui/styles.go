package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	ColorPrimary   = lipgloss.Color("#E11D48") // rose
	ColorSecondary = lipgloss.Color("#F59E0B") // amber
	ColorSuccess   = lipgloss.Color("#22C55E")
	ColorError     = lipgloss.Color("#EF4444")
	ColorText      = lipgloss.Color("#F8FAFC")
	ColorMuted     = lipgloss.Color("#94A3B8")
)

var (
	StyleHeader  = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary).MarginBottom(1)
	StyleLabel   = lipgloss.NewStyle().Bold(true).Foreground(ColorText)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Bold(true).Foreground(ColorError)
	StyleSubtle  = lipgloss.NewStyle().Italic(true).Foreground(ColorMuted)

	// summary panel shown before saving
	StyleBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(1, 2)
)

const logoASCII = `
 _           _     _ _        _ _    
| |__   ___ | | __| | |_ __ _| | | __
| '_ \ / _ \| |/ _' | __/ _' | | |/ /
| | | | (_) | | (_| | || (_| | |   < 
|_| |_|\___/|_|\__,_|\__\__,_|_|_|\_\`

func Logo() string {
	return StyleHeader.Render(strings.Trim(logoASCII, "\n"))
}
