package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Status represents the installation status of a dependency
type Status struct {
	Installed bool
	Path      string
	Version   string
}

// versionArgs are the flags that print a version line, per binary.
var versionArgs = map[string][]string{
	"ffmpeg":      {"-version"},
	"whisper-cli": {"--version"},
	"xdotool":     {"--version"},
	"wtype":       {"-h"},
	"notify-send": {"--version"},
}

// Check looks up name in PATH and, when known, records its version line.
func Check(name string) Status {
	path, err := exec.LookPath(name)
	if err != nil {
		return Status{Installed: false}
	}

	status := Status{
		Installed: true,
		Path:      path,
	}

	args, ok := versionArgs[name]
	if !ok {
		return status
	}
	output, err := exec.Command(path, args...).CombinedOutput()
	if err == nil {
		// first line carries the version
		lines := strings.Split(string(output), "\n")
		if len(lines) > 0 {
			status.Version = strings.TrimSpace(lines[0])
		}
	}
	return status
}

// CheckWhisperCli checks if whisper-cli is installed and returns its status
func CheckWhisperCli() Status { return Check("whisper-cli") }

// CheckFFmpeg checks if ffmpeg is installed and returns its status
func CheckFFmpeg() Status { return Check("ffmpeg") }

// Requirement is satisfied when any of its binaries is installed.
type Requirement struct {
	Purpose  string
	Binaries []string
	Optional bool
}

type Result struct {
	Requirement Requirement
	Found       string // first installed binary
	Status      Status
}

func (r Result) OK() bool { return r.Found != "" }

// ClientRequirements lists what `holdtalk run` shells out to.
func ClientRequirements(captureBinary string, backends []string, desktopNotify bool) []Requirement {
	reqs := []Requirement{
		{Purpose: "audio capture", Binaries: []string{captureBinary}},
		{Purpose: "clipboard", Binaries: []string{"wl-copy", "xclip", "xsel"}},
		{Purpose: "paste keystroke", Binaries: backends},
	}
	if desktopNotify {
		reqs = append(reqs, Requirement{Purpose: "notifications", Binaries: []string{"notify-send"}, Optional: true})
	}
	return reqs
}

// ServerRequirements lists what `holdtalk serve` shells out to.
func ServerRequirements(backend, whisperBinary string) []Requirement {
	if backend != "whisper-cpp" {
		return nil
	}
	return []Requirement{{Purpose: "local transcription", Binaries: []string{whisperBinary}}}
}

// Run checks every requirement, using check for lookups.
func Run(reqs []Requirement, check func(string) Status) []Result {
	if check == nil {
		check = Check
	}
	results := make([]Result, 0, len(reqs))
	for _, req := range reqs {
		res := Result{Requirement: req}
		for _, bin := range req.Binaries {
			if bin == "" {
				continue
			}
			if st := check(bin); st.Installed {
				res.Found = bin
				res.Status = st
				break
			}
		}
		results = append(results, res)
	}
	return results
}

// Healthy reports whether every required dependency was found.
func Healthy(results []Result) bool {
	for _, r := range results {
		if !r.OK() && !r.Requirement.Optional {
			return false
		}
	}
	return true
}

var (
	styleOK      = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))
	styleMissing = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	styleWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("#EAB308"))
	styleMuted   = lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8"))
	stylePurpose = lipgloss.NewStyle().Bold(true).Width(20)
)

// Render formats results one per line.
func Render(results []Result) string {
	var b strings.Builder
	for _, r := range results {
		purpose := stylePurpose.Render(r.Requirement.Purpose)
		switch {
		case r.OK():
			detail := r.Status.Path
			if r.Status.Version != "" {
				detail = r.Status.Version
			}
			fmt.Fprintf(&b, "%s %s %s %s\n", styleOK.Render("✓"), purpose, r.Found, styleMuted.Render(detail))
		case r.Requirement.Optional:
			fmt.Fprintf(&b, "%s %s %s\n", styleWarn.Render("!"), purpose, styleMuted.Render("not found: "+strings.Join(r.Requirement.Binaries, ", ")))
		default:
			fmt.Fprintf(&b, "%s %s %s\n", styleMissing.Render("✗"), purpose, styleMissing.Render("missing: "+strings.Join(r.Requirement.Binaries, ", ")))
		}
	}
	return b.String()
}
