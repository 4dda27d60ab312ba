package notify

import (
	"fmt"
	"log"
	"os/exec"
)

const appName = "holdtalk"

type Notifier interface {
	RecordingStarted()
	RecordingEnded()
	Transcribing()
	Aborted()
	Completed(text string)
	Error(msg string)
	Notify(title, message string)
}

// New returns the notifier registered under kind: "desktop", "log" or "none".
func New(kind string) (Notifier, error) {
	switch kind {
	case "desktop", "":
		return Desktop{}, nil
	case "log":
		return Log{}, nil
	case "none":
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown notification type: %s", kind)
	}
}

type Desktop struct{}

func (d Desktop) RecordingStarted() { d.Notify(appName, "Recording Started") }
func (d Desktop) RecordingEnded()   { d.Notify(appName, "Recording Ended") }
func (d Desktop) Transcribing()     { d.Notify(appName, "Transcribing...") }
func (d Desktop) Aborted()          { d.Notify(appName, "Aborted: recording too short") }

func (d Desktop) Completed(text string) {
	d.Notify(appName, "Pasted: "+preview(text))
}

func (Desktop) Error(msg string) {
	cmd := exec.Command("notify-send", "-a", appName, "-u", "critical", appName+" Error", msg)
	if err := cmd.Run(); err != nil {
		log.Printf("Failed to send error notification: %v", err)
	}
}

func (Desktop) Notify(title, message string) {
	cmd := exec.Command("notify-send", "-a", appName, title, message)
	if err := cmd.Run(); err != nil {
		log.Printf("Failed to send notification: %v", err)
	}
}

// Log writes notifications to the standard logger.
type Log struct{}

func (l Log) RecordingStarted()     { l.Notify(appName, "Recording Started") }
func (l Log) RecordingEnded()       { l.Notify(appName, "Recording Ended") }
func (l Log) Transcribing()         { l.Notify(appName, "Transcribing...") }
func (l Log) Aborted()              { l.Notify(appName, "Aborted: recording too short") }
func (l Log) Completed(text string) { l.Notify(appName, "Pasted: "+preview(text)) }

func (Log) Error(msg string) {
	log.Printf("%s Error: %s", appName, msg)
}

func (Log) Notify(title, message string) {
	log.Printf("%s: %s", title, message)
}

// Nop is a Notifier that does absolutely nothing.
// Useful in unit tests or headless builds.
type Nop struct{}

func (Nop) RecordingStarted()            {}
func (Nop) RecordingEnded()              {}
func (Nop) Transcribing()                {}
func (Nop) Aborted()                     {}
func (Nop) Completed(text string)        {}
func (Nop) Error(msg string)             {}
func (Nop) Notify(title, message string) {}

func preview(text string) string {
	const max = 60
	r := []rune(text)
	if len(r) <= max {
		return text
	}
	return string(r[:max]) + "…"
}
