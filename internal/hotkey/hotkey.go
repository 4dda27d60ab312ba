package hotkey

import (
	"context"
	"log"
	"time"

	"github.com/holdtalk/holdtalk/internal/session"
)

// Source delivers raw key events for the trigger and exit bindings.
type Source interface {
	Pressed() <-chan struct{}
	Released() <-chan struct{}
	ExitRequested() <-chan struct{}
	Close() error
}

type Config struct {
	Trigger      string        // held to record, e.g. "f1"
	Exit         string        // terminates the client, e.g. "ctrl+shift+escape"
	RepeatWindow time.Duration // release followed by press within this window is key autorepeat
}

func DefaultConfig() Config {
	return Config{
		Trigger:      "f1",
		Exit:         "ctrl+shift+escape",
		RepeatWindow: 40 * time.Millisecond,
	}
}

// Controller turns key events into session commands. It keeps no session state.
type Controller struct {
	source       Source
	repeatWindow time.Duration
}

func NewController(source Source, repeatWindow time.Duration) *Controller {
	return &Controller{source: source, repeatWindow: repeatWindow}
}

// Run forwards events until exit is requested or ctx is done. X11 reports a
// held key as repeated release/press pairs, so a release is only forwarded
// once no press follows it within the repeat window.
func (c *Controller) Run(ctx context.Context, out chan<- session.Command) error {
	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-c.source.Pressed():
			if pending != nil {
				timer.Stop()
				pending = nil
				continue
			}
			if !forward(ctx, out, session.Press) {
				return ctx.Err()
			}

		case <-c.source.Released():
			if c.repeatWindow <= 0 {
				if !forward(ctx, out, session.Release) {
					return ctx.Err()
				}
				continue
			}
			if timer == nil {
				timer = time.NewTimer(c.repeatWindow)
			} else {
				timer.Reset(c.repeatWindow)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			if !forward(ctx, out, session.Release) {
				return ctx.Err()
			}

		case <-c.source.ExitRequested():
			log.Printf("Hotkey: exit requested")
			forward(ctx, out, session.Exit)
			return nil
		}
	}
}

func forward(ctx context.Context, out chan<- session.Command, cmd session.Command) bool {
	select {
	case out <- cmd:
		return true
	case <-ctx.Done():
		return false
	}
}
