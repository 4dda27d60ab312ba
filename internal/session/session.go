package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/holdtalk/holdtalk/internal/notify"
	"github.com/holdtalk/holdtalk/internal/recording"
)

type State string
type Command string

const (
	Idle      State = "idle"
	Recording State = "recording"
	Sending   State = "sending"
)

const (
	Press   Command = "press"
	Release Command = "release"
	Exit    Command = "exit"
)

// DefaultMinDuration is the shortest clip, in seconds, that is sent for transcription.
const DefaultMinDuration = 1.0

type Config struct {
	OutputPath  string
	MinDuration float64
}

func DefaultConfig() Config {
	return Config{
		OutputPath:  recording.DefaultOutputPath(),
		MinDuration: DefaultMinDuration,
	}
}

// Recorder starts and stops the external capture process.
type Recorder interface {
	Start() error
	Stop() error
}

// Sender uploads an artifact and returns the transcribed text.
type Sender interface {
	Send(ctx context.Context, path string) (string, error)
}

// Injector delivers text to the focused application.
type Injector interface {
	Inject(ctx context.Context, text string) error
}

type sendResult struct {
	text   string
	pasted bool // the text reached the clipboard and the paste keystroke went out
	err    error
}

// Session is the push-to-talk state machine. All state transitions happen on
// the goroutine running Run; other goroutines only push commands.
type Session struct {
	config   Config
	recorder Recorder
	sender   Sender
	injector Injector
	notifier notify.Notifier

	// OnStateChange and OnError are optional observers, called on the Run
	// goroutine. Set them before calling Run.
	OnStateChange func(State)
	OnError       func(error)

	mu    sync.RWMutex // guards state
	state State

	startedAt time.Time
	sendDone  chan sendResult
}

func New(config Config, recorder Recorder, sender Sender, injector Injector, n notify.Notifier) *Session {
	if n == nil {
		n = notify.Nop{}
	}
	return &Session{
		config:   config,
		recorder: recorder,
		sender:   sender,
		injector: injector,
		notifier: n,
		state:    Idle,
		sendDone: make(chan sendResult, 1),
	}
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	changed := s.state != st
	s.state = st
	s.mu.Unlock()

	if changed {
		log.Printf("Session: state -> %s", st)
		if s.OnStateChange != nil {
			s.OnStateChange(st)
		}
	}
}

// Run processes commands until Exit arrives, the channel closes or ctx is
// cancelled. Shutdown stops an active capture, waits for an in-flight send
// and removes the artifact.
func (s *Session) Run(ctx context.Context, commands <-chan Command) {
	log.Printf("Session: ready (artifact %s, min duration %.2fs)", s.config.OutputPath, s.config.MinDuration)

	for {
		select {
		case cmd, ok := <-commands:
			if !ok || cmd == Exit {
				s.shutdown()
				return
			}
			s.handle(ctx, cmd)

		case res := <-s.sendDone:
			s.finishSend(res)

		case <-ctx.Done():
			s.shutdown()
			return
		}
	}
}

func (s *Session) handle(ctx context.Context, cmd Command) {
	switch cmd {
	case Press:
		s.onPress()
	case Release:
		s.onRelease(ctx)
	default:
		log.Printf("Session: unknown command %q", cmd)
	}
}

func (s *Session) onPress() {
	if s.State() != Idle {
		return
	}

	if err := s.recorder.Start(); err != nil {
		s.report(newError(CaptureStartFailure, err))
		return
	}

	s.startedAt = time.Now()
	s.setState(Recording)
	s.notifier.RecordingStarted()
}

func (s *Session) onRelease(ctx context.Context) {
	if s.State() != Recording {
		return
	}

	err := s.recorder.Stop()
	s.notifier.RecordingEnded()
	if err != nil {
		s.report(newError(CaptureStopFailure, err))
		s.cleanup()
		s.setState(Idle)
		return
	}

	duration, err := recording.ProbeDuration(s.config.OutputPath)
	if err != nil {
		s.report(newError(DurationReadFailure, err))
		duration = 0
	}
	log.Printf("Session: captured %.2fs of audio (held %v)", duration, time.Since(s.startedAt).Round(time.Millisecond))

	if duration < s.config.MinDuration {
		log.Printf("Session: recording too short (%.2fs < %.2fs), discarding", duration, s.config.MinDuration)
		s.notifier.Aborted()
		s.cleanup()
		s.setState(Idle)
		return
	}

	s.setState(Sending)
	s.notifier.Transcribing()

	// The send must outlive Exit: shutdown waits for it instead of cancelling.
	sendCtx := context.WithoutCancel(ctx)
	path := s.config.OutputPath
	go func() {
		s.sendDone <- s.deliver(sendCtx, path)
	}()
}

// deliver runs off the loop goroutine and touches no session state.
func (s *Session) deliver(ctx context.Context, path string) sendResult {
	text, err := s.sender.Send(ctx, path)
	if err != nil {
		return sendResult{err: classifySend(err)}
	}

	if err := s.injector.Inject(ctx, text); err != nil {
		var errs []error
		for _, e := range classifyInject(err) {
			errs = append(errs, e)
		}
		return sendResult{text: text, pasted: pasteLanded(err), err: errors.Join(errs...)}
	}
	return sendResult{text: text, pasted: true}
}

func (s *Session) finishSend(res sendResult) {
	if res.err != nil {
		if joined, ok := res.err.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				s.report(e)
			}
		} else {
			s.report(res.err)
		}
	}
	if res.pasted && res.text != "" {
		s.notifier.Completed(res.text)
	}

	s.cleanup()
	s.setState(Idle)
}

func (s *Session) shutdown() {
	log.Printf("Session: exit requested in state %s", s.State())

	switch s.State() {
	case Recording:
		if err := s.recorder.Stop(); err != nil {
			s.report(newError(CaptureStopFailure, err))
		}
	case Sending:
		log.Printf("Session: waiting for in-flight transcription")
		s.finishSend(<-s.sendDone)
	}

	s.cleanup()
	s.setState(Idle)
	log.Printf("Session: stopped")
}

// cleanup removes the artifact. A missing file is not an error.
func (s *Session) cleanup() {
	if err := os.Remove(s.config.OutputPath); err != nil && !os.IsNotExist(err) {
		s.report(newError(CleanupFailure, fmt.Errorf("remove %s: %w", s.config.OutputPath, err)))
	}
}

func (s *Session) report(err error) {
	log.Printf("Session: %v", err)
	s.notifier.Error(err.Error())
	if s.OnError != nil {
		s.OnError(err)
	}
}
