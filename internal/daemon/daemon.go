package daemon

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/holdtalk/holdtalk/internal/bus"
	"github.com/holdtalk/holdtalk/internal/config"
	"github.com/holdtalk/holdtalk/internal/hotkey"
	"github.com/holdtalk/holdtalk/internal/injection"
	"github.com/holdtalk/holdtalk/internal/recording"
	"github.com/holdtalk/holdtalk/internal/session"
	"github.com/holdtalk/holdtalk/internal/transcriber"
)

// Daemon runs one dictation session and feeds it from the hotkeys, the
// control socket and process signals.
type Daemon struct {
	session      *session.Session
	source       hotkey.Source
	repeatWindow time.Duration

	commands    chan session.Command
	sessionDone chan struct{}
	wg          sync.WaitGroup
}

func New(s *session.Session, source hotkey.Source, repeatWindow time.Duration) *Daemon {
	return &Daemon{
		session:      s,
		source:       source,
		repeatWindow: repeatWindow,
		commands:     make(chan session.Command),
		sessionDone:  make(chan struct{}),
	}
}

// FromConfig wires the real recorder, transcription client, injector and
// global hotkeys. A running daemon owns the hotkeys, so it is detected first.
func FromConfig(cfg *config.Config) (*Daemon, error) {
	if err := bus.CheckExistingDaemon(); err != nil {
		return nil, err
	}

	injector, err := injection.NewInjector(cfg.ToInjectionConfig(), injection.SystemClipboard())
	if err != nil {
		return nil, fmt.Errorf("failed to create injector: %w", err)
	}
	if err := injector.CheckAvailable(); err != nil {
		log.Printf("Daemon: injection check failed: %v", err)
	}

	s := session.New(
		cfg.ToSessionConfig(),
		recording.NewRecorder(cfg.ToRecordingConfig()),
		transcriber.NewClient(cfg.ToTranscriberConfig()),
		injector,
		cfg.Notifier(),
	)

	hk := cfg.ToHotkeyConfig()
	source, err := hotkey.NewGlobalSource(hk)
	if err != nil {
		return nil, fmt.Errorf("failed to register hotkeys: %w", err)
	}

	return New(s, source, hk.RepeatWindow), nil
}

func (d *Daemon) Session() *session.Session {
	return d.session
}

// Run blocks until the session exits. It refuses to start when another
// daemon owns the PID file. The hotkey source is released on every return.
func (d *Daemon) Run(ctx context.Context) error {
	defer func() {
		if err := d.source.Close(); err != nil {
			log.Printf("Daemon: failed to release hotkeys: %v", err)
		}
	}()

	if err := bus.CheckExistingDaemon(); err != nil {
		return err
	}

	ln, err := bus.Listen()
	if err != nil {
		return err
	}
	defer ln.Close()

	if err := bus.CreatePidFile(); err != nil {
		return fmt.Errorf("failed to create PID file: %w", err)
	}
	defer bus.RemovePidFile()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigCh)

	go func() {
		d.session.Run(ctx, d.commands)
		close(d.sessionDone)
	}()

	hkCtx, cancelHotkeys := context.WithCancel(ctx)
	defer cancelHotkeys()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		controller := hotkey.NewController(d.source, d.repeatWindow)
		if err := controller.Run(hkCtx, d.commands); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Daemon: hotkey controller stopped: %v", err)
		}
	}()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.serve(ln)
	}()

	log.Printf("Daemon started, listening on socket")

	select {
	case sig := <-sigCh:
		log.Printf("Received signal %v, shutting down gracefully", sig)
		d.requestExit()
		<-d.sessionDone
	case <-d.sessionDone:
	}

	log.Printf("Daemon: session finished, stopping")
	cancelHotkeys()
	ln.Close()
	d.wg.Wait()
	return nil
}

// requestExit asks the session to shut down unless it already has.
func (d *Daemon) requestExit() {
	select {
	case d.commands <- session.Exit:
	case <-d.sessionDone:
	}
}

func (d *Daemon) serve(ln net.Listener) {
	var conns sync.WaitGroup
	defer conns.Wait()

	for {
		c, err := ln.Accept()
		if err != nil {
			select {
			case <-d.sessionDone:
			default:
				if !errors.Is(err, net.ErrClosed) {
					log.Printf("Accept error: %v", err)
				}
			}
			return
		}
		conns.Add(1)
		go func() {
			defer conns.Done()
			d.handle(c)
		}()
	}
}

func (d *Daemon) handle(c net.Conn) {
	defer c.Close()

	line, err := bufio.NewReader(c).ReadString('\n')
	if err != nil {
		log.Printf("Client read error: %v", err)
		fmt.Fprintf(c, "ERR read_error: %v\n", err)
		return
	}
	if len(line) == 0 {
		fmt.Fprint(c, "ERR empty\n")
		return
	}
	cmd := line[0]

	switch cmd {
	case bus.CmdStatus:
		fmt.Fprintf(c, "STATUS state=%s\n", d.session.State())
	case bus.CmdVersion:
		fmt.Fprintf(c, "STATUS proto=%s\n", bus.ProtoVer)
	case bus.CmdQuit:
		log.Printf("Shutdown requested")
		fmt.Fprint(c, "OK quitting\n")
		d.requestExit()
	default:
		log.Printf("Unknown command: %c", cmd)
		fmt.Fprintf(c, "ERR unknown=%q\n", cmd)
	}
}
