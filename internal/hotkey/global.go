package hotkey

import (
	"fmt"
	"log"
	"sync"

	"golang.design/x/hotkey"
)

// GlobalSource grabs the trigger and exit bindings system wide.
type GlobalSource struct {
	trigger *hotkey.Hotkey
	exit    *hotkey.Hotkey

	pressed  chan struct{}
	released chan struct{}
	exitCh   chan struct{}

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewGlobalSource registers both bindings. Failure here is fatal for the client.
func NewGlobalSource(config Config) (*GlobalSource, error) {
	trigger, err := register(config.Trigger)
	if err != nil {
		return nil, fmt.Errorf("trigger: %w", err)
	}
	exit, err := register(config.Exit)
	if err != nil {
		trigger.Unregister()
		return nil, fmt.Errorf("exit: %w", err)
	}

	s := &GlobalSource{
		trigger:  trigger,
		exit:     exit,
		pressed:  make(chan struct{}),
		released: make(chan struct{}),
		exitCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}

	s.wg.Add(1)
	go s.pump()

	log.Printf("Hotkey: registered trigger=%s exit=%s", config.Trigger, config.Exit)
	return s, nil
}

func register(spec string) (*hotkey.Hotkey, error) {
	b, err := ParseBinding(spec)
	if err != nil {
		return nil, err
	}
	hk, err := b.hotkey()
	if err != nil {
		return nil, err
	}
	if err := hk.Register(); err != nil {
		return nil, fmt.Errorf("register %s: %w", b, err)
	}
	return hk, nil
}

func (s *GlobalSource) pump() {
	defer s.wg.Done()

	for {
		var out chan struct{}
		select {
		case <-s.trigger.Keydown():
			out = s.pressed
		case <-s.trigger.Keyup():
			out = s.released
		case <-s.exit.Keydown():
			out = s.exitCh
		case <-s.done:
			return
		}

		select {
		case out <- struct{}{}:
		case <-s.done:
			return
		}
	}
}

func (s *GlobalSource) Pressed() <-chan struct{}       { return s.pressed }
func (s *GlobalSource) Released() <-chan struct{}      { return s.released }
func (s *GlobalSource) ExitRequested() <-chan struct{} { return s.exitCh }

// Close unregisters every binding.
func (s *GlobalSource) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		s.wg.Wait()

		if e := s.trigger.Unregister(); e != nil {
			err = fmt.Errorf("unregister trigger: %w", e)
		}
		if e := s.exit.Unregister(); e != nil && err == nil {
			err = fmt.Errorf("unregister exit: %w", e)
		}
		log.Printf("Hotkey: bindings released")
	})
	return err
}
