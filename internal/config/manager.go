package config

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/holdtalk/holdtalk/internal/server"
)

// reloadDelay coalesces the burst of events an editor produces on save.
const reloadDelay = 100 * time.Millisecond

// Manager holds the config of the transcription server and swaps it when the
// file changes on disk. A change that fails to load or validate is ignored
// and the previous config stays active.
type Manager struct {
	path string

	mu      sync.RWMutex
	current *Config

	watcher *fsnotify.Watcher
	timer   *time.Timer
	wg      sync.WaitGroup

	// OnReload, if set, runs after each accepted reload.
	OnReload func(*Config)
}

func NewManager(path string) (*Manager, error) {
	c, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		log.Printf("Config manager: %s: %v", path, err)
	}
	return &Manager{path: path, current: c}, nil
}

// GetConfig returns a copy of the active config.
func (m *Manager) GetConfig() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c := *m.current
	c.Recording.Command = append([]string(nil), m.current.Recording.Command...)
	c.Injection.Backends = append([]string(nil), m.current.Injection.Backends...)
	return &c
}

// Settings is the server view of the active config; the server calls it once
// per request.
func (m *Manager) Settings() server.Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.ToServerSettings()
}

// StartWatching watches the directory holding the config file, since editors
// often replace the file rather than write it in place.
func (m *Manager) StartWatching(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(m.path)); err != nil {
		w.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(m.path), err)
	}
	m.watcher = w

	m.wg.Add(1)
	go m.watch(ctx)

	log.Printf("Config manager: watching %s", m.path)
	return nil
}

func (m *Manager) Stop() {
	if m.watcher != nil {
		m.watcher.Close()
	}
	m.wg.Wait()

	m.mu.Lock()
	if m.timer != nil {
		m.timer.Stop()
	}
	m.mu.Unlock()
}

func (m *Manager) watch(ctx context.Context) {
	defer m.wg.Done()
	name := filepath.Base(m.path)

	for {
		select {
		case ev, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != name || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			m.scheduleReload()

		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Config manager: watcher error: %v", err)

		case <-ctx.Done():
			return
		}
	}
}

func (m *Manager) scheduleReload() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = time.AfterFunc(reloadDelay, func() {
		if err := m.reloadConfig(); err != nil {
			log.Printf("Config manager: keeping previous config: %v", err)
		}
	})
}

func (m *Manager) reloadConfig() error {
	c, err := LoadFile(m.path)
	if err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	m.current = c
	m.mu.Unlock()

	log.Printf("Config manager: reloaded %s (backend %s, model %s)", m.path, c.Server.Backend, c.Server.Model)
	if m.OnReload != nil {
		m.OnReload(c)
	}
	return nil
}
