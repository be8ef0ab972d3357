package config

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/leonardotrapani/scribe/internal/logging"
)

// Manager owns the live Config and reloads it when the file on disk
// changes, so an edited config.toml takes effect without restarting the
// daemon.
type Manager struct {
	mu     sync.RWMutex
	config *Config

	watcher *fsnotify.Watcher
	wg      sync.WaitGroup

	onReload func(*Config)
}

func NewManager() (*Manager, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Manager{config: cfg}, nil
}

func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cp := *m.config
	return &cp
}

// OnReload registers a callback invoked with the new config after a
// successful hot reload. Only one callback is supported.
func (m *Manager) OnReload(fn func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onReload = fn
}

func (m *Manager) Watch(ctx context.Context) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return err
	}
	m.watcher = watcher

	m.wg.Add(1)
	go m.watchLoop(ctx, path)

	logging.Infof("config: watching %s for changes", path)
	return nil
}

func (m *Manager) Stop() {
	if m.watcher != nil {
		m.watcher.Close()
	}
	m.wg.Wait()
}

func (m *Manager) watchLoop(ctx context.Context, path string) {
	defer m.wg.Done()
	name := filepath.Base(path)

	for {
		select {
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			m.reload()

		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			logging.Warnf("config: watch error: %v", err)

		case <-ctx.Done():
			return
		}
	}
}

func (m *Manager) reload() {
	cfg, err := Load()
	if err != nil {
		logging.Warnf("config: reload failed: %v", err)
		return
	}
	if err := cfg.Validate(); err != nil {
		logging.Warnf("config: reload produced invalid config, keeping previous: %v", err)
		return
	}

	m.mu.Lock()
	m.config = cfg
	fn := m.onReload
	m.mu.Unlock()

	logging.Infof("config: reloaded successfully")
	if fn != nil {
		fn(cfg)
	}
}
