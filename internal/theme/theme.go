// Package theme supplies the client color theme injected into rendered
// pages. Colors come from a JSONC theme file that is reloaded when it
// changes on disk, so a restyled deployment does not require a restart.
package theme

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/tidwall/jsonc"

	"github.com/webcode-dev/webcode/internal/logging"
)

// Colors is the pair of tokens substituted into page templates.
type Colors struct {
	BackgroundColor string `json:"backgroundColor"`
	ForegroundColor string `json:"foregroundColor"`
}

// DefaultColors matches the built-in dark theme of the web client.
func DefaultColors() Colors {
	return Colors{BackgroundColor: "#1E1E1E", ForegroundColor: "#CCCCCC"}
}

// Provider is the narrow interface the gateway consumes.
type Provider interface {
	// Ready blocks until the provider has completed its initial load.
	Ready(ctx context.Context) error
	// FetchColors returns the current theme colors. Called once per
	// request that renders a page.
	FetchColors(ctx context.Context) (Colors, error)
}

// FileProvider loads colors from a theme file and watches it for changes.
// A missing or unparseable file falls back to the default colors.
type FileProvider struct {
	path    string
	watcher *fsnotify.Watcher

	mu     sync.RWMutex
	colors Colors

	ready chan struct{}
	once  sync.Once
	stop  chan struct{}
}

// NewFileProvider creates a provider for path. An empty path yields a
// provider that always serves the defaults.
func NewFileProvider(path string) *FileProvider {
	p := &FileProvider{
		path:   path,
		colors: DefaultColors(),
		ready:  make(chan struct{}),
		stop:   make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *FileProvider) run() {
	p.reload()
	p.once.Do(func() { close(p.ready) })

	if p.path == "" {
		return
	}

	log := logging.For("theme")
	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warn().Err(err).Msg("theme watch unavailable")
		return
	}
	p.watcher = w
	// Watch the directory, not the file: editors replace files on save.
	if err := w.Add(filepath.Dir(p.path)); err != nil {
		log.Warn().Err(err).Str("path", p.path).Msg("theme watch failed")
		return
	}

	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if ev.Name != p.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				p.reload()
			}
		case _, ok := <-w.Errors:
			if !ok {
				return
			}
		case <-p.stop:
			return
		}
	}
}

func (p *FileProvider) reload() {
	colors := DefaultColors()
	if p.path != "" {
		if data, err := os.ReadFile(p.path); err == nil {
			var loaded Colors
			if err := json.Unmarshal(jsonc.ToJSON(data), &loaded); err == nil {
				if loaded.BackgroundColor != "" {
					colors.BackgroundColor = loaded.BackgroundColor
				}
				if loaded.ForegroundColor != "" {
					colors.ForegroundColor = loaded.ForegroundColor
				}
			} else {
				log := logging.For("theme")
				log.Warn().Err(err).Str("path", p.path).Msg("bad theme file")
			}
		}
	}

	p.mu.Lock()
	p.colors = colors
	p.mu.Unlock()
}

// Ready implements Provider.
func (p *FileProvider) Ready(ctx context.Context) error {
	select {
	case <-p.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// FetchColors implements Provider.
func (p *FileProvider) FetchColors(ctx context.Context) (Colors, error) {
	if err := p.Ready(ctx); err != nil {
		return Colors{}, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.colors, nil
}

// Close stops the file watcher.
func (p *FileProvider) Close() error {
	close(p.stop)
	if p.watcher != nil {
		return p.watcher.Close()
	}
	return nil
}

// Static is a Provider that always returns the same colors. Used by tests
// and by deployments without a theme file.
type Static struct {
	Colors Colors
}

// Ready implements Provider.
func (s Static) Ready(context.Context) error { return nil }

// FetchColors implements Provider.
func (s Static) FetchColors(context.Context) (Colors, error) { return s.Colors, nil }
