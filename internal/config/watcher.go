package config

import (
	"context"
	"path/filepath"
	"sync"

	"code.assetex.io/assetex/internal/logging"

	"github.com/fsnotify/fsnotify"
)

const namedLogger = "cfgwatcher"

// Watcher looks for updates to the configuration file and notifies
// registered listeners with the freshly loaded tree.
type Watcher struct {
	log  *logging.Logger
	path string

	mu                 sync.Mutex
	cfg                Config
	cfgUpdateListeners []func(Config)
}

// NewWatcher loads the configuration under path and starts watching the
// file for changes until ctx is cancelled.
func NewWatcher(ctx context.Context, log *logging.Logger, path string) (*Watcher, error) {
	log = log.Named(namedLogger)
	// always notified of configuration changes, whatever the root level
	log.SetLevel(logging.DebugLevel)

	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		log:  log,
		path: path,
		cfg:  *cfg,
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Join(path, configFileName)); err != nil {
		return nil, err
	}
	w.log.Info("config watcher started successfully",
		logging.String("config", filepath.Join(path, configFileName)),
	)
	go w.watch(ctx, watcher)
	return w, nil
}

// Get returns the last loaded configuration.
func (w *Watcher) Get() Config {
	w.mu.Lock()
	cfg := w.cfg
	w.mu.Unlock()
	return cfg
}

// OnConfigUpdate registers functions to be called when the
// configuration is updated.
func (w *Watcher) OnConfigUpdate(fns ...func(Config)) {
	w.mu.Lock()
	w.cfgUpdateListeners = append(w.cfgUpdateListeners, fns...)
	w.mu.Unlock()
}

func (w *Watcher) watch(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.log.Debug("configuration file changed", logging.String("event", event.Name))
			cfg, err := Read(w.path)
			if err != nil {
				w.log.Error("unable to reload configuration", logging.Error(err))
				continue
			}
			w.mu.Lock()
			w.cfg = *cfg
			listeners := make([]func(Config), len(w.cfgUpdateListeners))
			copy(listeners, w.cfgUpdateListeners)
			w.mu.Unlock()
			for _, f := range listeners {
				f(*cfg)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.log.Error("config watcher error", logging.Error(err))
		}
	}
}
