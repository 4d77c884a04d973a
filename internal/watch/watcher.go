package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"csvdash/internal/errors"
	"csvdash/internal/log"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
)

// Change reports that a file inside a catalog folder was created, written
// or removed.
type Change struct {
	Folder    string
	File      string
	Op        fsnotify.Op
	Timestamp time.Time
}

// Watcher monitors catalog folders of a local source using fsnotify.
type Watcher struct {
	// folder name by watched directory
	folders map[string]string

	matcher glob.Glob

	changes  chan Change
	stopChan chan struct{}
	done     chan struct{}

	fsWatcher *fsnotify.Watcher

	mutex    sync.RWMutex
	running  bool
	stopOnce sync.Once
}

// New creates a watcher reporting files whose name matches pattern.
// An empty pattern matches every file.
func New(pattern string) (*Watcher, error) {
	if pattern == "" {
		pattern = "*"
	}
	matcher, err := glob.Compile(pattern)
	if err != nil {
		return nil, errors.NewConfigError("invalid watch pattern", pattern, errors.InvalidConfig, err)
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		folders:   make(map[string]string),
		matcher:   matcher,
		changes:   make(chan Change, 16),
		stopChan:  make(chan struct{}),
		done:      make(chan struct{}),
		fsWatcher: fsWatcher,
	}, nil
}

// AddFolder watches dir and reports its changes under the folder name.
func (w *Watcher) AddFolder(folder, dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("error accessing directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	clean := filepath.Clean(dir)
	if err := w.fsWatcher.Add(clean); err != nil {
		return fmt.Errorf("failed to add directory %s to watcher: %w", dir, err)
	}

	w.mutex.Lock()
	w.folders[clean] = folder
	w.mutex.Unlock()
	log.LogWithFields(log.F("folder", folder), log.F("directory", clean)).Debug("Watching folder")
	return nil
}

// Folders returns the names of the watched folders, sorted.
func (w *Watcher) Folders() []string {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	names := make([]string, 0, len(w.folders))
	for _, name := range w.folders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Events returns the channel delivering changes. It is closed by Stop.
func (w *Watcher) Events() <-chan Change {
	return w.changes
}

// Start begins delivering changes.
func (w *Watcher) Start() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.running {
		return fmt.Errorf("watcher already running")
	}
	select {
	case <-w.stopChan:
		return fmt.Errorf("watcher stopped")
	default:
	}
	w.running = true
	go w.loop()
	log.Debug("Watcher started")
	return nil
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if change, ok := w.translate(event); ok {
				// never block the fsnotify reader
				select {
				case w.changes <- change:
				default:
					log.LogWithFields(log.F("folder", change.Folder), log.F("file", change.File)).
						Warn("Change channel is full, dropped event")
				}
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.LogWithError(err).Error("fsnotify watcher error")

		case <-w.stopChan:
			return
		}
	}
}

// translate maps an fsnotify event to a Change for matching regular files.
func (w *Watcher) translate(event fsnotify.Event) (Change, bool) {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Remove) {
		return Change{}, false
	}

	w.mutex.RLock()
	folder, ok := w.folders[filepath.Dir(event.Name)]
	w.mutex.RUnlock()
	file := filepath.Base(event.Name)
	if !ok || !w.matcher.Match(file) {
		return Change{}, false
	}

	if !event.Op.Has(fsnotify.Remove) {
		info, err := os.Stat(event.Name)
		if err != nil {
			if !os.IsNotExist(err) {
				log.LogWithFields(log.F("file", event.Name), log.F("error", err.Error())).Error("Error stating file")
			}
			return Change{}, false
		}
		if info.IsDir() {
			return Change{}, false
		}
	}

	return Change{Folder: folder, File: file, Op: event.Op, Timestamp: time.Now()}, true
}

// Stop halts the watcher and closes the Events channel. It also releases
// a watcher that was never started.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		w.mutex.Lock()
		wasRunning := w.running
		w.running = false
		w.mutex.Unlock()

		close(w.stopChan)
		if err := w.fsWatcher.Close(); err != nil {
			log.LogWithError(err).Error("Error closing fsnotify watcher")
		}
		if wasRunning {
			<-w.done
		}
		close(w.changes)
		log.Debug("Watcher stopped")
	})
}

// IsRunning returns whether the watcher is currently active
func (w *Watcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}
