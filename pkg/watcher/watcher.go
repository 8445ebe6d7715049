// Package watcher reports debounced changes to input files.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is how long a file has to stay quiet before a change is reported
const DefaultDebounce = 500 * time.Millisecond

// FileWatcher watches files for changes and reports them on a channel.
// Bursts of writes to the same file are coalesced into one change.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	log      zerolog.Logger
	debounce time.Duration
	changes  chan string

	mu     sync.Mutex
	files  map[string]bool
	timers map[string]*time.Timer
}

// NewFileWatcher creates a new file watcher
func NewFileWatcher(debounce time.Duration, log zerolog.Logger) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &FileWatcher{
		watcher:  watcher,
		log:      log,
		debounce: debounce,
		changes:  make(chan string, 1),
		files:    make(map[string]bool),
		timers:   make(map[string]*time.Timer),
	}, nil
}

// Watch adds files to the watch list. The parent directory is watched so
// that editors replacing the file by rename are still noticed.
func (fw *FileWatcher) Watch(files ...string) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for _, file := range files {
		absPath, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", file, err)
		}

		if err := fw.watcher.Add(filepath.Dir(absPath)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", absPath, err)
		}
		fw.files[absPath] = true
	}

	return nil
}

// Changes delivers the absolute path of every file that changed. A change
// that arrives while one is still waiting to be received is merged into it.
func (fw *FileWatcher) Changes() <-chan string {
	return fw.changes
}

// Start begins watching for file changes
func (fw *FileWatcher) Start() {
	go func() {
		for {
			select {
			case event, ok := <-fw.watcher.Events:
				if !ok {
					return
				}

				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					fw.handleFileChange(event.Name)
				}

			case err, ok := <-fw.watcher.Errors:
				if !ok {
					return
				}
				fw.log.Warn().Err(err).Msg("watcher error")
			}
		}
	}()
}

// handleFileChange restarts the debounce timer of a watched file
func (fw *FileWatcher) handleFileChange(name string) {
	filePath, err := filepath.Abs(name)
	if err != nil {
		return
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	if !fw.files[filePath] {
		return
	}

	if timer, exists := fw.timers[filePath]; exists {
		timer.Stop()
	}

	fw.timers[filePath] = time.AfterFunc(fw.debounce, func() {
		select {
		case fw.changes <- filePath:
		default:
		}
	})
}

// Close stops the watcher and any pending debounce timers
func (fw *FileWatcher) Close() error {
	fw.mu.Lock()
	for _, timer := range fw.timers {
		timer.Stop()
	}
	fw.timers = make(map[string]*time.Timer)
	fw.mu.Unlock()

	return fw.watcher.Close()
}
