package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/PatxiBS/ud2-storageFork/internal/models"
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watcher reports changes made to the storage directory by anything other
// than the HTTP API, such as an operator editing files in place.
type Watcher struct {
	rootPath string
	watcher  *fsnotify.Watcher

	debounceInterval time.Duration
	debounceMu       sync.Mutex
	lastEmitted      map[string]time.Time

	eventCallback func(event models.ChangeEvent)
}

// Creates a watcher for the flat directory at rootPath.
func NewWatcher(rootPath string, debounceInterval time.Duration) (*Watcher, error) {
	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", rootPath, err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(absPath); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", absPath, err)
	}
	return &Watcher{
		rootPath:         absPath,
		watcher:          watcher,
		debounceInterval: debounceInterval,
		lastEmitted:      make(map[string]time.Time),
	}, nil
}

// Sets a callback function to be called on change events.
func (w *Watcher) SetEventCallback(callback func(event models.ChangeEvent)) {
	w.eventCallback = callback
}

// Run listens for events until ctx is cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	logrus.Infof("Watching storage directory: %s", w.rootPath)
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				logrus.Debug("Watcher event channel closed")
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				logrus.Debug("Watcher error channel closed")
				return nil
			}
			logrus.WithError(err).Warn("Watcher error")
		}
	}
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) emit(eventType, name, message string) {
	if w.eventCallback == nil {
		return
	}
	w.eventCallback(models.ChangeEvent{
		Type:      eventType,
		Filename:  name,
		Source:    models.SourceFilesystem,
		Timestamp: time.Now(),
		Message:   message,
	})
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
